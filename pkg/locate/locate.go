// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package locate finds the AssemblyInfo files a run should patch.
package locate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/verstamp/pkg/fsys"
	"github.com/walteh/verstamp/pkg/log"
	"github.com/walteh/verstamp/pkg/profile"
	"gitlab.com/tozd/go/errors"
)

// ConventionPattern matches the files picked up when no names are given
const ConventionPattern = "AssemblyInfo.*"

// 📄 TargetFile is a file to patch together with its language profile
type TargetFile struct {
	Path    string
	Profile profile.Profile
	Created bool // created from the profile template during this run
}

// Extension returns the profile extension of the file
func (f TargetFile) Extension() string {
	return f.Profile.Extension
}

// CreateHook is called right before a missing file or directory is created
type CreateHook func(ctx context.Context, path string) error

// Option configures a Locator
type Option func(*Locator)

// WithCreateHook registers a hook for created files
func WithCreateHook(hook CreateHook) Option {
	return func(l *Locator) {
		l.onCreate = hook
	}
}

// WithCreateDirHook registers a hook for directories created to hold a new
// file. It is called once per missing directory, parents first.
func WithCreateDirHook(hook CreateHook) Option {
	return func(l *Locator) {
		l.onCreateDir = hook
	}
}

// WithPattern overrides the convention scan pattern
func WithPattern(pattern string) Option {
	return func(l *Locator) {
		l.pattern = pattern
	}
}

// 🔍 Locator resolves target files against a file system and a profile table
type Locator struct {
	fs       fsys.FileSystem
	table    *profile.Table
	pattern     string
	onCreate    CreateHook
	onCreateDir CreateHook
}

// 🏭 New creates a Locator
func New(fs fsys.FileSystem, table *profile.Table, opts ...Option) *Locator {
	l := &Locator{
		fs:      fs,
		table:   table,
		pattern: ConventionPattern,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve uses the explicit names when any of them is non-blank, otherwise
// it scans workDir by convention.
func (l *Locator) Resolve(ctx context.Context, workDir string, names []string, ensure bool) ([]TargetFile, error) {
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			return l.ResolveExplicit(ctx, workDir, names, ensure)
		}
	}
	return l.ResolveByConvention(ctx, workDir)
}

// ResolveExplicit returns the named files relative to workDir, in the order
// given. Missing files are skipped unless ensure is set, in which case they
// are created from the language template when one exists.
func (l *Locator) ResolveExplicit(ctx context.Context, workDir string, names []string, ensure bool) ([]TargetFile, error) {
	logger := zerolog.Ctx(ctx)

	var files []TargetFile
	seen := map[string]bool{}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}

		fullPath := name
		if !filepath.IsAbs(name) {
			fullPath = filepath.Join(workDir, name)
		}
		fullPath = filepath.Clean(fullPath)
		if seen[fullPath] {
			continue
		}
		seen[fullPath] = true

		file, ok, err := l.ensure(ctx, fullPath, ensure)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		logger.Debug().Str("path", fullPath).Bool("created", file.Created).Msg("resolved file")
		files = append(files, file)
	}
	return files, nil
}

func (l *Locator) ensure(ctx context.Context, fullPath string, ensure bool) (TargetFile, bool, error) {
	logger := zerolog.Ctx(ctx)

	p, supported := l.table.ForPath(fullPath)

	exists, err := l.fs.Exists(ctx, fullPath)
	if err != nil {
		return TargetFile{}, false, errors.Errorf("checking %s: %w", fullPath, err)
	}

	if exists {
		if !supported {
			logger.Debug().Str("path", fullPath).Msg("skipping file with unsupported extension")
			return TargetFile{}, false, nil
		}
		return TargetFile{Path: fullPath, Profile: p}, true, nil
	}

	if !ensure {
		logger.Debug().Str("path", fullPath).Msg("skipping missing file")
		return TargetFile{}, false, nil
	}

	if !supported || !p.HasTemplate() {
		log.FromContext(ctx).Warning(fmt.Sprintf("No version assembly info template available to create source file '%s'", fullPath))
		return TargetFile{}, false, nil
	}

	if err := l.ensureDir(ctx, filepath.Dir(fullPath)); err != nil {
		return TargetFile{}, false, errors.Errorf("creating directory for %s: %w", fullPath, err)
	}

	if l.onCreate != nil {
		if err := l.onCreate(ctx, fullPath); err != nil {
			return TargetFile{}, false, errors.Errorf("tracking created file %s: %w", fullPath, err)
		}
	}

	if err := l.fs.WriteText(ctx, fullPath, p.Template); err != nil {
		return TargetFile{}, false, errors.Errorf("creating %s from template: %w", fullPath, err)
	}

	logger.Info().Str("path", fullPath).Str("language", p.Extension).Msg("created file from template")

	return TargetFile{Path: fullPath, Profile: p, Created: true}, true, nil
}

// ensureDir creates dir and every missing parent, announcing each one to the
// directory hook before anything is created
func (l *Locator) ensureDir(ctx context.Context, dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		ok, err := l.fs.DirExists(ctx, d)
		if err != nil {
			return errors.Errorf("checking directory %s: %w", d, err)
		}
		if ok {
			break
		}
		missing = append(missing, d)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if l.onCreateDir != nil {
		for i := len(missing) - 1; i >= 0; i-- {
			if err := l.onCreateDir(ctx, missing[i]); err != nil {
				return errors.Errorf("tracking created directory %s: %w", missing[i], err)
			}
		}
	}

	return l.fs.CreateDir(ctx, dir)
}

// ResolveByConvention scans workDir recursively for AssemblyInfo files with a
// supported extension. The result is sorted by path.
func (l *Locator) ResolveByConvention(ctx context.Context, workDir string) ([]TargetFile, error) {
	paths, err := l.fs.List(ctx, workDir, l.pattern)
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", workDir, err)
	}

	var files []TargetFile
	for _, path := range paths {
		p, ok := l.table.ForPath(path)
		if !ok {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("ignoring unsupported file")
			continue
		}
		files = append(files, TargetFile{Path: path, Profile: p})
	}
	return files, nil
}
