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

// Package fsys is the file system capability used by the locator, the patcher
// and the transaction manager. Everything goes through afero so tests can run
// against an in-memory file system.
package fsys

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

// 💾 FileSystem is the set of file operations a patch run needs
type FileSystem interface {
	ReadText(ctx context.Context, path string) (string, error)
	WriteText(ctx context.Context, path string, content string) error
	Copy(ctx context.Context, src, dst string, overwrite bool) error
	Move(ctx context.Context, src, dst string) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	DirExists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error

	// List walks dir recursively and returns the files matching pattern in
	// sorted order. Patterns without a separator match the base name, others
	// match the slash separated path relative to dir.
	List(ctx context.Context, dir, pattern string) ([]string, error)
}

// 🔧 AferoFileSystem implements FileSystem on top of an afero.Fs
type AferoFileSystem struct {
	fs afero.Fs
}

var _ FileSystem = (*AferoFileSystem)(nil)

// 🏭 New wraps an afero file system
func New(fs afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: fs}
}

// 🏭 NewOS returns a FileSystem backed by the real disk
func NewOS() *AferoFileSystem {
	return New(afero.NewOsFs())
}

// 🏭 NewMemory returns an empty in-memory FileSystem
func NewMemory() *AferoFileSystem {
	return New(afero.NewMemMapFs())
}

// Afero exposes the underlying afero.Fs
func (a *AferoFileSystem) Afero() afero.Fs {
	return a.fs
}

// 🪞 Overlay returns a FileSystem that reads through to a but keeps every
// write in memory. a is never modified.
func (a *AferoFileSystem) Overlay() FileSystem {
	return New(afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(a.fs), afero.NewMemMapFs()))
}

// Overlayer is implemented by file systems that can stage writes in memory
type Overlayer interface {
	Overlay() FileSystem
}

func (a *AferoFileSystem) ReadText(ctx context.Context, path string) (string, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (a *AferoFileSystem) WriteText(ctx context.Context, path string, content string) error {
	mode := os.FileMode(defaultFileMode)
	if info, err := a.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(content)).Msg("writing file")

	if err := afero.WriteFile(a.fs, path, []byte(content), mode); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (a *AferoFileSystem) Copy(ctx context.Context, src, dst string, overwrite bool) error {
	info, err := a.fs.Stat(src)
	if err != nil {
		return errors.Errorf("checking source %s: %w", src, err)
	}
	if info.IsDir() {
		return errors.Errorf("copying %s: source is a directory", src)
	}

	if !overwrite {
		exists, err := a.Exists(ctx, dst)
		if err != nil {
			return err
		}
		if exists {
			return errors.Errorf("copying %s: destination %s already exists", src, dst)
		}
	}

	data, err := afero.ReadFile(a.fs, src)
	if err != nil {
		return errors.Errorf("reading source %s: %w", src, err)
	}

	zerolog.Ctx(ctx).Trace().Str("src", src).Str("dst", dst).Msg("copying file")

	if err := afero.WriteFile(a.fs, dst, data, info.Mode().Perm()); err != nil {
		return errors.Errorf("writing destination %s: %w", dst, err)
	}
	return nil
}

func (a *AferoFileSystem) Move(ctx context.Context, src, dst string) error {
	zerolog.Ctx(ctx).Trace().Str("src", src).Str("dst", dst).Msg("moving file")

	if err := a.fs.Rename(src, dst); err != nil {
		return errors.Errorf("moving %s to %s: %w", src, dst, err)
	}
	return nil
}

func (a *AferoFileSystem) Delete(ctx context.Context, path string) error {
	zerolog.Ctx(ctx).Trace().Str("path", path).Msg("deleting file")

	if err := a.fs.Remove(path); err != nil {
		return errors.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

func (a *AferoFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	info, err := a.fs.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (a *AferoFileSystem) DirExists(ctx context.Context, path string) (bool, error) {
	ok, err := afero.DirExists(a.fs, path)
	if err != nil {
		return false, errors.Errorf("checking directory existence: %w", err)
	}
	return ok, nil
}

func (a *AferoFileSystem) CreateDir(ctx context.Context, path string) error {
	if err := a.fs.MkdirAll(path, defaultDirMode); err != nil {
		return errors.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

func (a *AferoFileSystem) List(ctx context.Context, dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid pattern %q", pattern)
	}
	matchBase := !strings.Contains(pattern, "/")

	var matches []string
	err := afero.Walk(a.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		name := info.Name()
		if !matchBase {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return errors.Errorf("relative path of %s: %w", path, err)
			}
			name = filepath.ToSlash(rel)
		}

		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return errors.Errorf("matching %s: %w", path, err)
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("listing %s in %s: %w", pattern, dir, err)
	}

	sort.Strings(matches)

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Str("pattern", pattern).Int("matches", len(matches)).Msg("listed files")

	return matches, nil
}
