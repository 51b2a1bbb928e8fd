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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/verstamp/pkg/fsys"
	"github.com/walteh/verstamp/pkg/version"
	"gitlab.com/tozd/go/errors"
)

// 📦 Variables holds version values written inline in the config file
type Variables struct {
	AssemblySemVer       string `json:"assembly_sem_ver,omitempty" yaml:"assembly_sem_ver,omitempty" toml:"assembly_sem_ver,omitempty" hcl:"assembly_sem_ver,optional"`
	AssemblySemFileVer   string `json:"assembly_sem_file_ver,omitempty" yaml:"assembly_sem_file_ver,omitempty" toml:"assembly_sem_file_ver,omitempty" hcl:"assembly_sem_file_ver,optional"`
	InformationalVersion string `json:"informational_version,omitempty" yaml:"informational_version,omitempty" toml:"informational_version,omitempty" hcl:"informational_version,optional"`
}

// 📚 Config is the contents of a .verstamp file
type Config struct {
	WorkingDirectory   string     `json:"working_directory,omitempty" yaml:"working_directory,omitempty" toml:"working_directory,omitempty" hcl:"working_directory,optional"`
	Files              []string   `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty" hcl:"files,optional"`
	EnsureAssemblyInfo bool       `json:"ensure_assembly_info,omitempty" yaml:"ensure_assembly_info,omitempty" toml:"ensure_assembly_info,omitempty" hcl:"ensure_assembly_info,optional"`
	Newline            string     `json:"newline,omitempty" yaml:"newline,omitempty" toml:"newline,omitempty" hcl:"newline,optional"`
	Pattern            string     `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty" hcl:"pattern,optional"`
	VersionFile        string     `json:"version_file,omitempty" yaml:"version_file,omitempty" toml:"version_file,omitempty" hcl:"version_file,optional"`
	Variables          *Variables `json:"variables,omitempty" yaml:"variables,omitempty" toml:"variables,omitempty" hcl:"variables,block"`

	location string
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// dir is the directory relative paths in the config resolve against
func (cfg *Config) dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// 🔍 Validate normalizes paths and newlines and fills defaults
func (cfg *Config) Validate() error {
	// an unset working directory means the current one, not the config's
	switch {
	case cfg.WorkingDirectory == "":
		cfg.WorkingDirectory = "."
	case !filepath.IsAbs(cfg.WorkingDirectory):
		cfg.WorkingDirectory = filepath.Join(cfg.dir(), cfg.WorkingDirectory)
	}
	cfg.WorkingDirectory = filepath.Clean(cfg.WorkingDirectory)

	files := cfg.Files[:0]
	for _, f := range cfg.Files {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, filepath.Clean(f))
		}
	}
	cfg.Files = files

	newline, err := ParseNewline(cfg.Newline)
	if err != nil {
		return err
	}
	cfg.Newline = newline

	if cfg.VersionFile != "" && !filepath.IsAbs(cfg.VersionFile) {
		cfg.VersionFile = filepath.Clean(filepath.Join(cfg.dir(), cfg.VersionFile))
	}

	return nil
}

// ParseNewline accepts a literal line terminator or one of the names lf and crlf.
// An empty value stays empty and means the platform default.
func ParseNewline(s string) (string, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "\n", "lf":
		return "\n", nil
	case "\r\n", "crlf":
		return "\r\n", nil
	default:
		return "", errors.Errorf("invalid newline %q: expected lf or crlf", s)
	}
}

// 🔢 ResolveVariables reads the version file, if any, and lays the inline
// variables over it
func (cfg *Config) ResolveVariables(ctx context.Context, fs fsys.FileSystem) (version.Variables, error) {
	var vars version.Variables

	if cfg.VersionFile != "" {
		zerolog.Ctx(ctx).Debug().Str("path", cfg.VersionFile).Msg("reading version file")

		text, err := fs.ReadText(ctx, cfg.VersionFile)
		if err != nil {
			return version.Variables{}, errors.Errorf("reading version file: %w", err)
		}
		vars, err = version.FromJSON(strings.NewReader(text))
		if err != nil {
			return version.Variables{}, errors.Errorf("parsing version file %s: %w", cfg.VersionFile, err)
		}
	}

	if cfg.Variables != nil {
		vars = vars.Merge(version.Variables{
			AssemblySemVer:       cfg.Variables.AssemblySemVer,
			AssemblySemFileVer:   cfg.Variables.AssemblySemFileVer,
			InformationalVersion: cfg.Variables.InformationalVersion,
		})
	}

	return vars, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	target := "AssemblyInfo.*"
	if len(cfg.Files) > 0 {
		target = strings.Join(cfg.Files, ",")
	}
	return fmt.Sprintf("%s:%s ensure=%t", cfg.WorkingDirectory, target, cfg.EnsureAssemblyInfo)
}
