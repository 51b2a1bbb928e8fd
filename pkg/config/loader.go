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
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/verstamp/pkg/fsys"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🗺️ DefaultNames are the config file names Find looks for, in order
var DefaultNames = []string{".verstamp.yaml", ".verstamp.yml", ".verstamp.json", ".verstamp.toml", ".verstamp.hcl"}

// 🔌 Parser decodes one config format
type Parser interface {
	// 📝 Parse decodes data read from filename
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

// 🎯 GetParser returns a parser that can handle the given file, or nil
func GetParser(filename string) Parser {
	for _, p := range []Parser{&YAMLParser{}, &JSONParser{}, &TOMLParser{}, &HCLParser{}} {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 LoadConfig reads, parses and validates the config file at path. The
// format is picked from the extension.
func LoadConfig(ctx context.Context, fs fsys.FileSystem, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}

	data, err := fs.ReadText(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := p.Parse(ctx, []byte(data), path)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Find returns the first DefaultNames entry present in dir, or "" when
// there is none
func Find(ctx context.Context, fs fsys.FileSystem, dir string) (string, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		exists, err := fs.Exists(ctx, path)
		if err != nil {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
		if exists {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("found config file")
			return path, nil
		}
	}
	return "", nil
}

// 🏠 FindUser looks for a config.{yaml,yml,json,toml,hcl} file under the
// user's XDG config directory, returning "" when there is none
func FindUser(ctx context.Context, fs fsys.FileSystem) (string, error) {
	dir := filepath.Join(xdg.ConfigHome, "verstamp")
	for _, name := range DefaultNames {
		path := filepath.Join(dir, "config"+filepath.Ext(name))
		exists, err := fs.Exists(ctx, path)
		if err != nil {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
		if exists {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("found user config file")
			return path, nil
		}
	}
	return "", nil
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func (p *YAMLParser) CanParse(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// 🔧 JSONParser implements the Parser interface for JSON files
type JSONParser struct{}

func (p *JSONParser) CanParse(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".json"
}

func (p *JSONParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}

// 🔧 TOMLParser implements the Parser interface for TOML files
type TOMLParser struct{}

func (p *TOMLParser) CanParse(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".toml"
}

func (p *TOMLParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	var cfg Config
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}
	return &cfg, nil
}
