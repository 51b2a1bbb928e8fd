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

package operation

import (
	"context"
	"path/filepath"

	"github.com/walteh/verstamp/pkg/fsys"
	"github.com/walteh/verstamp/pkg/locate"
	"github.com/walteh/verstamp/pkg/patch"
	"github.com/walteh/verstamp/pkg/profile"
	"github.com/walteh/verstamp/pkg/version"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options configures an update run
type Options struct {
	// WorkingDirectory is the root explicit names are joined to and the
	// convention scan starts from
	WorkingDirectory string
	// FileNames lists target files; when all are blank the convention scan is used
	FileNames []string
	// EnsureExists creates missing explicit files from the profile template
	EnsureExists bool
	// Variables carries the version values to write
	Variables version.Variables
	// Newline terminates inserted lines, defaults to the platform newline
	Newline string
	// DryRun computes the outcome without touching the disk
	DryRun bool
	// Pattern overrides the convention scan pattern
	Pattern string
}

// ✅ Validate fills defaults and checks the options are usable
func (o *Options) Validate() error {
	if o.WorkingDirectory == "" {
		o.WorkingDirectory = "."
	}
	o.WorkingDirectory = filepath.Clean(o.WorkingDirectory)

	if o.Newline == "" {
		o.Newline = patch.PlatformNewline()
	}
	if o.Newline != "\n" && o.Newline != "\r\n" {
		return errors.Errorf("invalid newline %q", o.Newline)
	}

	if o.Pattern == "" {
		o.Pattern = locate.ConventionPattern
	}
	return nil
}

// 📦 BaseOperation holds what every operation needs
type BaseOperation struct {
	FileSystem fsys.FileSystem
	Table      *profile.Table
	Options    Options
}

// 🏭 NewBaseOperation validates opts and bundles them with the collaborators
func NewBaseOperation(fs fsys.FileSystem, table *profile.Table, opts Options) (BaseOperation, error) {
	if fs == nil {
		return BaseOperation{}, errors.Errorf("file system is required")
	}
	if table == nil {
		table = profile.DefaultTable()
	}
	if err := opts.Validate(); err != nil {
		return BaseOperation{}, errors.Errorf("validating options: %w", err)
	}
	return BaseOperation{FileSystem: fs, Table: table, Options: opts}, nil
}
