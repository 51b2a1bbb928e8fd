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

// Package txn makes a batch of file mutations all-or-nothing.
//
// A Transaction snapshots each file to "<path>.bak" before its first write and
// keeps two ordered action lists: rollback actions that restore the snapshots
// and cleanup actions that delete them. Exactly one of the lists runs:
//
//	tx := txn.New(fs)
//	defer tx.Close(ctx) // rolls back unless Commit was reached
//
//	if err := tx.Begin(ctx, path); err != nil {
//		return err
//	}
//	// ... write path ...
//
//	return tx.Commit(ctx)
package txn

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/verstamp/pkg/fsys"
	"gitlab.com/tozd/go/errors"
)

// BackupSuffix is appended to a file path to name its snapshot
const BackupSuffix = ".bak"

// 📊 State of a transaction
type State int

const (
	StateOpen State = iota
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// 🗃️ Record describes one file guarded by the transaction
type Record struct {
	Path       string
	BackupPath string // empty for files created during the run
	Created    bool
	Dir        bool // a directory created during the run
}

type action struct {
	path string
	run  func(ctx context.Context) error
}

// 🔒 Transaction guards a set of file mutations
type Transaction struct {
	fs fsys.FileSystem

	mu       sync.Mutex
	state    State
	records  map[string]Record
	order    []string
	rollback []action
	cleanup  []action
	dirs     []action
}

// 🏭 New creates an open transaction, no I/O happens until Begin
func New(fs fsys.FileSystem) *Transaction {
	return &Transaction{
		fs:      fs,
		records: map[string]Record{},
	}
}

// Backup returns the snapshot path for path
func Backup(path string) string {
	return path + BackupSuffix
}

// Begin snapshots path before its first mutation. Later calls for the same
// path do nothing.
func (t *Transaction) Begin(ctx context.Context, path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateOpen {
		return errors.Errorf("beginning mutation of %s: transaction is %s", path, t.state)
	}
	if _, ok := t.records[path]; ok {
		return nil
	}

	backup := Backup(path)
	if err := t.fs.Copy(ctx, path, backup, true); err != nil {
		return errors.Errorf("backing up %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backup).Msg("created backup")

	t.track(Record{Path: path, BackupPath: backup},
		func(ctx context.Context) error {
			exists, err := t.fs.Exists(ctx, path)
			if err != nil {
				return err
			}
			if exists {
				if err := t.fs.Delete(ctx, path); err != nil {
					return err
				}
			}
			return t.fs.Move(ctx, backup, path)
		},
		func(ctx context.Context) error {
			return t.fs.Delete(ctx, backup)
		},
	)
	return nil
}

// Created registers a file that did not exist before the run. Rollback
// deletes it, commit keeps it, and no snapshot is taken.
func (t *Transaction) Created(ctx context.Context, path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateOpen {
		return errors.Errorf("registering created file %s: transaction is %s", path, t.state)
	}
	if _, ok := t.records[path]; ok {
		return nil
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("tracking created file")

	t.track(Record{Path: path, Created: true},
		func(ctx context.Context) error {
			exists, err := t.fs.Exists(ctx, path)
			if err != nil {
				return err
			}
			if !exists {
				return nil
			}
			return t.fs.Delete(ctx, path)
		},
		nil,
	)
	return nil
}

// CreatedDir registers a directory that did not exist before the run.
// Rollback removes it after every file has been restored, the most recently
// registered directory first, so parents must be registered before children.
func (t *Transaction) CreatedDir(ctx context.Context, path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateOpen {
		return errors.Errorf("registering created directory %s: transaction is %s", path, t.state)
	}
	if _, ok := t.records[path]; ok {
		return nil
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("tracking created directory")

	t.records[path] = Record{Path: path, Created: true, Dir: true}
	t.order = append(t.order, path)
	t.dirs = append(t.dirs, action{path: path, run: func(ctx context.Context) error {
		exists, err := t.fs.DirExists(ctx, path)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		return t.fs.Delete(ctx, path)
	}})
	return nil
}

func (t *Transaction) track(rec Record, rollback, cleanup func(ctx context.Context) error) {
	t.records[rec.Path] = rec
	t.order = append(t.order, rec.Path)
	t.rollback = append(t.rollback, action{path: rec.Path, run: rollback})
	if cleanup != nil {
		t.cleanup = append(t.cleanup, action{path: rec.Path, run: cleanup})
	}
}

// Tracked reports whether path already has a record
func (t *Transaction) Tracked(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.records[path]
	return ok
}

// Records returns the guarded files in registration order
func (t *Transaction) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Record, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.records[p])
	}
	return out
}

// State returns the current state
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Rollback restores every snapshot in registration order, then removes the
// created directories, and clears the action lists. Every action runs even when an earlier one fails; the
// failures are joined. A second call, or a call after Commit, does nothing.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateOpen {
		return nil
	}

	errs := run(ctx, t.rollback, "restoring")
	dirs := make([]action, 0, len(t.dirs))
	for i := len(t.dirs) - 1; i >= 0; i-- {
		dirs = append(dirs, t.dirs[i])
	}
	errs = append(errs, run(ctx, dirs, "removing directory")...)
	if n := len(t.rollback); n > 0 {
		zerolog.Ctx(ctx).Info().Int("files", n).Int("failed", len(errs)).Msg("rolled back changes")
	}
	t.finish(StateRolledBack)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Commit deletes every snapshot and clears both action lists. A second
// call, or a call after Rollback, does nothing.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateOpen {
		return nil
	}

	errs := run(ctx, t.cleanup, "removing backup of")
	if n := len(t.cleanup); n > 0 {
		zerolog.Ctx(ctx).Debug().Int("backups", n).Msg("committed changes")
	}
	t.finish(StateCommitted)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Close rolls back unless the transaction was committed. It is meant to be
// deferred right after New.
func (t *Transaction) Close(ctx context.Context) error {
	return t.Rollback(ctx)
}

func (t *Transaction) finish(s State) {
	t.state = s
	t.rollback = nil
	t.cleanup = nil
	t.dirs = nil
}

func run(ctx context.Context, actions []action, verb string) []error {
	var errs []error
	for _, a := range actions {
		if err := a.run(ctx); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("path", a.path).Msgf("%s failed", verb)
			errs = append(errs, errors.Errorf("%s %s: %w", verb, a.path, err))
		}
	}
	return errs
}
