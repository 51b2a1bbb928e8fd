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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/verstamp/pkg/fsys"
	"github.com/walteh/verstamp/pkg/locate"
	"github.com/walteh/verstamp/pkg/log"
	"github.com/walteh/verstamp/pkg/patch"
	"github.com/walteh/verstamp/pkg/profile"
	"github.com/walteh/verstamp/pkg/status"
	"github.com/walteh/verstamp/pkg/txn"
	"gitlab.com/tozd/go/errors"
)

// 📦 Updater stamps version attributes into every target file of a run.
// Either every file is updated or the tree is left as it was found.
type Updater struct {
	BaseOperation
	report *status.Report
}

var _ Operation = (*Updater)(nil)

// 🏭 NewUpdater validates opts and returns an Updater
func NewUpdater(fs fsys.FileSystem, table *profile.Table, opts Options) (*Updater, error) {
	base, err := NewBaseOperation(fs, table, opts)
	if err != nil {
		return nil, err
	}
	if base.Options.DryRun {
		overlay, ok := fs.(fsys.Overlayer)
		if !ok {
			return nil, errors.Errorf("dry run needs a file system that supports overlays, got %T", fs)
		}
		base.FileSystem = overlay.Overlay()
	}
	return &Updater{BaseOperation: base, report: status.NewReport()}, nil
}

// 🏃 Execute runs the update, discarding the report
func (u *Updater) Execute(ctx context.Context) error {
	_, err := u.Update(ctx)
	return err
}

// Report returns the outcome of the last run
func (u *Updater) Report() *status.Report {
	return u.report
}

// 🔄 Update patches every target file inside one transaction
func (u *Updater) Update(ctx context.Context) (_ *status.Report, err error) {
	u.report = status.NewReport()
	u.report.RunID = uuid.NewString()

	ctx = zerolog.Ctx(ctx).With().Str("run_id", u.report.RunID).Logger().WithContext(ctx)
	console := log.FromContext(ctx).WithField("run_id", u.report.RunID)
	ctx = log.NewContext(ctx, console)
	logger := zerolog.Ctx(ctx)
	tx := txn.New(u.FileSystem)

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Close(ctx); rbErr != nil {
			err = errors.Join(err, errors.Errorf("rolling back: %w", rbErr))
		}
		if u.Options.DryRun {
			return
		}
		if restored := u.report.MarkRestored(); restored > 0 {
			console.RolledBack(restored, err)
		}
	}()

	locator := locate.New(u.FileSystem, u.Table,
		locate.WithPattern(u.Options.Pattern),
		locate.WithCreateHook(tx.Created),
		locate.WithCreateDirHook(tx.CreatedDir),
	)

	files, err := locator.Resolve(ctx, u.Options.WorkingDirectory, u.Options.FileNames, u.Options.EnsureExists)
	if err != nil {
		return u.report, errors.Errorf("resolving files: %w", err)
	}

	console.StartRunOperation(ctx, log.RunOperation{
		WorkingDirectory: u.Options.WorkingDirectory,
		Files:            len(files),
		DryRun:           u.Options.DryRun,
	})
	defer console.EndRunOperation(ctx)

	directives := patch.Directives(u.Options.Variables)
	logger.Debug().Int("directives", len(directives)).Msg("rendered directives")

	progress := status.NewDefaultFileFormatter()
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return u.report, errors.Errorf("update cancelled: %w", err)
		}
		if err := u.updateFile(ctx, tx, file, directives); err != nil {
			return u.report, errors.Errorf("updating %s: %w", file.Path, err)
		}
		logger.Debug().Msg(progress.FormatProgress(i+1, len(files)))
	}

	if err := tx.Commit(ctx); err != nil {
		committed = true
		return u.report, errors.Errorf("committing: %w", err)
	}
	committed = true

	console.Summary(
		u.report.Count(status.StatusUpdated),
		u.report.Count(status.StatusCreated),
		u.report.Count(status.StatusUnchanged),
	)

	return u.report, nil
}

// 📄 updateFile patches a single file, writing only when the content changes
func (u *Updater) updateFile(ctx context.Context, tx *txn.Transaction, file locate.TargetFile, directives []patch.Directive) error {
	original, err := u.FileSystem.ReadText(ctx, file.Path)
	if err != nil {
		return errors.Errorf("reading: %w", err)
	}

	summary := patch.ApplyAll(original, directives, file.Profile, u.Options.Newline)
	changed := summary.Changed(original)

	if changed {
		if !u.Options.DryRun {
			if err := tx.Begin(ctx, file.Path); err != nil {
				return errors.Errorf("backing up: %w", err)
			}
		}
		if err := u.FileSystem.WriteText(ctx, file.Path, summary.Content); err != nil {
			return errors.Errorf("writing: %w", err)
		}
	}

	info := status.FileInfo{
		Path:       file.Path,
		Language:   file.Extension(),
		Replaced:   summary.Replaced,
		Inserted:   summary.Inserted,
		Appended:   summary.Added,
		Checksum:   status.Checksum(summary.Content),
		BytesAfter: len(summary.Content),
	}
	switch {
	case file.Created:
		info.Status = status.StatusCreated
	case changed:
		info.Status = status.StatusUpdated
	default:
		info.Status = status.StatusUnchanged
	}
	u.report.Track(info)

	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:       file.Path,
		Language:   info.Language,
		Status:     info.Status.String(),
		IsNew:      file.Created,
		IsModified: changed,
		Attributes: info.Attributes(),
	})

	return nil
}
