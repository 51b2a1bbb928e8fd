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

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/verstamp/cmd/verstamp/opts"
	"github.com/walteh/verstamp/pkg/config"
	"github.com/walteh/verstamp/pkg/operation"
	"github.com/walteh/verstamp/pkg/profile"
	"github.com/walteh/verstamp/pkg/status"
	"github.com/walteh/verstamp/pkg/version"
	"gitlab.com/tozd/go/errors"
)

type updateFlags struct {
	dir                  string
	ensure               bool
	assemblyVersion      string
	fileVersion          string
	informationalVersion string
	versionFile          string
	newline              string
	pattern              string
	dryRun               bool
}

// NewUpdateCmd creates the update command
func NewUpdateCmd(rootOpts *opts.RootOpts) *cobra.Command {
	flags := &updateFlags{}

	cmd := &cobra.Command{
		Use:   "update [files...]",
		Short: "Write version attributes into AssemblyInfo files",
		Long: `Update writes the version attributes into every target file.
Targets are the files given as arguments (or in the config file), relative to
the working directory. Without any, every AssemblyInfo.* file below the
working directory is updated.

If any file fails, every file already touched is restored and files and
directories created with --ensure are removed again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "update").Logger().WithContext(ctx)

			options, err := flags.options(cmd, rootOpts.Config, args)
			if err != nil {
				return err
			}

			vars, err := flags.variables(cmd, rootOpts)
			if err != nil {
				return err
			}
			options.Variables = vars

			u, err := operation.NewUpdater(rootOpts.FileSystem, profile.DefaultTable(), options)
			if err != nil {
				return errors.Errorf("creating updater: %w", err)
			}

			rootOpts.Console.Header("stamping " + vars.InformationalVersion)

			runner := operation.NewRunner(zerolog.Ctx(ctx))
			if err := runner.Run(ctx, u); err != nil {
				rootOpts.Console.Error("update failed, see the files below", err)
				formatter := status.NewDefaultFileFormatter()
				for _, info := range u.Report().Files() {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatFile(info))
				}
				return errors.Errorf("updating files: %w", err)
			}
			if options.DryRun {
				rootOpts.Console.Info("dry run, nothing was written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "working directory (default: from config or the current directory)")
	cmd.Flags().BoolVar(&flags.ensure, "ensure", false, "create missing files from the language template")
	cmd.Flags().StringVar(&flags.assemblyVersion, "assembly-version", "", "AssemblyVersion value")
	cmd.Flags().StringVar(&flags.fileVersion, "file-version", "", "AssemblyFileVersion value")
	cmd.Flags().StringVar(&flags.informationalVersion, "informational-version", "", "AssemblyInformationalVersion value")
	cmd.Flags().StringVar(&flags.versionFile, "version-file", "", "GitVersion JSON output to read variables from")
	cmd.Flags().StringVar(&flags.newline, "newline", "", "line terminator for inserted lines: lf or crlf")
	cmd.Flags().StringVar(&flags.pattern, "pattern", "", "file pattern for the directory scan")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}

// options lays the command line over the config file
func (f *updateFlags) options(cmd *cobra.Command, cfg *config.Config, args []string) (operation.Options, error) {
	o := operation.Options{
		WorkingDirectory: cfg.WorkingDirectory,
		FileNames:        cfg.Files,
		EnsureExists:     cfg.EnsureAssemblyInfo,
		Newline:          cfg.Newline,
		Pattern:          cfg.Pattern,
		DryRun:           f.dryRun,
	}

	if cmd.Flags().Changed("dir") {
		o.WorkingDirectory = filepath.Clean(f.dir)
	}
	if cmd.Flags().Changed("ensure") {
		o.EnsureExists = f.ensure
	}
	if cmd.Flags().Changed("newline") {
		nl, err := config.ParseNewline(f.newline)
		if err != nil {
			return operation.Options{}, err
		}
		o.Newline = nl
	}
	if cmd.Flags().Changed("pattern") {
		o.Pattern = f.pattern
	}
	if len(args) > 0 {
		o.FileNames = args
	}
	return o, nil
}

// variables resolves the config variables and lays the flags over them
func (f *updateFlags) variables(cmd *cobra.Command, rootOpts *opts.RootOpts) (version.Variables, error) {
	cfg := *rootOpts.Config
	if cmd.Flags().Changed("version-file") {
		cfg.VersionFile = filepath.Clean(f.versionFile)
	}

	vars, err := cfg.ResolveVariables(cmd.Context(), rootOpts.FileSystem)
	if err != nil {
		return version.Variables{}, errors.Errorf("resolving version variables: %w", err)
	}

	return vars.Merge(version.Variables{
		AssemblySemVer:       f.assemblyVersion,
		AssemblySemFileVer:   f.fileVersion,
		InformationalVersion: f.informationalVersion,
	}), nil
}
