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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/verstamp/cmd/verstamp/commands"
	"github.com/walteh/verstamp/cmd/verstamp/opts"
	"github.com/walteh/verstamp/pkg/config"
	"github.com/walteh/verstamp/pkg/fsys"
	"github.com/walteh/verstamp/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func newRootCmd(fs fsys.FileSystem) *cobra.Command {
	rootOpts := &opts.RootOpts{FileSystem: fs}

	rootCmd := &cobra.Command{
		Use:   "verstamp",
		Short: "Stamp version attributes into AssemblyInfo files",
		Long: `verstamp writes AssemblyVersion, AssemblyFileVersion and
AssemblyInformationalVersion attributes into C#, F# and Visual Basic
AssemblyInfo files. A run updates every file or none of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.ErrOrStderr(), rootOpts.Debug)
			rootOpts.Console = log.NewWithZerolog(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
			ctx = log.NewContext(ctx, rootOpts.Console)
			cmd.SetContext(ctx)

			cfg, err := loadConfig(ctx, rootOpts)
			if err != nil {
				return err
			}
			rootOpts.Config = cfg
			return nil
		},
	}

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewUpdateCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

func addRootFlags(cmd *cobra.Command, rootOpts *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigFile, "config", "c", "", "config file path (default: .verstamp.{yaml,yml,json,hcl} in the current directory)")
	cmd.PersistentFlags().BoolVarP(&rootOpts.Debug, "debug", "d", false, "enable debug logging")
}

// loadConfig reads the explicit config file, or the first default one found.
// Running without any config file is fine.
func loadConfig(ctx context.Context, rootOpts *opts.RootOpts) (*config.Config, error) {
	path := rootOpts.ConfigFile
	if path == "" {
		found, err := config.Find(ctx, rootOpts.FileSystem, ".")
		if err != nil {
			return nil, errors.Errorf("looking for config file: %w", err)
		}
		path = found
	}
	if path == "" {
		found, err := config.FindUser(ctx, rootOpts.FileSystem)
		if err != nil {
			return nil, errors.Errorf("looking for user config file: %w", err)
		}
		path = found
	}

	if path == "" {
		cfg := &config.Config{}
		if err := cfg.Validate(); err != nil {
			return nil, errors.Errorf("validating default config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfig(ctx, rootOpts.FileSystem, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
