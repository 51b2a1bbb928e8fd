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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent     = 4  // spaces to indent file entries
	nameWidth      = 45 // Base width for filename
	languageWidth  = 6  // Width for language
	statusWidth    = 12 // Width for status text
	attributeSplit = ", "
)

// 🎯 FileOperation represents the outcome of patching one file
type FileOperation struct {
	Path       string   // File path
	Language   string   // Profile extension (.cs/.fs/.vb)
	Status     string   // Operation status
	IsNew      bool     // Whether the file was created from a template
	IsModified bool     // Whether the content changed
	IsRestored bool     // Whether the file was restored from its backup
	Attributes []string // Attributes written
}

// 📦 RunOperation describes one patch run
type RunOperation struct {
	WorkingDirectory string
	Files            int
	DryRun           bool
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *RunOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// 🏭 NewWithZerolog creates a logger writing structured entries to zlog
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🏷️ WithField returns a logger sharing l's console whose structured
// entries all carry key=value
func (l *Logger) WithField(key, value string) *Logger {
	return NewWithZerolog(l.console, l.zlog.With().Str(key, value).Logger())
}

// Discard returns a logger that prints nothing
func Discard() *Logger {
	return NewWithZerolog(io.Discard, zerolog.Nop())
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding logger
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsRestored:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	var langColor color.Attribute
	switch op.Language {
	case ".cs":
		langColor = color.FgMagenta
	case ".fs":
		langColor = color.FgCyan
	default:
		langColor = color.FgYellow
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(langColor).Sprint(fmt.Sprintf("%-*s", languageWidth, op.Language)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))

	if len(op.Attributes) > 0 {
		line += color.New(color.Faint).Sprint(strings.Join(op.Attributes, attributeSplit))
	}
	return strings.TrimRight(line, " ")
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("language", op.Language).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_restored", op.IsRestored).
		Strs("attributes", op.Attributes).
		Msg("file operation")
}

// 📝 StartRunOperation starts a new patch run
func (l *Logger) StartRunOperation(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	mode := "updating"
	if op.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", mode, color.New(color.FgCyan).Sprint(op.WorkingDirectory))

	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("Found %d files", op.Files))

	l.zlog.Info().
		Str("working_directory", op.WorkingDirectory).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msgf("Found %d files", op.Files)
}

// 📝 EndRunOperation ends the current patch run
func (l *Logger) EndRunOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	modified := 0
	for _, op := range l.operations {
		if op.IsModified || op.IsNew {
			modified++
		}
	}

	l.zlog.Info().
		Str("working_directory", l.currentOp.WorkingDirectory).
		Int("files", len(l.operations)).
		Int("modified", modified).
		Msg("run complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("verstamp")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📊 Summary prints the totals of a run
func (l *Logger) Summary(updated, created, unchanged int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf("%d updated, %d created, %d unchanged", updated, created, unchanged)
	pterm.Success.WithWriter(l.console).WithPrefix(pterm.Prefix{Text: "📦", Style: pterm.Success.Prefix.Style}).Println(msg)
	l.zlog.Info().Int("updated", updated).Int("created", created).Int("unchanged", unchanged).Msg("summary")
}

// ⏪ RolledBack reports that a failed run restored every touched file
func (l *Logger) RolledBack(files int, cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf("restored %d files after failure", files)
	pterm.Warning.WithWriter(l.console).WithPrefix(pterm.Prefix{Text: "⏪", Style: pterm.Warning.Prefix.Style}).Println(msg)
	l.zlog.Warn().Err(cause).Int("files", files).Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message together with its cause
func (l *Logger) Error(msg string, cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Err(cause).Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}
