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

// Package fsystest provides file system doubles for tests.
package fsystest

import (
	"context"
	"sync"

	"github.com/walteh/verstamp/pkg/fsys"
	"gitlab.com/tozd/go/errors"
)

// ErrInjected is returned by Faulty for every operation configured to fail
var ErrInjected = errors.Base("injected failure")

// Op names a FileSystem operation
type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpCopy   Op = "copy"
	OpMove   Op = "move"
	OpDelete Op = "delete"
	OpMkdir  Op = "mkdir"
	OpList   Op = "list"
)

type fault struct {
	op   Op
	path string
}

// 💥 Faulty wraps a FileSystem and fails selected operations on selected paths
type Faulty struct {
	fsys.FileSystem

	mu     sync.Mutex
	faults map[fault]bool
	calls  []Call
}

// Call records one operation that went through Faulty
type Call struct {
	Op   Op
	Path string
}

// 🏭 NewFaulty wraps inner
func NewFaulty(inner fsys.FileSystem) *Faulty {
	return &Faulty{FileSystem: inner, faults: map[fault]bool{}}
}

// FailOn makes op fail for path (the source path for copy and move)
func (f *Faulty) FailOn(op Op, path string) *Faulty {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[fault{op: op, path: path}] = true
	return f
}

// Calls returns the recorded operations in order
func (f *Faulty) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CountOf returns how many times op ran against path
func (f *Faulty) CountOf(op Op, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op && c.Path == path {
			n++
		}
	}
	return n
}

func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, Path: path})
	if f.faults[fault{op: op, path: path}] {
		return errors.Errorf("%w: %s %s", ErrInjected, op, path)
	}
	return nil
}

func (f *Faulty) ReadText(ctx context.Context, path string) (string, error) {
	if err := f.check(OpRead, path); err != nil {
		return "", err
	}
	return f.FileSystem.ReadText(ctx, path)
}

func (f *Faulty) WriteText(ctx context.Context, path string, content string) error {
	if err := f.check(OpWrite, path); err != nil {
		return err
	}
	return f.FileSystem.WriteText(ctx, path, content)
}

func (f *Faulty) Copy(ctx context.Context, src, dst string, overwrite bool) error {
	if err := f.check(OpCopy, src); err != nil {
		return err
	}
	return f.FileSystem.Copy(ctx, src, dst, overwrite)
}

func (f *Faulty) Move(ctx context.Context, src, dst string) error {
	if err := f.check(OpMove, src); err != nil {
		return err
	}
	return f.FileSystem.Move(ctx, src, dst)
}

func (f *Faulty) Delete(ctx context.Context, path string) error {
	if err := f.check(OpDelete, path); err != nil {
		return err
	}
	return f.FileSystem.Delete(ctx, path)
}

func (f *Faulty) CreateDir(ctx context.Context, path string) error {
	if err := f.check(OpMkdir, path); err != nil {
		return err
	}
	return f.FileSystem.CreateDir(ctx, path)
}

func (f *Faulty) List(ctx context.Context, dir, pattern string) ([]string, error) {
	if err := f.check(OpList, dir); err != nil {
		return nil, err
	}
	return f.FileSystem.List(ctx, dir, pattern)
}
