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

package txn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/verstamp/pkg/fsys"
	"github.com/walteh/verstamp/pkg/fsys/fsystest"
)

// 🔧 MockFileSystem is a mock implementation of fsys.FileSystem
type MockFileSystem struct {
	mock.Mock
}

func (m *MockFileSystem) ReadText(ctx context.Context, path string) (string, error) {
	result := m.Called(ctx, path)
	return result.String(0), result.Error(1)
}

func (m *MockFileSystem) WriteText(ctx context.Context, path string, content string) error {
	return m.Called(ctx, path, content).Error(0)
}

func (m *MockFileSystem) Copy(ctx context.Context, src, dst string, overwrite bool) error {
	return m.Called(ctx, src, dst, overwrite).Error(0)
}

func (m *MockFileSystem) Move(ctx context.Context, src, dst string) error {
	return m.Called(ctx, src, dst).Error(0)
}

func (m *MockFileSystem) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	result := m.Called(ctx, path)
	return result.Bool(0), result.Error(1)
}

func (m *MockFileSystem) DirExists(ctx context.Context, path string) (bool, error) {
	result := m.Called(ctx, path)
	return result.Bool(0), result.Error(1)
}

func (m *MockFileSystem) CreateDir(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockFileSystem) List(ctx context.Context, dir, pattern string) ([]string, error) {
	result := m.Called(ctx, dir, pattern)
	return result.Get(0).([]string), result.Error(1)
}

func writeFiles(t *testing.T, fs fsys.FileSystem, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.WriteText(context.Background(), path, content))
	}
}

func assertFiles(t *testing.T, fs fsys.FileSystem, files map[string]string) {
	t.Helper()
	for path, want := range files {
		got, err := fs.ReadText(context.Background(), path)
		require.NoError(t, err, "reading %s", path)
		assert.Equal(t, want, got, "content of %s", path)
	}
}

func assertNoBackups(t *testing.T, fs fsys.FileSystem, dir string) {
	t.Helper()
	backups, err := fs.List(context.Background(), dir, "*"+BackupSuffix)
	require.NoError(t, err)
	assert.Empty(t, backups, "no backup files should remain")
}

func TestNew_NoIO(t *testing.T) {
	fs := &MockFileSystem{}

	tx := New(fs)
	assert.Equal(t, StateOpen, tx.State())
	assert.Empty(t, tx.Records())
	require.NoError(t, tx.Close(context.Background()), "closing an empty transaction should be a no-op")

	fs.AssertExpectations(t)
	fs.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransaction_Begin(t *testing.T) {
	ctx := context.Background()
	fs := fsys.NewMemory()
	writeFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs": "original"})

	tx := New(fs)
	require.NoError(t, tx.Begin(ctx, "/w/AssemblyInfo.cs"))

	assertFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs.bak": "original"})

	// a second mutation of the same file must not refresh the snapshot
	require.NoError(t, fs.WriteText(ctx, "/w/AssemblyInfo.cs", "first write"))
	require.NoError(t, tx.Begin(ctx, "/w/AssemblyInfo.cs"))
	assertFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs.bak": "original"})

	assert.Equal(t, []Record{{Path: "/w/AssemblyInfo.cs", BackupPath: "/w/AssemblyInfo.cs.bak"}}, tx.Records())
	assert.True(t, tx.Tracked("/w/AssemblyInfo.cs"))
	assert.False(t, tx.Tracked("/w/Other.cs"))
}

func TestTransaction_BeginOverwritesStaleBackup(t *testing.T) {
	ctx := context.Background()
	fs := fsys.NewMemory()
	writeFiles(t, fs, map[string]string{
		"/w/AssemblyInfo.cs":     "current",
		"/w/AssemblyInfo.cs.bak": "stale from a crashed run",
	})

	tx := New(fs)
	require.NoError(t, tx.Begin(ctx, "/w/AssemblyInfo.cs"))
	assertFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs.bak": "current"})
}

func TestTransaction_Rollback(t *testing.T) {
	ctx := context.Background()
	fs := fsys.NewMemory()
	original := map[string]string{
		"/w/a/AssemblyInfo.cs": "a",
		"/w/b/AssemblyInfo.vb": "b",
		"/w/c/AssemblyInfo.fs": "c",
	}
	writeFiles(t, fs, original)

	tx := New(fs)
	for _, p := range []string{"/w/a/AssemblyInfo.cs", "/w/b/AssemblyInfo.vb"} {
		require.NoError(t, tx.Begin(ctx, p))
		require.NoError(t, fs.WriteText(ctx, p, "mutated"))
	}

	require.NoError(t, tx.Rollback(ctx))

	assertFiles(t, fs, original)
	assertNoBackups(t, fs, "/w")
	assert.Equal(t, StateRolledBack, tx.State())

	// further terminal calls are no-ops
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))
	assertFiles(t, fs, original)

	err := tx.Begin(ctx, "/w/c/AssemblyInfo.fs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction is rolled back")
}

func TestTransaction_RollbackDeletedFile(t *testing.T) {
	ctx := context.Background()
	fs := fsys.NewMemory()
	writeFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs": "original"})

	tx := New(fs)
	require.NoError(t, tx.Begin(ctx, "/w/AssemblyInfo.cs"))
	require.NoError(t, fs.Delete(ctx, "/w/AssemblyInfo.cs"))

	require.NoError(t, tx.Rollback(ctx))
	assertFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs": "original"})
	assertNoBackups(t, fs, "/w")
}

func TestTransaction_Commit(t *testing.T) {
	ctx := context.Background()
	fs := fsys.NewMemory()
	writeFiles(t, fs, map[string]string{
		"/w/a/AssemblyInfo.cs": "a",
		"/w/b/AssemblyInfo.cs": "b",
	})

	tx := New(fs)
	for _, p := range []string{"/w/a/AssemblyInfo.cs", "/w/b/AssemblyInfo.cs"} {
		require.NoError(t, tx.Begin(ctx, p))
		require.NoError(t, fs.WriteText(ctx, p, p+" updated"))
	}

	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, StateCommitted, tx.State())

	// the deferred close must not undo a commit
	require.NoError(t, tx.Close(ctx))

	assertFiles(t, fs, map[string]string{
		"/w/a/AssemblyInfo.cs": "/w/a/AssemblyInfo.cs updated",
		"/w/b/AssemblyInfo.cs": "/w/b/AssemblyInfo.cs updated",
	})
	assertNoBackups(t, fs, "/w")
}

func TestTransaction_Created(t *testing.T) {
	ctx := context.Background()

	t.Run("rollback_deletes", func(t *testing.T) {
		fs := fsys.NewMemory()
		writeFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs": "from template"})

		tx := New(fs)
		require.NoError(t, tx.Created(ctx, "/w/AssemblyInfo.cs"))
		require.NoError(t, tx.Begin(ctx, "/w/AssemblyInfo.cs"), "begin after created should be a no-op")
		require.NoError(t, fs.WriteText(ctx, "/w/AssemblyInfo.cs", "patched"))

		assert.Equal(t, []Record{{Path: "/w/AssemblyInfo.cs", Created: true}}, tx.Records())

		require.NoError(t, tx.Rollback(ctx))

		exists, err := fs.Exists(ctx, "/w/AssemblyInfo.cs")
		require.NoError(t, err)
		assert.False(t, exists, "created file should be removed")
		assertNoBackups(t, fs, "/w")
	})

	t.Run("commit_keeps", func(t *testing.T) {
		fs := fsys.NewMemory()
		writeFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs": "from template"})

		tx := New(fs)
		require.NoError(t, tx.Created(ctx, "/w/AssemblyInfo.cs"))
		require.NoError(t, tx.Commit(ctx))

		assertFiles(t, fs, map[string]string{"/w/AssemblyInfo.cs": "from template"})
	})
}

func TestTransaction_CreatedDir(t *testing.T) {
	ctx := context.Background()

	t.Run("rollback_removes_deepest_first", func(t *testing.T) {
		mem := fsys.NewMemory()
		require.NoError(t, mem.CreateDir(ctx, "/w"))
		fs := fsystest.NewFaulty(mem)

		tx := New(fs)
		require.NoError(t, tx.CreatedDir(ctx, "/w/New"))
		require.NoError(t, tx.CreatedDir(ctx, "/w/New/Properties"))
		require.NoError(t, fs.CreateDir(ctx, "/w/New/Properties"))
		require.NoError(t, tx.Created(ctx, "/w/New/Properties/AssemblyInfo.cs"))
		require.NoError(t, fs.WriteText(ctx, "/w/New/Properties/AssemblyInfo.cs", "from template"))

		require.NoError(t, tx.Rollback(ctx))

		var deleted []string
		for _, c := range fs.Calls() {
			if c.Op == fsystest.OpDelete {
				deleted = append(deleted, c.Path)
			}
		}
		assert.Equal(t, []string{
			"/w/New/Properties/AssemblyInfo.cs",
			"/w/New/Properties",
			"/w/New",
		}, deleted, "files go first, then directories from the deepest up")

		ok, err := mem.DirExists(ctx, "/w/New")
		require.NoError(t, err)
		assert.False(t, ok, "created directory should be removed")
		ok, err = mem.DirExists(ctx, "/w")
		require.NoError(t, err)
		assert.True(t, ok, "pre-existing directory should stay")
	})

	t.Run("commit_keeps", func(t *testing.T) {
		fs := fsys.NewMemory()
		require.NoError(t, fs.CreateDir(ctx, "/w/New"))

		tx := New(fs)
		require.NoError(t, tx.CreatedDir(ctx, "/w/New"))
		require.NoError(t, tx.Commit(ctx))
		require.NoError(t, tx.Close(ctx))

		ok, err := fs.DirExists(ctx, "/w/New")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []Record{{Path: "/w/New", Created: true, Dir: true}}, tx.Records())
	})
}

func TestTransaction_BeginFailure(t *testing.T) {
	ctx := context.Background()
	mem := fsys.NewMemory()
	writeFiles(t, mem, map[string]string{"/w/AssemblyInfo.cs": "original"})
	fs := fsystest.NewFaulty(mem).FailOn(fsystest.OpCopy, "/w/AssemblyInfo.cs")

	tx := New(fs)
	err := tx.Begin(ctx, "/w/AssemblyInfo.cs")
	require.Error(t, err)
	assert.ErrorIs(t, err, fsystest.ErrInjected)
	assert.False(t, tx.Tracked("/w/AssemblyInfo.cs"), "failed backups must not be tracked")

	require.NoError(t, tx.Rollback(ctx))
	assert.Zero(t, fs.CountOf(fsystest.OpMove, "/w/AssemblyInfo.cs.bak"), "nothing should be restored")
}

func TestTransaction_RollbackContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	mem := fsys.NewMemory()
	writeFiles(t, mem, map[string]string{
		"/w/a/AssemblyInfo.cs": "a",
		"/w/b/AssemblyInfo.cs": "b",
	})
	fs := fsystest.NewFaulty(mem).FailOn(fsystest.OpMove, "/w/a/AssemblyInfo.cs.bak")

	tx := New(fs)
	for _, p := range []string{"/w/a/AssemblyInfo.cs", "/w/b/AssemblyInfo.cs"} {
		require.NoError(t, tx.Begin(ctx, p))
		require.NoError(t, fs.WriteText(ctx, p, "mutated"))
	}

	err := tx.Rollback(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, fsystest.ErrInjected)
	assert.Contains(t, err.Error(), "restoring /w/a/AssemblyInfo.cs")

	assertFiles(t, mem, map[string]string{"/w/b/AssemblyInfo.cs": "b"})
	assert.Equal(t, StateRolledBack, tx.State())
}

func TestTransaction_RollbackOrder(t *testing.T) {
	ctx := context.Background()
	mem := fsys.NewMemory()
	paths := []string{"/w/c.cs", "/w/a.cs", "/w/b.cs"}
	for _, p := range paths {
		writeFiles(t, mem, map[string]string{p: p})
	}
	fs := fsystest.NewFaulty(mem)

	tx := New(fs)
	for _, p := range paths {
		require.NoError(t, tx.Begin(ctx, p))
	}
	require.NoError(t, tx.Rollback(ctx))

	var moved []string
	for _, c := range fs.Calls() {
		if c.Op == fsystest.OpMove {
			moved = append(moved, c.Path)
		}
	}
	assert.Equal(t, []string{"/w/c.cs.bak", "/w/a.cs.bak", "/w/b.cs.bak"}, moved, "restores should follow registration order")
}
