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

package status

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// 📊 FileStatus represents what a run did to a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusCreated              // File was created from a template
	StatusUpdated              // File content was rewritten
	StatusUnchanged            // File already carried the right attributes
	StatusRestored             // File was restored after a failure
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusUpdated:
		return "updated"
	case StatusUnchanged:
		return "unchanged"
	case StatusRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains what happened to one file
type FileInfo struct {
	Path       string     // Path to the file
	Language   string     // Profile extension
	Status     FileStatus // Outcome
	Replaced   []string   // Attributes rewritten in place
	Inserted   []string   // Attributes inserted after the last attribute
	Appended   []string   // Attributes appended at the end of the file
	Checksum   string     // Content hash after the run
	BytesAfter int        // Size of the written content
}

// Attributes returns every attribute written, in directive order per kind
func (f FileInfo) Attributes() []string {
	out := make([]string, 0, len(f.Replaced)+len(f.Inserted)+len(f.Appended))
	out = append(out, f.Replaced...)
	out = append(out, f.Inserted...)
	out = append(out, f.Appended...)
	return out
}

// 📋 Report tracks the files of one run in processing order
type Report struct {
	RunID string // correlates the report with the run's log entries

	mu    sync.RWMutex
	files []FileInfo
	index map[string]int
}

// 🏭 NewReport creates an empty report
func NewReport() *Report {
	return &Report{index: map[string]int{}}
}

// Track records info, replacing an earlier entry for the same path
func (r *Report) Track(info FileInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[info.Path]; ok {
		r.files[i] = info
		return
	}
	r.index[info.Path] = len(r.files)
	r.files = append(r.files, info)
}

// Get returns the entry for path
func (r *Report) Get(path string) (FileInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[path]
	if !ok {
		return FileInfo{}, false
	}
	return r.files[i], true
}

// Files returns every entry in processing order
func (r *Report) Files() []FileInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]FileInfo(nil), r.files...)
}

// Count returns how many files ended with status s
func (r *Report) Count(s FileStatus) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, f := range r.files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// MarkRestored flips every created or updated entry to restored and
// returns how many changed
func (r *Report) MarkRestored() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i, f := range r.files {
		if f.Status == StatusCreated || f.Status == StatusUpdated {
			r.files[i].Status = StatusRestored
			n++
		}
	}
	return n
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
