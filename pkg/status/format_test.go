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
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the default file formatter implementation
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name        string
		info        FileInfo
		want        string
		description string
	}{
		{
			name:        "created_file",
			info:        FileInfo{Path: "AssemblyInfo.cs", Status: StatusCreated, Replaced: []string{"AssemblyVersion"}},
			want:        "✨ Created AssemblyInfo.cs (AssemblyVersion)",
			description: "should show creation symbol for created files",
		},
		{
			name: "updated_file",
			info: FileInfo{
				Path:     "src/AssemblyInfo.vb",
				Status:   StatusUpdated,
				Replaced: []string{"AssemblyVersion"},
				Inserted: []string{"AssemblyFileVersion"},
				Appended: []string{"AssemblyInformationalVersion"},
			},
			want:        "📝 Updated src/AssemblyInfo.vb (AssemblyVersion, AssemblyFileVersion, AssemblyInformationalVersion)",
			description: "should list attributes for updated files",
		},
		{
			name:        "restored_file",
			info:        FileInfo{Path: "AssemblyInfo.fs", Status: StatusRestored},
			want:        "⏪ Restored AssemblyInfo.fs",
			description: "should show restore symbol",
		},
		{
			name:        "unchanged_file",
			info:        FileInfo{Path: "AssemblyInfo.fs", Status: StatusUnchanged, Replaced: []string{"AssemblyVersion"}},
			want:        "👍 Unchanged AssemblyInfo.fs",
			description: "should not list attributes for unchanged files",
		},
		{
			name:        "empty_path",
			info:        FileInfo{Status: StatusCreated},
			want:        "✨ Created ",
			description: "should handle empty path gracefully",
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatFile(tt.info), tt.description)
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{name: "zero_progress", current: 0, total: 10, expected: "⏳ Progress: 0/10 (0%)"},
		{name: "half_progress", current: 5, total: 10, expected: "⏳ Progress: 5/10 (50%)"},
		{name: "complete", current: 10, total: 10, expected: "✅ Progress: 10/10 (100%)"},
		{name: "zero_total", current: 0, total: 0, expected: "✅ Progress: 0/0 (0%)"},
		{name: "zero_total_with_current", current: 5, total: 0, expected: "✅ Progress: 5/0 (100%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewDefaultFileFormatter().FormatProgress(tt.current, tt.total))
		})
	}
}

// 🧪 TestErrorFormatting tests error message formatting
func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFileFormatter()
	assert.Equal(t, "❌ Error: assert.AnError general error for testing", formatter.FormatError(assert.AnError))
	assert.Equal(t, "", formatter.FormatError(nil))
}
