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

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_Lookup(t *testing.T) {
	tests := []struct {
		name      string
		ext       string
		wantOK    bool
		wantExt   string
		wantStart string
	}{
		{name: "csharp", ext: ".cs", wantOK: true, wantExt: ".cs", wantStart: "[assembly: "},
		{name: "fsharp", ext: ".fs", wantOK: true, wantExt: ".fs", wantStart: "[<assembly: "},
		{name: "visual_basic", ext: ".vb", wantOK: true, wantExt: ".vb", wantStart: "<Assembly: "},
		{name: "upper_case", ext: ".CS", wantOK: true, wantExt: ".cs", wantStart: "[assembly: "},
		{name: "no_dot", ext: "vb", wantOK: true, wantExt: ".vb", wantStart: "<Assembly: "},
		{name: "unknown", ext: ".txt", wantOK: false},
		{name: "empty", ext: "", wantOK: false},
	}

	table := DefaultTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := table.Lookup(tt.ext)
			require.Equal(t, tt.wantOK, ok, "lookup result should match")
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantExt, p.Extension, "extension should be normalized")
			assert.Contains(t, p.Format(`AssemblyVersion("1.0")`), tt.wantStart, "format should use the language syntax")
			assert.True(t, p.HasTemplate(), "default profiles ship a template")
		})
	}
}

func TestProfile_Format(t *testing.T) {
	table := DefaultTable()

	cs, _ := table.Lookup(".cs")
	fs, _ := table.Lookup(".fs")
	vb, _ := table.Lookup(".vb")

	assert.Equal(t, `[assembly: AssemblyVersion("1.2.3")]`, cs.Format(`AssemblyVersion("1.2.3")`))
	assert.Equal(t, `[<assembly: AssemblyVersion("1.2.3")>]`, fs.Format(`AssemblyVersion("1.2.3")`))
	assert.Equal(t, `<Assembly: AssemblyVersion("1.2.3")>`, vb.Format(`AssemblyVersion("1.2.3")`))

	// percent signs in values are not format verbs
	assert.Equal(t, `[assembly: AssemblyInformationalVersion("100%")]`, cs.Format(`AssemblyInformationalVersion("100%")`))
}

func TestProfile_AttributeBlock(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		content string
		want    int
	}{
		{
			name:    "csharp_attributes",
			ext:     ".cs",
			content: "using System.Reflection;\n[assembly: AssemblyTitle(\"a\")]\n[assembly: AssemblyCompany(\"b\")]\n",
			want:    2,
		},
		{
			name:    "fsharp_attributes",
			ext:     ".fs",
			content: "open System.Reflection\n[<assembly: AssemblyTitle(\"a\")>]\ndo ()\n",
			want:    1,
		},
		{
			name:    "vb_attributes",
			ext:     ".vb",
			content: "Imports System.Reflection\n<Assembly: AssemblyTitle(\"a\")>\n<Assembly: AssemblyCompany(\"b\")>\n<Assembly: ComVisible(False)>\n",
			want:    3,
		},
		{
			name:    "csharp_syntax_in_vb_file",
			ext:     ".vb",
			content: "[assembly: AssemblyTitle(\"a\")]\n",
			want:    0,
		},
		{
			name:    "no_attributes",
			ext:     ".cs",
			content: "namespace Foo {}\n",
			want:    0,
		},
	}

	table := DefaultTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := table.Lookup(tt.ext)
			require.True(t, ok)
			assert.Len(t, p.AttributeBlock.FindAllStringIndex(tt.content, -1), tt.want, "attribute count should match")
		})
	}
}

func TestTable_Extensions(t *testing.T) {
	assert.Equal(t, []string{".cs", ".fs", ".vb"}, DefaultTable().Extensions())

	custom := NewTable(Profile{Extension: "CS", AddFormat: "x %s"}, Profile{Extension: ".cs", AddFormat: "y %s"})
	p, ok := custom.Lookup(".cs")
	require.True(t, ok)
	assert.Equal(t, "y %s", p.AddFormat, "later profiles should win")
	assert.False(t, p.HasTemplate())
}

func TestTable_ForPath(t *testing.T) {
	table := DefaultTable()

	p, ok := table.ForPath("src/Properties/AssemblyInfo.cs")
	require.True(t, ok)
	assert.Equal(t, ".cs", p.Extension)

	p, ok = table.ForPath(`src\My Project\AssemblyInfo.VB`)
	require.True(t, ok)
	assert.Equal(t, ".vb", p.Extension)

	_, ok = table.ForPath("AssemblyInfo.txt")
	assert.False(t, ok)
}
