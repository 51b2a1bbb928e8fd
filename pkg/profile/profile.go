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
	"embed"
	"path"
	"regexp"
	"sort"
	"strings"
)

//go:embed templates/*
var templates embed.FS

// 🗂️ Profile describes how assembly attributes look in one source language
type Profile struct {
	Extension string // lower case, with the leading dot

	// AttributeBlock matches a single existing assembly attribute statement,
	// including surrounding whitespace and its line terminator
	AttributeBlock *regexp.Regexp

	// AddFormat wraps a rendered attribute into a full statement (one %s slot)
	AddFormat string

	// Template is the content used to create a missing file, empty when the
	// language has no template
	Template string
}

// Format wraps a rendered attribute such as `AssemblyVersion("1.0.0.0")` into
// a statement for this language
func (p Profile) Format(rendered string) string {
	return strings.Replace(p.AddFormat, "%s", rendered, 1)
}

// HasTemplate reports whether a missing file can be created for this language
func (p Profile) HasTemplate() bool {
	return strings.TrimSpace(p.Template) != ""
}

// 📚 Table is an immutable lookup of profiles by file extension
type Table struct {
	profiles map[string]Profile
}

// 🏭 NewTable builds a table from the given profiles, later entries win
func NewTable(profiles ...Profile) *Table {
	t := &Table{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		p.Extension = normalize(p.Extension)
		t.profiles[p.Extension] = p
	}
	return t
}

// 🏭 DefaultTable returns the C#, F# and Visual Basic profiles
func DefaultTable() *Table {
	return NewTable(
		Profile{
			Extension:      ".cs",
			AttributeBlock: regexp.MustCompile(`(?m)(\s*\[\s*assembly:\s*(?:.*)\s*\]\s*$(\r?\n)?)`),
			AddFormat:      "[assembly: %s]",
			Template:       mustTemplate("VersionAssemblyInfo.cs"),
		},
		Profile{
			Extension:      ".fs",
			AttributeBlock: regexp.MustCompile(`(?m)(\s*\[\s*\<assembly:\s*(?:.*)\>\s*\]\s*$(\r?\n)?)`),
			AddFormat:      "[<assembly: %s>]",
			Template:       mustTemplate("VersionAssemblyInfo.fs"),
		},
		Profile{
			Extension:      ".vb",
			AttributeBlock: regexp.MustCompile(`(?m)(\s*\<Assembly:\s*(?:.*)\>\s*$(\r?\n)?)`),
			AddFormat:      "<Assembly: %s>",
			Template:       mustTemplate("VersionAssemblyInfo.vb"),
		},
	)
}

// 🔍 Lookup returns the profile registered for ext (".cs", "CS" and "cs" are equivalent)
func (t *Table) Lookup(ext string) (Profile, bool) {
	p, ok := t.profiles[normalize(ext)]
	return p, ok
}

// IsSupported reports whether ext has a profile
func (t *Table) IsSupported(ext string) bool {
	_, ok := t.Lookup(ext)
	return ok
}

// ForPath looks up the profile for the extension of file
func (t *Table) ForPath(file string) (Profile, bool) {
	return t.Lookup(path.Ext(strings.ReplaceAll(file, "\\", "/")))
}

// Extensions returns the registered extensions in sorted order
func (t *Table) Extensions() []string {
	exts := make([]string, 0, len(t.profiles))
	for ext := range t.profiles {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func mustTemplate(name string) string {
	data, err := templates.ReadFile("templates/" + name)
	if err != nil {
		panic("missing embedded template " + name)
	}
	return string(data)
}
