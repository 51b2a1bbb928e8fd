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

// Package patch rewrites assembly version attributes inside source text.
//
// For every directive the first applicable strategy wins:
//
//  1. replace an existing attribute matched by the directive pattern
//  2. insert after the last assembly attribute of the file
//  3. append to the end of the file
//
// Patching is pure text transformation, no I/O happens here.
package patch

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/walteh/verstamp/pkg/profile"
	"github.com/walteh/verstamp/pkg/version"
)

// PlatformNewline is the line terminator used when none is configured
func PlatformNewline() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Attribute names
const (
	AssemblyVersion              = "AssemblyVersion"
	AssemblyFileVersion          = "AssemblyFileVersion"
	AssemblyInformationalVersion = "AssemblyInformationalVersion"
)

// 🎯 Directive is one attribute to write
type Directive struct {
	Name     string         // attribute name, e.g. AssemblyVersion
	Pattern  *regexp.Regexp // matches an existing attribute of this kind
	Rendered string         // e.g. AssemblyVersion("1.2.0.0")
}

// 📄 Result is the outcome of applying a single directive
type Result struct {
	Content  string
	Appended bool // the attribute went to the end of the file
	Replaced bool // an existing attribute was rewritten
}

// NewDirective renders name("value") with a pattern matching name(...) and nameAttribute(...)
func NewDirective(name, value string) Directive {
	return Directive{
		Name:     name,
		Pattern:  regexp.MustCompile(regexp.QuoteMeta(name) + `(Attribute)?\s*\(.*\)\s*`),
		Rendered: name + `("` + value + `")`,
	}
}

// Directives returns the attributes to write, in order. Assembly and file
// versions are skipped when blank, the informational version is always written.
func Directives(v version.Variables) []Directive {
	var ds []Directive
	if strings.TrimSpace(v.AssemblySemVer) != "" {
		ds = append(ds, NewDirective(AssemblyVersion, v.AssemblySemVer))
	}
	if strings.TrimSpace(v.AssemblySemFileVer) != "" {
		ds = append(ds, NewDirective(AssemblyFileVersion, v.AssemblySemFileVer))
	}
	ds = append(ds, NewDirective(AssemblyInformationalVersion, v.InformationalVersion))
	return ds
}

// 🔄 Apply writes one directive into content
func Apply(content string, d Directive, p profile.Profile, newline string) Result {
	if newline == "" {
		newline = PlatformNewline()
	}

	// replacement always takes priority over insertion
	if d.Pattern != nil && d.Pattern.MatchString(content) {
		return Result{
			Content:  d.Pattern.ReplaceAllLiteralString(content, d.Rendered),
			Replaced: true,
		}
	}

	if p.AttributeBlock != nil {
		if matches := p.AttributeBlock.FindAllStringIndex(content, -1); len(matches) > 0 {
			last := matches[len(matches)-1]
			block := content[last[0]:last[1]]

			var b strings.Builder
			b.WriteString(content[:last[0]])
			b.WriteString(block)
			if !strings.HasSuffix(block, newline) {
				b.WriteString(newline)
			}
			b.WriteString(p.Format(d.Rendered))
			b.WriteString(newline)
			b.WriteString(content[last[1]:])

			return Result{Content: b.String()}
		}
	}

	return Result{
		Content:  content + newline + p.Format(d.Rendered),
		Appended: true,
	}
}

// 📦 Summary is the outcome of applying every directive to one file
type Summary struct {
	Content  string
	Appended bool     // at least one directive appended
	Replaced []string // attributes rewritten in place
	Inserted []string // attributes inserted after the last attribute
	Added    []string // attributes appended to the end
}

// Changed reports whether the content differs from original
func (s Summary) Changed(original string) bool {
	return s.Content != original
}

// ApplyAll applies the directives in order. When any directive appended, a
// single trailing newline closes the file.
func ApplyAll(content string, ds []Directive, p profile.Profile, newline string) Summary {
	if newline == "" {
		newline = PlatformNewline()
	}

	s := Summary{Content: content}
	for _, d := range ds {
		r := Apply(s.Content, d, p, newline)
		s.Content = r.Content
		switch {
		case r.Replaced:
			s.Replaced = append(s.Replaced, d.Name)
		case r.Appended:
			s.Added = append(s.Added, d.Name)
			s.Appended = true
		default:
			s.Inserted = append(s.Inserted, d.Name)
		}
	}

	if s.Appended {
		s.Content += newline
	}
	return s
}
