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

// Package version holds the version values written into assembly attributes.
// The values are computed elsewhere and treated as opaque strings.
package version

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Well known variable names, matching the keys of a GitVersion JSON document
const (
	AssemblySemVer       = "AssemblySemVer"
	AssemblySemFileVer   = "AssemblySemFileVer"
	InformationalVersion = "InformationalVersion"
)

// 🏷️ Variables is the set of version strings for one run
type Variables struct {
	AssemblySemVer       string `json:"AssemblySemVer" yaml:"assembly_sem_ver"`
	AssemblySemFileVer   string `json:"AssemblySemFileVer" yaml:"assembly_sem_file_ver"`
	InformationalVersion string `json:"InformationalVersion" yaml:"informational_version"`

	// Extra keeps every other value of the source document
	Extra map[string]string `json:"-" yaml:"-"`
}

// FromJSON reads a flat JSON object such as the output of `gitversion /output json`.
// Non-string values are kept in Extra using their JSON text.
func FromJSON(r io.Reader) (Variables, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Variables{}, errors.Errorf("decoding version variables: %w", err)
	}

	v := Variables{Extra: map[string]string{}}
	for key, msg := range raw {
		var value string
		if err := json.Unmarshal(msg, &value); err != nil {
			// numbers, booleans and nulls
			value = strings.TrimSpace(string(msg))
			if value == "null" {
				value = ""
			}
		}
		v.Set(key, value)
	}
	return v, nil
}

// Get returns the named value, empty when unknown
func (v Variables) Get(name string) string {
	switch name {
	case AssemblySemVer:
		return v.AssemblySemVer
	case AssemblySemFileVer:
		return v.AssemblySemFileVer
	case InformationalVersion:
		return v.InformationalVersion
	}
	return v.Extra[name]
}

// Set stores the named value
func (v *Variables) Set(name, value string) {
	switch name {
	case AssemblySemVer:
		v.AssemblySemVer = value
	case AssemblySemFileVer:
		v.AssemblySemFileVer = value
	case InformationalVersion:
		v.InformationalVersion = value
	default:
		if v.Extra == nil {
			v.Extra = map[string]string{}
		}
		v.Extra[name] = value
	}
}

// Merge returns v with every non-empty field of override applied on top
func (v Variables) Merge(override Variables) Variables {
	out := Variables{
		AssemblySemVer:       v.AssemblySemVer,
		AssemblySemFileVer:   v.AssemblySemFileVer,
		InformationalVersion: v.InformationalVersion,
	}
	for k, val := range v.Extra {
		out.Set(k, val)
	}
	for _, name := range override.Names() {
		if val := override.Get(name); val != "" {
			out.Set(name, val)
		}
	}
	return out
}

// Names lists every non-empty variable name in sorted order
func (v Variables) Names() []string {
	var names []string
	for _, name := range []string{AssemblySemVer, AssemblySemFileVer, InformationalVersion} {
		if v.Get(name) != "" {
			names = append(names, name)
		}
	}
	for name, val := range v.Extra {
		if val != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
