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

/*
Package config loads the .verstamp run configuration.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🔄 Flow:
1. Find looks for .verstamp.{yaml,yml,json,hcl} in a directory
2. LoadConfig picks a parser from the extension and decodes strictly
3. Validate resolves paths against the config file and normalizes newlines
4. ResolveVariables merges a GitVersion JSON document with inline values

🔍 Example:

	path, _ := config.Find(ctx, fs, ".")
	cfg, err := config.LoadConfig(ctx, fs, path)
	vars, err := cfg.ResolveVariables(ctx, fs)
*/
package config
