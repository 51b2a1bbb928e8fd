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
Package operation runs a version stamping pass over a working tree.

	+-------------+
	|   Locate    |
	|  (targets)  |
	+------+------+
	       |
	+------+------+
	|    Patch    |
	| (attributes)|
	+------+------+
	       |
	+------+------+
	| Transaction |
	| (all or none)|
	+-------------+

🔄 Flow:
1. Resolve target files (explicit names or the AssemblyInfo.* scan)
2. Render the version directives once
3. For each file: read, patch, back up and write when the content changed
4. Commit to drop the backups, or roll back every file on failure

⚡ Guarantees:
- A failed run leaves every file byte identical to how it started
- Files created from a template during a failed run are removed again
- A file whose content would not change is never written
- A dry run stages every write in memory and leaves the disk alone

🔍 Example:

	u, err := operation.NewUpdater(fsys.NewOS(), profile.DefaultTable(), operation.Options{
		WorkingDirectory: ".",
		Variables:        vars,
	})
	report, err := u.Update(ctx)
*/
package operation
