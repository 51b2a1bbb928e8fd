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
Package status records what a patch run did to every file.

	+-------------+        +-------------+
	|  operation  | -----> |   Report    |
	|  (patching) |        | (per file)  |
	+-------------+        +------+------+
	                              |
	                       +------+------+
	                       |  Formatter  |
	                       |   (UI/UX)   |
	                       +-------------+

🎯 Purpose:
- Track the outcome of each file (created, updated, unchanged, restored)
- Keep the attributes written per file and where they went
- Format outcomes and progress for the console

🔄 Flow:
1. The update operation tracks every file after patching it
2. A failed run flips created and updated files to restored
3. The CLI prints the report through a FileFormatter

🔍 Example:

	report := status.NewReport()
	report.Track(status.FileInfo{Path: path, Status: status.StatusUpdated})

	f := status.NewDefaultFileFormatter()
	for _, info := range report.Files() {
		fmt.Println(f.FormatFile(info))
	}
*/
package status
