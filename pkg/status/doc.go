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
Package status aggregates the per-repository results of a sweep.

	+------------+  Record   +--------+  Results   +-----------+
	| operation  | --------> | Report | ---------> | dashboard |
	+------------+           +--------+            +-----------+

🎯 Purpose:
- Collects one Result per repository as pipelines complete
- Keeps completion order, never submission order
- Renders outcomes for logs and the console

🔒 Concurrency:
Report is safe for concurrent Record calls. A repeated repository name keeps
its first position and the latest result.

🏷️ Outcomes:
- "[View PR](url)"           pull request opened
- "No matching changes"      nothing to publish
- "PR creation failed"       host refused the pull request
- "Would open PR (dry run)"  publishing skipped
- "Error: ..."               pipeline ended in ERROR
*/
package status
