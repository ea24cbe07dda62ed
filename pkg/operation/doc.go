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
Package operation runs a sweep: one pipeline per repository on a bounded
worker pool.

	PENDING → CLONING → BRANCHING → APPLYING ─┬→ NO_CHANGE ──┬→ DONE
	                                          └→ PUBLISHING ─┘
	any non-terminal state ──────────────────────────────────→ ERROR

⚡ Guarantees:
- Every pipeline releases its workspace exactly once, on every path
- A failing repository never affects another one
- Results are recorded as pipelines finish, not in submission order
- Panics inside a pipeline become ERROR results

🤝 Interfaces:
- Workspaces: clone, branch and cleanup (workspace.Manager)
- Applier: rule application (change.Applicator)
- publish.Publisher: commit, push and pull request
- status.Reporter: result aggregation
*/
package operation
