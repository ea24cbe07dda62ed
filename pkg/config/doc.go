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
Package config loads the run configuration of a sweep.

	+-------------+  Parser   +--------+  NewCatalog  +---------+
	| cfgsweep.*  | --------> | Config | -----------> | Catalog |
	+-------------+           +--------+              +---------+

🎯 Purpose:
- Parses YAML, JSON, HCL and TOML files through a registry keyed by extension
- Applies defaults and validates change rules and repositories
- Resolves repository selections with doublestar globs
- Reads credentials from GITHUB_USER and GITHUB_TOKEN

⚠️ Every failure is a ConfigError and stops the run before any repository is touched.
*/
package config
