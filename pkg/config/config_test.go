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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfgsweep/pkg/change"
	"github.com/walteh/cfgsweep/pkg/errs"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger().WithContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing %s", name)
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		extra       map[string]string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: "cfgsweep.yaml",
			config: `
repositories:
  - https://github.com/plugins/cdd-plugin-a.git
  - https://github.com/plugins/cdd-plugin-b.git
changes:
  - target_file: gradle.properties
    search_pattern: '^version=.*$'
    replace_with: version=1.1.0
reviewer: octocat
concurrency: 3
step_timeout: 2m
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Len(t, cfg.Repositories, 2, "should have 2 repositories")
				assert.Equal(t, []change.Rule{{TargetFile: "gradle.properties", SearchPattern: "^version=.*$", ReplaceWith: "version=1.1.0"}}, cfg.Changes, "changes should match")
				assert.Equal(t, "octocat", cfg.Reviewer, "reviewer should match")
				assert.Equal(t, 3, cfg.Concurrency, "concurrency should match")
				assert.Equal(t, DefaultBranch, cfg.Branch, "branch should default")
				assert.Equal(t, DefaultBaseBranch, cfg.BaseBranch, "base branch should default")
				assert.Equal(t, DefaultCommitMessage, cfg.CommitMessage, "commit message should default")
				assert.Equal(t, DefaultPRTitle, cfg.PRTitle, "title should default")

				d, err := cfg.Timeout()
				require.NoError(t, err, "timeout should parse")
				assert.Equal(t, 2*time.Minute, d, "timeout should match")
			},
		},
		{
			name: "valid_json_with_repository_file",
			file: "cfgsweep.json",
			config: `{
	"repositories_file": "repos.json",
	"changes": [{"target_file": "a.txt", "search_pattern": "x", "replace_with": "y"}],
	"branch": "sweep/x",
	"base_branch": "main"
}`,
			extra: map[string]string{
				"repos.json": `["https://github.com/plugins/cdd-plugin-a.git", "", "https://github.com/plugins/cdd-plugin-b.git"]`,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{
					"https://github.com/plugins/cdd-plugin-a.git",
					"https://github.com/plugins/cdd-plugin-b.git",
				}, cfg.Repositories, "repositories should come from the list file")
				assert.Equal(t, "sweep/x", cfg.Branch, "branch should match")
				assert.Equal(t, "main", cfg.BaseBranch, "base branch should match")
				assert.Equal(t, DefaultConcurrency, cfg.Concurrency, "concurrency should default")
			},
		},
		{
			name: "valid_toml",
			file: "cfgsweep.toml",
			config: `
repositories = ["https://github.com/plugins/cdd-plugin-a.git"]
owner = "plugins"

[author]
name = "Sweep Bot"
email = "sweep@example.com"

[[changes]]
target_file = "gradle.properties"
search_pattern = '^version=(\d+)\.(\d+)\.\d+$'
replace_with = 'version=\1.\2.1'

[[changes]]
target_file = "settings.gradle"
search_pattern = "old"
`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Changes, 2, "should have 2 changes")
				assert.Equal(t, `^version=(\d+)\.(\d+)\.\d+$`, cfg.Changes[0].SearchPattern, "pattern should match")
				assert.Equal(t, `version=\1.\2.1`, cfg.Changes[0].ReplaceWith, "replacement should match")
				assert.Equal(t, "", cfg.Changes[1].ReplaceWith, "replacement may be empty")
				assert.Equal(t, "plugins", cfg.Owner, "owner should match")
				assert.Equal(t, Author{Name: "Sweep Bot", Email: "sweep@example.com"}, cfg.Author, "author should match")
			},
		},
		{
			name:        "unknown_yaml_field",
			file:        "cfgsweep.yaml",
			config:      "repositories: [https://github.com/a/b.git]\nchanges: [{target_file: a, search_pattern: b}]\nbogus: true\n",
			wantErr:     true,
			errContains: "bogus",
		},
		{
			name:        "unknown_json_field",
			file:        "cfgsweep.json",
			config:      `{"repositories": ["https://github.com/a/b.git"], "changes": [{"target_file": "a", "search_pattern": "b"}], "bogus": 1}`,
			wantErr:     true,
			errContains: "bogus",
		},
		{
			name:        "no_changes",
			file:        "cfgsweep.yaml",
			config:      "repositories: [https://github.com/a/b.git]\n",
			wantErr:     true,
			errContains: "at least one rule",
		},
		{
			name:        "no_repositories",
			file:        "cfgsweep.yaml",
			config:      "changes: [{target_file: a, search_pattern: b}]\n",
			wantErr:     true,
			errContains: "at least one repository",
		},
		{
			name:        "escaping_target",
			file:        "cfgsweep.yaml",
			config:      "repositories: [https://github.com/a/b.git]\nchanges: [{target_file: ../x, search_pattern: b}]\n",
			wantErr:     true,
			errContains: "relative to the repository root",
		},
		{
			name:        "negative_concurrency",
			file:        "cfgsweep.yaml",
			config:      "repositories: [https://github.com/a/b.git]\nchanges: [{target_file: a, search_pattern: b}]\nconcurrency: -1\n",
			wantErr:     true,
			errContains: "concurrency",
		},
		{
			name:        "bad_timeout",
			file:        "cfgsweep.yaml",
			config:      "repositories: [https://github.com/a/b.git]\nchanges: [{target_file: a, search_pattern: b}]\nstep_timeout: soon\n",
			wantErr:     true,
			errContains: "step_timeout",
		},
		{
			name:        "name_collision",
			file:        "cfgsweep.yaml",
			config:      "repositories: [https://github.com/a/tool.git, https://github.com/b/tool.git]\nchanges: [{target_file: a, search_pattern: b}]\n",
			wantErr:     true,
			errContains: "collision",
		},
		{
			name:        "missing_repository_file",
			file:        "cfgsweep.yaml",
			config:      "repositories_file: nope.json\nchanges: [{target_file: a, search_pattern: b}]\n",
			wantErr:     true,
			errContains: "repository list",
		},
		{
			name:        "unsupported_extension",
			file:        "cfgsweep.ini",
			config:      "x=1",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.config)
			for name, content := range tt.extra {
				writeFile(t, dir, name, content)
			}

			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err, "Load should fail")
				assert.Equal(t, errs.KindConfig, errs.KindOf(err), "error kind should be ConfigError")
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error should contain expected text")
				}
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, path, cfg.Location(), "location should be recorded")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err, "Load should fail")
	assert.Equal(t, errs.KindConfig, errs.KindOf(err), "error kind should be ConfigError")
}

func TestConfig_ApplyCredentials(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyCredentials(Credentials{User: "octocat", Token: "t"})

	assert.Equal(t, "octocat", cfg.Owner, "owner should default to the user")
	assert.Equal(t, Author{Name: "octocat", Email: "octocat@users.noreply.github.com"}, cfg.Author, "author should default to the user")

	cfg = &Config{Owner: "plugins", Author: Author{Name: "Bot", Email: "bot@example.com"}}
	cfg.ApplyCredentials(Credentials{User: "octocat"})
	assert.Equal(t, "plugins", cfg.Owner, "explicit owner should be kept")
	assert.Equal(t, "Bot", cfg.Author.Name, "explicit author should be kept")
}

func TestCredentials(t *testing.T) {
	t.Setenv(EnvUser, " octocat ")
	t.Setenv(EnvToken, "ghp_test")

	creds := LoadCredentials()
	assert.Equal(t, Credentials{User: "octocat", Token: "ghp_test"}, creds, "credentials should be trimmed")
	assert.NoError(t, creds.Validate(), "credentials should be valid")

	t.Setenv(EnvToken, "")
	err := LoadCredentials().Validate()
	require.Error(t, err, "missing token should fail")
	assert.Equal(t, errs.KindConfig, errs.KindOf(err), "error kind should be ConfigError")
	assert.Contains(t, err.Error(), "GITHUB_TOKEN", "error should name the variable")
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Repositories: []string{"a", "b"},
		Changes:      []change.Rule{{TargetFile: "x", SearchPattern: "y"}},
		Branch:       "auto/config-update",
		BaseBranch:   "master",
	}
	assert.Equal(t, "2 repositories, 1 changes -> auto/config-update (base master)", cfg.String(), "string should match")
}
