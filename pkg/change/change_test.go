package change

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfgsweep/pkg/errs"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent dirs should succeed")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing fixture should succeed")
	}
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err, "reading file should succeed")
	return string(data)
}

func TestApplicator_Apply(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		rules       []Rule
		wantChanged bool
		wantFiles   map[string]string
		wantKind    errs.Kind
	}{
		{
			name:  "gradle_version_bump",
			files: map[string]string{"gradle.properties": "version=1.0.0\n"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `version=1\.0\.0`, ReplaceWith: "version=1.1.0"},
			},
			wantChanged: true,
			wantFiles:   map[string]string{"gradle.properties": "version=1.1.0\n"},
		},
		{
			name:  "missing_target_is_skipped",
			files: map[string]string{"build.gradle": "plugins {}\n"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `version=.*`, ReplaceWith: "version=2"},
			},
			wantChanged: false,
			wantFiles:   map[string]string{"build.gradle": "plugins {}\n"},
		},
		{
			name:  "missing_target_does_not_hide_other_matches",
			files: map[string]string{"Dockerfile": "FROM alpine:3.18\n"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `version=.*`, ReplaceWith: "version=2"},
				{TargetFile: "Dockerfile", SearchPattern: `^FROM alpine:3\.18$`, ReplaceWith: "FROM alpine:3.20"},
			},
			wantChanged: true,
			wantFiles:   map[string]string{"Dockerfile": "FROM alpine:3.20\n"},
		},
		{
			name:  "no_match_leaves_bytes_untouched",
			files: map[string]string{"gradle.properties": "version=1.0.0\r\nname=x\n\x00tail"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `version=9`, ReplaceWith: "version=10"},
			},
			wantChanged: false,
			wantFiles:   map[string]string{"gradle.properties": "version=1.0.0\r\nname=x\n\x00tail"},
		},
		{
			name:  "rules_on_same_file_chain",
			files: map[string]string{"gradle.properties": "version=1.0.0\n"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `1\.0\.0`, ReplaceWith: "1.1.0"},
				{TargetFile: "gradle.properties", SearchPattern: `1\.1\.0`, ReplaceWith: "1.2.0"},
			},
			wantChanged: true,
			wantFiles:   map[string]string{"gradle.properties": "version=1.2.0\n"},
		},
		{
			name:  "nested_target_file",
			files: map[string]string{"config/app.yaml": "replicas: 1\n"},
			rules: []Rule{
				{TargetFile: "config/app.yaml", SearchPattern: `^replicas: \d+$`, ReplaceWith: "replicas: 3"},
			},
			wantChanged: true,
			wantFiles:   map[string]string{"config/app.yaml": "replicas: 3\n"},
		},
		{
			name:  "dockerfile_variables_survive",
			files: map[string]string{"Dockerfile": "ENV JAVA_OPTS=-Xmx512m\n"},
			rules: []Rule{
				{TargetFile: "Dockerfile", SearchPattern: `^ENV JAVA_OPTS=.*$`, ReplaceWith: "ENV JAVA_OPTS=${HEAP_OPTS} -Dx=$1abc"},
			},
			wantChanged: true,
			wantFiles:   map[string]string{"Dockerfile": "ENV JAVA_OPTS=${HEAP_OPTS} -Dx=$1abc\n"},
		},
		{
			name:  "backslash_group_references",
			files: map[string]string{"gradle.properties": "version=1.0.0\nname=plugin-a\n"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `^(version=)1\.0\.0$`, ReplaceWith: `\g<1>2.0.0`},
				{TargetFile: "gradle.properties", SearchPattern: `^name=(?P<name>.*)$`, ReplaceWith: `name=\g<name>-next # was \1`},
			},
			wantChanged: true,
			wantFiles:   map[string]string{"gradle.properties": "version=2.0.0\nname=plugin-a-next # was plugin-a\n"},
		},
		{
			name:  "missing_group_fails_before_writing",
			files: map[string]string{"gradle.properties": "version=1.0.0\n"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `version`, ReplaceWith: "v"},
				{TargetFile: "gradle.properties", SearchPattern: `^(version)=.*$`, ReplaceWith: `\1=\2`},
			},
			wantKind:  errs.KindPattern,
			wantFiles: map[string]string{"gradle.properties": "version=1.0.0\n"},
		},
		{
			name:  "invalid_pattern_fails_before_writing",
			files: map[string]string{"gradle.properties": "version=1.0.0\n"},
			rules: []Rule{
				{TargetFile: "gradle.properties", SearchPattern: `version`, ReplaceWith: "v"},
				{TargetFile: "missing.txt", SearchPattern: `(unclosed`, ReplaceWith: "x"},
			},
			wantKind:  errs.KindPattern,
			wantFiles: map[string]string{"gradle.properties": "version=1.0.0\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tt.files)
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			changed, err := NewApplicator().Apply(ctx, root, tt.rules)
			if tt.wantKind != errs.KindUnknown {
				require.Error(t, err, "Apply should fail")
				assert.Equal(t, tt.wantKind, errs.KindOf(err), "error kind should match")
			} else {
				require.NoError(t, err, "Apply should succeed")
				assert.Equal(t, tt.wantChanged, changed, "changed flag should match")
			}

			for name, want := range tt.wantFiles {
				assert.Equal(t, want, readFile(t, root, name), "content of %s should match", name)
			}
		})
	}
}

func TestApplicator_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"gradle.properties": "version=1.0.0\n"})
	rules := []Rule{{TargetFile: "gradle.properties", SearchPattern: `version=1\.0\.0`, ReplaceWith: "version=1.1.0"}}
	applicator := NewApplicator()

	changed, err := applicator.Apply(context.Background(), root, rules)
	require.NoError(t, err, "first apply should succeed")
	assert.True(t, changed, "first apply should change the file")

	changed, err = applicator.Apply(context.Background(), root, rules)
	require.NoError(t, err, "second apply should succeed")
	assert.False(t, changed, "second apply should be a no-op")
	assert.Equal(t, "version=1.1.0\n", readFile(t, root, "gradle.properties"), "content should be stable")
}

func TestApplicator_OrderMatters(t *testing.T) {
	ruleA := Rule{TargetFile: "f.txt", SearchPattern: `a`, ReplaceWith: "b"}
	ruleB := Rule{TargetFile: "f.txt", SearchPattern: `b`, ReplaceWith: "c"}

	run := func(rules ...Rule) string {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"f.txt": "ab\n"})
		_, err := NewApplicator().Apply(context.Background(), root, rules)
		require.NoError(t, err, "Apply should succeed")
		return readFile(t, root, "f.txt")
	}

	sequential := func(rules ...Rule) string {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"f.txt": "ab\n"})
		for _, r := range rules {
			_, err := NewApplicator().Apply(context.Background(), root, []Rule{r})
			require.NoError(t, err, "Apply should succeed")
		}
		return readFile(t, root, "f.txt")
	}

	assert.Equal(t, "cc\n", run(ruleA, ruleB), "A then B should rewrite both letters")
	assert.Equal(t, "bc\n", run(ruleB, ruleA), "B then A should leave a b")
	assert.Equal(t, sequential(ruleA, ruleB), run(ruleA, ruleB), "batch should equal sequential A,B")
	assert.Equal(t, sequential(ruleB, ruleA), run(ruleB, ruleA), "batch should equal sequential B,A")
}

func TestApplicator_ApplyWithResult(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"Dockerfile": "FROM a\nFROM a\n"})

	result, err := NewApplicator().ApplyWithResult(context.Background(), root, []Rule{
		{TargetFile: "gradle.properties", SearchPattern: `x`, ReplaceWith: "y"},
		{TargetFile: "Dockerfile", SearchPattern: `^FROM a$`, ReplaceWith: "FROM b"},
	})
	require.NoError(t, err, "ApplyWithResult should succeed")
	assert.True(t, result.Changed(), "result should report a change")
	assert.Equal(t, []string{"gradle.properties"}, result.Skipped, "missing file should be reported as skipped")
	require.Len(t, result.Changes, 1, "one rule should have written")
	assert.Equal(t, FileChange{Rule: 1, Path: "Dockerfile", Replacements: 2}, result.Changes[0], "change detail should match")
}

func TestRule_Validate(t *testing.T) {
	tests := []struct {
		name        string
		rule        Rule
		errContains string
	}{
		{name: "valid", rule: Rule{TargetFile: "gradle.properties", SearchPattern: "x"}},
		{name: "missing_file", rule: Rule{SearchPattern: "x"}, errContains: "target_file is required"},
		{name: "absolute_file", rule: Rule{TargetFile: "/etc/passwd", SearchPattern: "x"}, errContains: "relative"},
		{name: "escaping_file", rule: Rule{TargetFile: "../other/file", SearchPattern: "x"}, errContains: "relative"},
		{name: "missing_pattern", rule: Rule{TargetFile: "a"}, errContains: "search_pattern is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err, "Validate should succeed")
				return
			}
			require.Error(t, err, "Validate should fail")
			assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
		})
	}
}
