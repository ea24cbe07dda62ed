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

// Package change applies ordered pattern substitutions to files inside a
// checked out repository.
package change

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule describes one substitution to attempt on one file
type Rule struct {
	TargetFile    string `json:"target_file" yaml:"target_file" toml:"target_file" hcl:"target_file"`
	SearchPattern string `json:"search_pattern" yaml:"search_pattern" toml:"search_pattern" hcl:"search_pattern"`
	ReplaceWith   string `json:"replace_with" yaml:"replace_with" toml:"replace_with" hcl:"replace_with,optional"`
}

// 🔍 Validate checks the shape of the rule. Pattern syntax is checked by the applicator.
func (r Rule) Validate() error {
	if r.TargetFile == "" {
		return errors.New("target_file is required")
	}
	if !filepath.IsLocal(filepath.FromSlash(r.TargetFile)) {
		return errors.Errorf("target_file %q must be a path relative to the repository root", r.TargetFile)
	}
	if r.SearchPattern == "" {
		return errors.New("search_pattern is required")
	}
	return nil
}

// FileChange records a rule that rewrote a file
type FileChange struct {
	Rule         int
	Path         string
	Replacements int
}

// 📋 Result lists the files rewritten by one Apply call
type Result struct {
	Changes []FileChange
	Skipped []string
}

// Changed reports whether any rule caused a write.
func (r *Result) Changed() bool {
	return len(r.Changes) > 0
}

// 🎯 Applicator applies rules to a repository checkout
type Applicator struct {
	replacer *text.RegexpTextReplacer
}

// 🏭 NewApplicator creates a new Applicator
func NewApplicator() *Applicator {
	return &Applicator{
		replacer: text.NewRegexpTextReplacer(),
	}
}

// Check compiles every rule pattern without touching any file.
func (a *Applicator) Check(rules []Rule) error {
	return a.replacer.ValidateRules(replacementRules(rules))
}

// Apply runs every rule against root in order and reports whether any file was written.
func (a *Applicator) Apply(ctx context.Context, root string, rules []Rule) (bool, error) {
	result, err := a.ApplyWithResult(ctx, root, rules)
	if err != nil {
		return false, err
	}
	return result.Changed(), nil
}

// ApplyWithResult is Apply with per-file detail. A malformed pattern fails the
// whole call before any file is written.
func (a *Applicator) ApplyWithResult(ctx context.Context, root string, rules []Rule) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if err := a.Check(rules); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, rule := range rules {
		path := filepath.Join(root, filepath.FromSlash(rule.TargetFile))

		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug().Str("file", rule.TargetFile).Msg("target file not found, skipping rule")
			result.Skipped = append(result.Skipped, rule.TargetFile)
			continue
		}
		if err != nil {
			return nil, errors.Errorf("checking %s: %w", rule.TargetFile, err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", rule.TargetFile, err)
		}

		replaced, err := a.replacer.ReplaceText(ctx, bytes.NewReader(content), replacementRules(rules[i:i+1]))
		if err != nil {
			return nil, errors.Errorf("rule %d on %s: %w", i, rule.TargetFile, err)
		}

		if !replaced.WasModified {
			logger.Debug().Str("file", rule.TargetFile).Str("pattern", rule.SearchPattern).Msg("pattern did not match")
			continue
		}

		if err := os.WriteFile(path, replaced.ModifiedContent, info.Mode().Perm()); err != nil {
			return nil, errors.Errorf("writing %s: %w", rule.TargetFile, err)
		}

		logger.Info().
			Str("file", rule.TargetFile).
			Int("replacements", replaced.ReplacementCount).
			Msg("updated file")

		result.Changes = append(result.Changes, FileChange{
			Rule:         i,
			Path:         rule.TargetFile,
			Replacements: replaced.ReplacementCount,
		})
	}

	return result, nil
}

func replacementRules(rules []Rule) []text.ReplacementRule {
	out := make([]text.ReplacementRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, text.ReplacementRule{
			Pattern:  r.SearchPattern,
			Template: r.ReplaceWith,
		})
	}
	return out
}
