package text

import (
	"context"
	"io"
	"regexp"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

// multiline makes ^ and $ match at line boundaries
const multiline = "(?m)"

// RegexpTextReplacer implements TextReplacer with multiline regular expressions
type RegexpTextReplacer struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewRegexpTextReplacer creates a new RegexpTextReplacer
func NewRegexpTextReplacer() *RegexpTextReplacer {
	return &RegexpTextReplacer{
		cache: make(map[string]*regexp.Regexp),
	}
}

// Compile returns the multiline form of pattern, compiled once per replacer.
func (r *RegexpTextReplacer) Compile(pattern string) (*regexp.Regexp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if re, ok := r.cache[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile(multiline + pattern)
	if err != nil {
		return nil, errs.Errorf(errs.KindPattern, "compiling pattern %q (RE2 syntax, no lookaround or backreferences): %w", pattern, err)
	}
	r.cache[pattern] = re
	return re, nil
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	if err := r.ValidateRules(rules); err != nil {
		return nil, err
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	current := originalContent
	for i, rule := range rules {
		re, err := r.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		template, err := ExpandTemplate(re, rule.Template)
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		matches := re.FindAllIndex(current, -1)
		if len(matches) == 0 {
			continue
		}

		zerolog.Ctx(ctx).Trace().
			Str("pattern", rule.Pattern).
			Int("matches", len(matches)).
			Msg("pattern matched")

		current = re.ReplaceAll(current, []byte(template))
		result.WasModified = true
		result.ReplacementCount += len(matches)
	}

	result.ModifiedContent = current
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		re, err := r.Compile(rule.Pattern)
		if err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
		if _, err := ExpandTemplate(re, rule.Template); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
