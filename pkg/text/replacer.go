package text

import (
	"context"
	"io"
)

// ReplacementRule defines a single pattern substitution
type ReplacementRule struct {
	// Pattern is a regular expression evaluated in multiline mode
	Pattern string

	// Template is the replacement text; \1 and \g<name> expand captured groups, $ is literal
	Template string
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any rule matched
	WasModified bool

	// ReplacementCount is the number of matches replaced
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content in order
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that every pattern compiles and every template refers to existing groups
	ValidateRules(rules []ReplacementRule) error
}
