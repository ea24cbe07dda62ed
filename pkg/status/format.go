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

package status

import (
	"fmt"
	"strings"

	"github.com/walteh/cfgsweep/pkg/publish"
)

// 🏷️ Category groups outcomes for display
type Category int

const (
	CategoryOpened    Category = iota // Pull request opened
	CategoryUnchanged                 // No rule matched
	CategoryRefused                   // Host refused the pull request
	CategoryDryRun                    // Publishing skipped
	CategoryFailed                    // Pipeline ended in ERROR
)

// String returns a string representation of Category
func (c Category) String() string {
	switch c {
	case CategoryOpened:
		return "opened"
	case CategoryUnchanged:
		return "unchanged"
	case CategoryRefused:
		return "refused"
	case CategoryDryRun:
		return "dry-run"
	default:
		return "failed"
	}
}

// Categorize classifies a result by its outcome
func Categorize(res Result) Category {
	switch {
	case res.Failed:
		return CategoryFailed
	case res.Outcome == NoMatchingChanges:
		return CategoryUnchanged
	case res.Outcome == publish.PullRequestFailed:
		return CategoryRefused
	case res.Outcome == publish.DryRunOutcome:
		return CategoryDryRun
	default:
		return CategoryOpened
	}
}

// Formatter defines how status messages are rendered
type Formatter interface {
	// FormatResult formats a single repository result
	FormatResult(res Result) string
	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatResult formats a repository result with emojis
func (f *DefaultFormatter) FormatResult(res Result) string {
	switch Categorize(res) {
	case CategoryOpened:
		return fmt.Sprintf("🔗 %s: %s", res.Repository, res.Outcome)
	case CategoryUnchanged:
		return fmt.Sprintf("👍 %s: %s", res.Repository, res.Outcome)
	case CategoryRefused:
		return fmt.Sprintf("⚠️  %s: %s", res.Repository, res.Outcome)
	case CategoryDryRun:
		return fmt.Sprintf("🧪 %s: %s", res.Repository, res.Outcome)
	default:
		return fmt.Sprintf("❌ %s: %s", res.Repository, res.Outcome)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

// Summary counts results per category, e.g. "3 opened, 1 unchanged, 1 failed"
func Summary(results []Result) string {
	counts := map[Category]int{}
	for _, res := range results {
		counts[Categorize(res)]++
	}

	var parts []string
	for c := CategoryOpened; c <= CategoryFailed; c++ {
		if counts[c] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[c], c))
		}
	}
	if len(parts) == 0 {
		return "no repositories"
	}
	return strings.Join(parts, ", ")
}
