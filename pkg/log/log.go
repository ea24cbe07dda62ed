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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/status"
)

// 🎨 Display configuration
const (
	ruleIndent   = 4  // spaces to indent rule entries
	fileWidth    = 35 // Base width for target file
	patternWidth = 30 // Width for search pattern
)

// 🎯 RuleCheck is the result of compiling one change rule
type RuleCheck struct {
	Index      int    // Position in the rule list
	TargetFile string // File the rule edits
	Pattern    string // Search pattern
	Err        error  // Compilation failure, nil when valid
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	results []status.Result
}

// 🏭 New creates a logger printing to console and recording to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatRuleCheck formats a rule check for display
func (l *Logger) formatRuleCheck(rc RuleCheck) string {
	symbol, symbolColor, verdict := '✓', color.FgGreen, "ok"
	if rc.Err != nil {
		symbol, symbolColor, verdict = '✗', color.FgRed, rc.Err.Error()
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", ruleIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", fileWidth, rc.TargetFile),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", patternWidth, rc.Pattern)),
		verdict)
}

// 📝 LogRuleCheck logs the outcome of compiling a rule
func (l *Logger) LogRuleCheck(ctx context.Context, rc RuleCheck) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatRuleCheck(rc))

	ev := l.zlog.Info()
	if rc.Err != nil {
		ev = l.zlog.Error().Err(rc.Err)
	}
	ev.Int("rule", rc.Index).
		Str("target_file", rc.TargetFile).
		Str("search_pattern", rc.Pattern).
		Msg("rule check")
}

// 📝 LogResult prints one repository result as it completes
func (l *Logger) LogResult(ctx context.Context, res status.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, res)
	fmt.Fprintln(l.console, status.FormatResultLine(res))

	ev := l.zlog.Info()
	if res.Failed {
		ev = l.zlog.Error().Err(res.Err)
	}
	ev.Str("repo", res.Repository).
		Str("outcome", res.Outcome).
		Msg("repository finished")
}

// 📝 LogSummary prints the category counts of every result logged so far
func (l *Logger) LogSummary(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := status.Summary(l.results)
	fmt.Fprintf(l.console, "\n%s %s\n", color.New(color.Bold).Sprint("summary"), color.New(color.Faint).Sprint("• "+summary))
	l.zlog.Info().Int("repositories", len(l.results)).Msg(summary)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("cfgsweep")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
