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
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// NoMatchingChanges is the outcome when no rule matched in a repository
const NoMatchingChanges = "No matching changes"

// 📄 Result is the final outcome of one repository pipeline
type Result struct {
	Repository string // Repository display name
	Outcome    string // Rendered outcome shown to the user
	Failed     bool   // Whether the pipeline ended in ERROR
	Err        error  // Error behind a failed outcome, never rendered directly
}

// 📈 Reporter receives pipeline results as they complete
type Reporter interface {
	StartOperation(ctx context.Context, total int)
	Record(ctx context.Context, result Result)
	FinishOperation(ctx context.Context)
}

// 📊 Report aggregates results keyed by repository name in completion order
type Report struct {
	logger    *zerolog.Logger // Logger for status updates
	formatter Formatter       // Formatter for status messages

	mu      sync.RWMutex
	order   []string
	results map[string]Result

	// Progress tracking
	total     int
	processed int
}

var _ Reporter = (*Report)(nil)

// 🏭 New creates an empty report
func New(logger *zerolog.Logger) *Report {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Report{
		logger:    logger,
		formatter: NewDefaultFormatter(),
		results:   make(map[string]Result),
	}
}

// Record stores a result. A repeated repository name keeps its original
// position and the latest result.
func (r *Report) Record(ctx context.Context, result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[result.Repository]; !ok {
		r.order = append(r.order, result.Repository)
	}
	r.results[result.Repository] = result
	r.processed++

	ev := r.logger.Info()
	if result.Failed {
		ev = r.logger.Error().Err(result.Err)
	}
	ev.Str("repo", result.Repository).
		Int("processed", r.processed).
		Int("total", r.total).
		Msg(r.formatter.FormatResult(result))
}

// Get returns the result recorded for repository
func (r *Report) Get(repository string) (Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.results[repository]
	return res, ok
}

// Results returns a snapshot of every result in completion order
func (r *Report) Results() []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Result, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.results[name])
	}
	return out
}

// Failed returns the failed results in completion order
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results() {
		if res.Failed {
			out = append(out, res)
		}
	}
	return out
}

// Len is the number of distinct repositories recorded
func (r *Report) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Progress returns how many results were recorded out of the expected total
func (r *Report) Progress() (processed, total int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.processed, r.total
}

func (r *Report) StartOperation(ctx context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.processed = 0
	r.logger.Info().Int("total", total).Msg(r.formatter.FormatProgress(0, total))
}

func (r *Report) FinishOperation(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logger.Info().
		Int("processed", r.processed).
		Int("total", r.total).
		Msg(r.formatter.FormatProgress(r.processed, r.total))
}
