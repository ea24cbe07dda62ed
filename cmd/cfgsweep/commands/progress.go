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

package commands

import (
	"context"
	"sync"

	"github.com/pterm/pterm"
	"github.com/walteh/cfgsweep/pkg/status"
)

// 📊 progressReporter records results into a report while driving a progress bar
type progressReporter struct {
	report *status.Report

	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

var _ status.Reporter = (*progressReporter)(nil)

func newProgressReporter(report *status.Report) *progressReporter {
	return &progressReporter{report: report}
}

func (p *progressReporter) StartOperation(ctx context.Context, total int) {
	p.report.StartOperation(ctx, total)

	p.mu.Lock()
	defer p.mu.Unlock()
	if total == 0 {
		return
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Sweeping repositories").
		WithRemoveWhenDone(true).
		Start()
	if err == nil {
		p.bar = bar
	}
}

func (p *progressReporter) Record(ctx context.Context, res status.Result) {
	p.report.Record(ctx, res)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.UpdateTitle(res.Repository)
		p.bar.Increment()
	}
}

func (p *progressReporter) FinishOperation(ctx context.Context) {
	p.mu.Lock()
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
	p.mu.Unlock()

	p.report.FinishOperation(ctx)
}
