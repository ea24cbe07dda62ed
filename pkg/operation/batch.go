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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/status"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the worker pool size when none is configured
const DefaultConcurrency = 5

// 🏃 Batch runs one Pipeline per repository on a bounded worker pool
type Batch struct {
	pipeline    *Pipeline
	reporter    status.Reporter
	concurrency int
}

// 🏗️ NewBatch creates a Batch recording results into reporter
func NewBatch(pipeline *Pipeline, reporter status.Reporter, concurrency int) *Batch {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Batch{
		pipeline:    pipeline,
		reporter:    reporter,
		concurrency: concurrency,
	}
}

// Run dispatches every clone URL and blocks until all pipelines have finished
// and released their workspaces. Per-repository failures land in the report;
// only an invalid request is returned as an error, before anything is dispatched.
func (b *Batch) Run(ctx context.Context, cloneURLs []string, req Request) error {
	if err := validate(req); err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Int("repositories", len(cloneURLs)).Int("workers", b.concurrency).Msg("starting sweep")

	b.reporter.StartOperation(ctx, len(cloneURLs))

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)
	for _, url := range cloneURLs {
		url := url
		g.Go(func() error {
			b.reporter.Record(ctx, b.pipeline.Run(ctx, url, req))
			return nil
		})
	}
	_ = g.Wait() // errors captured in status.Result

	b.reporter.FinishOperation(ctx)
	return nil
}

func validate(req Request) error {
	if len(req.Rules) == 0 {
		return errs.Errorf(errs.KindConfig, "no change rules given")
	}
	if req.Publish.Branch == "" {
		return errs.Errorf(errs.KindConfig, "branch name is required")
	}
	for i, rule := range req.Rules {
		if err := rule.Validate(); err != nil {
			return errs.Errorf(errs.KindConfig, "rule %d: %w", i, err)
		}
	}
	return nil
}
