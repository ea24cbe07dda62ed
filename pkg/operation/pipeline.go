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
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/publish"
	"github.com/walteh/cfgsweep/pkg/status"
	"github.com/walteh/cfgsweep/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// TransitionFunc observes state changes of a repository pipeline
type TransitionFunc func(repo string, from, to State)

// 🔄 Pipeline runs the full clone → branch → apply → publish sequence for one repository
type Pipeline struct {
	workspaces  Workspaces
	applier     Applier
	publisher   publish.Publisher
	stepTimeout time.Duration
	onState     TransitionFunc
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithStepTimeout bounds each network step (clone, publish) by d; zero means no bound
func WithStepTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.stepTimeout = d
	}
}

// WithTransitionHook calls fn on every state change
func WithTransitionHook(fn TransitionFunc) PipelineOption {
	return func(p *Pipeline) {
		p.onState = fn
	}
}

// 🏭 NewPipeline creates a Pipeline
func NewPipeline(workspaces Workspaces, applier Applier, publisher publish.Publisher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		workspaces: workspaces,
		applier:    applier,
		publisher:  publisher,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run holds the mutable state of one pipeline execution
type run struct {
	p      *Pipeline
	name   string
	state  State
	logger zerolog.Logger
}

func (r *run) transition(to State) {
	from := r.state
	r.state = to
	r.log().Debug().Str("from", from.String()).Msg("state transition")
	if r.p.onState != nil {
		r.p.onState(r.name, from, to)
	}
}

func (r *run) log() *zerolog.Logger {
	l := r.logger.With().Str("state", r.state.String()).Logger()
	return &l
}

func (r *run) fail(err error) status.Result {
	from := r.state
	r.transition(StateError)
	r.log().Error().Err(err).Str("failed_in", from.String()).Msg("pipeline failed")
	return status.Result{
		Repository: r.name,
		Outcome:    "Error: " + err.Error(),
		Failed:     true,
		Err:        err,
	}
}

func (r *run) done(outcome string) status.Result {
	r.transition(StateDone)
	return status.Result{Repository: r.name, Outcome: outcome}
}

// step derives a context bounded by the step timeout
func (p *Pipeline) step(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.stepTimeout)
}

// Run executes the pipeline for cloneURL. It never returns an error: every
// failure, panics included, becomes an ERROR result. The workspace is
// released before Run returns on every path.
func (p *Pipeline) Run(ctx context.Context, cloneURL string, req Request) (res status.Result) {
	r := &run{p: p, name: workspace.DisplayName(cloneURL), state: StatePending}
	r.logger = zerolog.Ctx(ctx).With().Str("repo", r.name).Logger()
	ctx = r.logger.WithContext(ctx)

	var ws *workspace.Workspace
	defer func() {
		p.workspaces.Release(context.WithoutCancel(ctx), ws)
	}()
	defer func() {
		if rec := recover(); rec != nil {
			res = r.fail(errors.Errorf("panic: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		return r.fail(errors.Errorf("cancelled before start: %w", err))
	}

	r.transition(StateCloning)
	cloneCtx, cancel := p.step(ctx)
	acquired, err := p.workspaces.Acquire(cloneCtx, cloneURL)
	cancel()
	ws = acquired
	if err != nil {
		return r.fail(errs.New(errs.KindClone, err))
	}

	r.transition(StateBranching)
	if err := p.workspaces.CreateBranch(ctx, ws, req.Publish.Branch); err != nil {
		return r.fail(errs.New(errs.KindBranch, err))
	}

	r.transition(StateApplying)
	changed, err := p.applier.Apply(ctx, ws.Path, req.Rules)
	if err != nil {
		return r.fail(err)
	}

	if !changed {
		r.transition(StateNoChange)
		return r.done(status.NoMatchingChanges)
	}

	if err := ctx.Err(); err != nil {
		return r.fail(errors.Errorf("cancelled before publish: %w", err))
	}

	r.transition(StatePublishing)
	pubCtx, cancel := p.step(ctx)
	out, err := p.publisher.Publish(pubCtx, ws, req.Publish)
	cancel()
	if err != nil {
		return r.fail(err)
	}

	return r.done(out.String())
}
