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

// Package publish turns a modified workspace into a pushed branch and a pull request.
package publish

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/git"
	"github.com/walteh/cfgsweep/pkg/remote"
	"github.com/walteh/cfgsweep/pkg/workspace"
)

const (
	// PullRequestFailed is the outcome when the host refuses to open a pull request
	PullRequestFailed = "PR creation failed"
	// DryRunOutcome is the outcome when publishing is skipped
	DryRunOutcome = "Would open PR (dry run)"
)

// Request describes what to publish from a workspace
type Request struct {
	Branch        string
	CommitMessage string
	Title         string
	Body          string
	Base          string
	Reviewer      string
}

// 📦 Outcome is what a publish produced
type Outcome struct {
	// Commit is the hash of the recorded commit
	Commit string
	// PullRequest is nil when the host refused the pull request
	PullRequest *remote.PullRequest
	// ReviewerErr is set when the reviewer request failed; it never changes the outcome text
	ReviewerErr error
	// DryRun is true when nothing was committed or pushed
	DryRun bool
}

// String renders the outcome for the status report
func (o Outcome) String() string {
	switch {
	case o.DryRun:
		return DryRunOutcome
	case o.PullRequest == nil:
		return PullRequestFailed
	default:
		return fmt.Sprintf("[View PR](%s)", o.PullRequest.URL)
	}
}

// 🔌 Publisher publishes a workspace
type Publisher interface {
	Publish(ctx context.Context, ws *workspace.Workspace, req Request) (Outcome, error)
}

// 🚀 Pipeline commits, pushes and opens a pull request on a Host
type Pipeline struct {
	host   remote.Host
	owner  string
	author git.Identity
}

var _ Publisher = (*Pipeline)(nil)

// NewPipeline creates a Pipeline opening pull requests under owner
func NewPipeline(host remote.Host, owner string, author git.Identity) *Pipeline {
	return &Pipeline{host: host, owner: owner, author: author}
}

// Publish stages and commits everything in the workspace, pushes req.Branch and
// opens a pull request against req.Base. A refused pull request is an outcome,
// not an error.
func (p *Pipeline) Publish(ctx context.Context, ws *workspace.Workspace, req Request) (Outcome, error) {
	if ws == nil || ws.Repo == nil {
		return Outcome{}, errs.Errorf(errs.KindCommit, "workspace has no repository")
	}

	logger := zerolog.Ctx(ctx).With().Str("repo", ws.Name).Str("branch", req.Branch).Logger()

	if err := ws.Repo.StageAll(ctx); err != nil {
		return Outcome{}, errs.New(errs.KindCommit, err)
	}

	hash, err := ws.Repo.Commit(ctx, req.CommitMessage, p.author)
	if err != nil {
		return Outcome{}, errs.New(errs.KindCommit, err)
	}
	logger.Debug().Str("commit", hash).Msg("committed changes")

	if err := ws.Repo.Push(ctx, req.Branch); err != nil {
		return Outcome{Commit: hash}, errs.New(errs.KindPush, err)
	}
	logger.Debug().Msg("pushed branch")

	out := Outcome{Commit: hash}

	pr, err := p.host.CreatePullRequest(ctx, remote.NewPullRequest{
		Owner: p.owner,
		Repo:  ws.Name,
		Title: req.Title,
		Head:  req.Branch,
		Base:  req.Base,
		Body:  req.Body,
	})
	if err != nil {
		return out, errs.New(errs.KindPullRequestTransport, err)
	}
	if pr == nil {
		logger.Warn().Str("host", p.host.Name()).Msg("pull request was not created")
		return out, nil
	}
	out.PullRequest = pr
	logger.Info().Int("number", pr.Number).Str("url", pr.URL).Msg("opened pull request")

	if req.Reviewer == "" {
		return out, nil
	}

	if err := p.host.RequestReviewers(ctx, p.owner, ws.Name, pr.Number, []string{req.Reviewer}); err != nil {
		out.ReviewerErr = errs.New(errs.KindReviewerRequest, err)
		logger.Warn().Err(out.ReviewerErr).Str("reviewer", req.Reviewer).Msg("requesting reviewer")
		return out, nil
	}
	logger.Debug().Str("reviewer", req.Reviewer).Msg("requested reviewer")

	return out, nil
}

// 🧪 DryRun leaves the workspace untouched and reports what would have happened
type DryRun struct{}

var _ Publisher = DryRun{}

func (DryRun) Publish(ctx context.Context, ws *workspace.Workspace, req Request) (Outcome, error) {
	zerolog.Ctx(ctx).Info().Str("repo", ws.Name).Str("branch", req.Branch).Str("base", req.Base).Msg("skipping publish")
	return Outcome{DryRun: true}, nil
}
