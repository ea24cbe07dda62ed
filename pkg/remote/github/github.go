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

package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// PullRequestsService defines the GitHub pull request operations we need
type PullRequestsService interface {
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
	RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers github.ReviewersRequest) (*github.PullRequest, *github.Response, error)
}

// 🎯 Client implements remote.Host for GitHub and GitHub Enterprise
type Client struct {
	pulls PullRequestsService
}

var _ remote.Host = (*Client)(nil)

// 🏭 New creates a client authenticated with token. An empty baseURL targets
// github.com, anything else is treated as a GitHub Enterprise API root.
func New(token, baseURL string) (*Client, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, errs.Errorf(errs.KindConfig, "configuring enterprise url %q: %w", baseURL, err)
		}
	}

	return NewFromClient(client), nil
}

// NewFromClient wraps an existing go-github client
func NewFromClient(client *github.Client) *Client {
	return &Client{pulls: client.PullRequests}
}

// Name returns the name of the host
func (c *Client) Name() string {
	return "github"
}

// CreatePullRequest opens a pull request. Only a 201 Created answer counts as
// success; every other HTTP answer is logged and reported as (nil, nil).
// Transport failures are returned as errors.
func (c *Client) CreatePullRequest(ctx context.Context, req remote.NewPullRequest) (*remote.PullRequest, error) {
	logger := zerolog.Ctx(ctx).With().Str("owner", req.Owner).Str("repo", req.Repo).Logger()

	pull := &github.NewPullRequest{
		Title: github.String(req.Title),
		Head:  github.String(req.Head),
		Base:  github.String(req.Base),
	}
	if req.Body != "" {
		pull.Body = github.String(req.Body)
	}

	pr, resp, err := c.pulls.Create(ctx, req.Owner, req.Repo, pull)
	if err != nil {
		if resp == nil || resp.Response == nil {
			return nil, errors.Errorf("creating pull request for %s/%s: %w", req.Owner, req.Repo, err)
		}
		logger.Error().Err(err).Int("status", resp.StatusCode).Msg("failed to create pull request")
		return nil, nil
	}

	if resp == nil || resp.Response == nil || resp.StatusCode != http.StatusCreated {
		status := 0
		if resp != nil && resp.Response != nil {
			status = resp.StatusCode
		}
		logger.Error().Int("status", status).Msg("failed to create pull request")
		return nil, nil
	}

	logger.Info().Int("number", pr.GetNumber()).Str("url", pr.GetHTMLURL()).Msg("created pull request")

	return &remote.PullRequest{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
	}, nil
}

// RequestReviewers asks reviewers to review pull request number.
func (c *Client) RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers []string) error {
	_, resp, err := c.pulls.RequestReviewers(ctx, owner, repo, number, github.ReviewersRequest{
		Reviewers: reviewers,
	})
	if err != nil {
		return errs.Errorf(errs.KindReviewerRequest, "requesting reviewers on %s/%s#%d: %w", owner, repo, number, err)
	}
	if resp != nil && resp.Response != nil && resp.StatusCode != http.StatusCreated {
		return errs.Errorf(errs.KindReviewerRequest, "requesting reviewers on %s/%s#%d: unexpected status %d", owner, repo, number, resp.StatusCode)
	}
	return nil
}
