// Package remote describes the hosting service pull requests are opened against.
package remote

import (
	"context"
)

// Host is the primary interface for interacting with a code hosting service (e.g. GitHub)
type Host interface {
	// Name returns the name of the host (e.g. "github")
	Name() string
	// CreatePullRequest opens a pull request. A nil request with a nil error
	// means the host answered but refused to create it.
	CreatePullRequest(ctx context.Context, req NewPullRequest) (*PullRequest, error)
	// RequestReviewers asks the given users to review an open pull request
	RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers []string) error
}

// NewPullRequest holds everything needed to open a pull request
type NewPullRequest struct {
	Owner string
	Repo  string
	Title string
	Head  string
	Base  string
	Body  string
}

// PullRequest is a pull request the host created
type PullRequest struct {
	Number int
	URL    string
}
