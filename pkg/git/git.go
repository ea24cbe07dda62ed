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

// Package git is the version-control capability used by a sweep: clone,
// branch, stage, commit and push, backed by go-git.
package git

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

const remoteName = "origin"

// Credentials authenticate clone and push over HTTPS
type Credentials struct {
	Username string
	Token    string
}

// Identity is the author recorded on commits
type Identity struct {
	Name  string
	Email string
}

// 🔌 Repository is a local checkout owned by a single sweep pipeline
type Repository interface {
	// CreateBranch creates name at HEAD and checks it out
	CreateBranch(ctx context.Context, name string) error
	// StageAll stages every modified, new and deleted file
	StageAll(ctx context.Context) error
	// Commit records the staged changes and returns the commit hash
	Commit(ctx context.Context, message string, author Identity) (string, error)
	// Push publishes branch to origin under the same name
	Push(ctx context.Context, branch string) error
	// Close releases handles held on the repository storage
	Close() error
}

// 🔌 Cloner produces local checkouts
type Cloner interface {
	Clone(ctx context.Context, url, dest string) (Repository, error)
}

// 🏭 Client clones repositories with go-git
type Client struct {
	creds Credentials
}

var _ Cloner = (*Client)(nil)

// NewClient creates a client that authenticates with creds when the remote is HTTP(S)
func NewClient(creds Credentials) *Client {
	return &Client{creds: creds}
}

// Clone performs a full clone of url into dest.
func (c *Client) Clone(ctx context.Context, url, dest string) (Repository, error) {
	zerolog.Ctx(ctx).Debug().Str("url", url).Str("dest", dest).Msg("cloning repository")

	if strings.TrimSpace(url) == "" {
		return nil, errs.Errorf(errs.KindClone, "empty repository url")
	}
	if _, err := transport.NewEndpoint(url); err != nil {
		return nil, errs.Errorf(errs.KindClone, "parsing repository url %q: %w", url, err)
	}

	repo, err := gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL:  url,
		Auth: authFor(url, c.creds),
	})
	if err != nil {
		return nil, errs.Errorf(errs.KindClone, "cloning %s: %w", url, err)
	}

	return &repository{repo: repo, auth: authFor(url, c.creds)}, nil
}

// Open wraps an existing checkout at path.
func Open(path string, creds Credentials) (Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, errors.Errorf("opening repository %s: %w", path, err)
	}

	var auth transport.AuthMethod
	if remote, err := repo.Remote(remoteName); err == nil && len(remote.Config().URLs) > 0 {
		auth = authFor(remote.Config().URLs[0], creds)
	}

	return &repository{repo: repo, auth: auth}, nil
}

func authFor(url string, creds Credentials) transport.AuthMethod {
	if creds.Token == "" {
		return nil
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil
	}
	username := creds.Username
	if username == "" {
		username = "x-access-token"
	}
	return &githttp.BasicAuth{Username: username, Password: creds.Token}
}

type repository struct {
	repo *gogit.Repository
	auth transport.AuthMethod
}

func (r *repository) CreateBranch(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Errorf(errs.KindBranch, "empty branch name")
	}

	ref := plumbing.NewBranchReferenceName(name)

	if _, err := r.repo.Reference(ref, false); err == nil {
		return errs.Errorf(errs.KindBranch, "branch %s already exists", name)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return errs.Errorf(errs.KindBranch, "opening worktree: %w", err)
	}

	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: ref, Create: true, Keep: true}); err != nil {
		return errs.Errorf(errs.KindBranch, "checking out %s: %w", name, err)
	}

	zerolog.Ctx(ctx).Debug().Str("branch", name).Msg("created and checked out branch")
	return nil
}

func (r *repository) StageAll(ctx context.Context) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return errs.Errorf(errs.KindCommit, "opening worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return errs.Errorf(errs.KindCommit, "reading worktree status: %w", err)
	}

	for path, s := range status {
		switch s.Worktree {
		case gogit.Unmodified:
			continue
		case gogit.Deleted:
			_, err = wt.Remove(path)
		default:
			_, err = wt.Add(path)
		}
		if err != nil {
			return errs.Errorf(errs.KindCommit, "staging %s: %w", path, err)
		}
	}

	return nil
}

func (r *repository) Commit(ctx context.Context, message string, author Identity) (string, error) {
	if author.Name == "" || author.Email == "" {
		return "", errs.Errorf(errs.KindCommit, "commit identity is not configured")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", errs.Errorf(errs.KindCommit, "opening worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", errs.Errorf(errs.KindCommit, "reading worktree status: %w", err)
	}
	if !hasStaged(status) {
		return "", errs.Errorf(errs.KindCommit, "nothing staged to commit")
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", errs.Errorf(errs.KindCommit, "committing: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("hash", hash.String()).Msg("created commit")
	return hash.String(), nil
}

func hasStaged(status gogit.Status) bool {
	for _, s := range status {
		if s.Staging != gogit.Unmodified && s.Staging != gogit.Untracked {
			return true
		}
	}
	return false
}

func (r *repository) Push(ctx context.Context, branch string) error {
	refspec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	if err := refspec.Validate(); err != nil {
		return errs.Errorf(errs.KindPush, "invalid refspec %s: %w", refspec, err)
	}

	err := r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []gitconfig.RefSpec{refspec},
		Auth:       r.auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return errs.Errorf(errs.KindPush, "pushing %s: %w", branch, err)
	}

	zerolog.Ctx(ctx).Debug().Str("branch", branch).Msg("pushed branch")
	return nil
}

func (r *repository) Close() error {
	if closer, ok := r.repo.Storer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
