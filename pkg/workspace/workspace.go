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

// Package workspace owns the ephemeral local clones a sweep works in.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/git"
	"gitlab.com/tozd/go/errors"
)

const tempPrefix = "cfgsweep-"

// 📁 Workspace is one isolated clone, owned by exactly one pipeline execution
type Workspace struct {
	// Repo is the version-control handle, nil when the clone failed
	Repo git.Repository
	// Path is the checkout directory inside Root
	Path string
	// Root is the process-unique temporary directory removed on release
	Root string
	// Name is the repository display name
	Name string
}

// 🏭 Manager creates and destroys workspaces
type Manager struct {
	cloner  git.Cloner
	tempDir string
}

// Option configures a Manager
type Option func(*Manager)

// WithTempDir places isolation roots under dir instead of the system temp dir
func WithTempDir(dir string) Option {
	return func(m *Manager) {
		m.tempDir = dir
	}
}

// NewManager creates a Manager cloning through cloner
func NewManager(cloner git.Cloner, opts ...Option) *Manager {
	m := &Manager{cloner: cloner}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DisplayName derives a repository name from its clone URL: the final path
// segment with any trailing .git removed.
func DisplayName(cloneURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(cloneURL), "/")
	name := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		name = trimmed[i+1:]
	}
	return strings.TrimSuffix(name, ".git")
}

// Acquire clones cloneURL into a fresh isolation root. When the clone fails the
// partially created workspace is returned alongside the error so the caller
// can release it like any other.
func (m *Manager) Acquire(ctx context.Context, cloneURL string) (*Workspace, error) {
	name := DisplayName(cloneURL)
	if name == "" {
		return nil, errs.Errorf(errs.KindClone, "cannot derive repository name from %q", cloneURL)
	}

	root, err := os.MkdirTemp(m.tempDir, tempPrefix+sanitize(name)+"-")
	if err != nil {
		return nil, errs.Errorf(errs.KindClone, "creating isolation root: %w", err)
	}

	ws := &Workspace{
		Path: filepath.Join(root, name),
		Root: root,
		Name: name,
	}

	repo, err := m.cloner.Clone(ctx, cloneURL, ws.Path)
	if err != nil {
		return ws, errs.New(errs.KindClone, err)
	}
	ws.Repo = repo

	zerolog.Ctx(ctx).Info().Str("repo", name).Str("path", ws.Path).Msg("cloned repository")
	return ws, nil
}

// CreateBranch creates branch from the current checkout and switches to it.
func (m *Manager) CreateBranch(ctx context.Context, ws *Workspace, branch string) error {
	if ws == nil || ws.Repo == nil {
		return errs.Errorf(errs.KindBranch, "workspace has no repository")
	}
	if err := ws.Repo.CreateBranch(ctx, branch); err != nil {
		return errs.New(errs.KindBranch, err)
	}
	return nil
}

// Release closes the repository handle and removes the isolation root. It is
// idempotent and never fails: cleanup problems are logged and dropped.
func (m *Manager) Release(ctx context.Context, ws *Workspace) {
	if ws == nil {
		return
	}
	logger := zerolog.Ctx(ctx)

	if ws.Repo != nil {
		if err := ws.Repo.Close(); err != nil {
			logger.Warn().Err(errs.New(errs.KindCleanup, err)).Str("repo", ws.Name).Msg("closing repository handle")
		}
		ws.Repo = nil
	}

	if ws.Root == "" {
		return
	}

	if err := os.RemoveAll(ws.Root); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(errs.New(errs.KindCleanup, err)).Str("root", ws.Root).Msg("removing workspace")
		return
	}

	logger.Debug().Str("root", ws.Root).Msg("removed workspace")
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == os.PathSeparator || r == '*' {
			return '_'
		}
		return r
	}, name)
}
