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
	"fmt"

	"github.com/walteh/cfgsweep/pkg/change"
	"github.com/walteh/cfgsweep/pkg/publish"
	"github.com/walteh/cfgsweep/pkg/workspace"
)

// 🚦 State is a step of the per-repository state machine
type State int

const (
	StatePending State = iota
	StateCloning
	StateBranching
	StateApplying
	StateNoChange
	StatePublishing
	StateDone
	StateError
)

// String returns the upper-case state name
func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateCloning:
		return "CLONING"
	case StateBranching:
		return "BRANCHING"
	case StateApplying:
		return "APPLYING"
	case StateNoChange:
		return "NO_CHANGE"
	case StatePublishing:
		return "PUBLISHING"
	case StateDone:
		return "DONE"
	case StateError:
		return "ERROR"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition can leave s
func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}

// 🎯 Request is everything one sweep applies to every selected repository
type Request struct {
	// Rules are applied in order inside each repository
	Rules []change.Rule
	// Publish configures the commit, branch and pull request
	Publish publish.Request
}

// 🔧 Workspaces acquires, branches and releases repository workspaces
type Workspaces interface {
	Acquire(ctx context.Context, cloneURL string) (*workspace.Workspace, error)
	CreateBranch(ctx context.Context, ws *workspace.Workspace, branch string) error
	Release(ctx context.Context, ws *workspace.Workspace)
}

// 🔧 Applier applies change rules to a checkout
type Applier interface {
	Apply(ctx context.Context, root string, rules []change.Rule) (bool, error)
}

var (
	_ Workspaces = (*workspace.Manager)(nil)
	_ Applier    = (*change.Applicator)(nil)
)
