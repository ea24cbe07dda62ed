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
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfgsweep/pkg/change"
	"github.com/walteh/cfgsweep/pkg/errs"
	"github.com/walteh/cfgsweep/pkg/publish"
	"github.com/walteh/cfgsweep/pkg/remote"
	"github.com/walteh/cfgsweep/pkg/status"
	"github.com/walteh/cfgsweep/pkg/testutils"
	"github.com/walteh/cfgsweep/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

const gradleProperties = "group=com.example\nversion=1.0.0\n"

// 🧪 TestBatch_Run sweeps several repositories through the real workspace
// manager and applicator, with one repository failing to clone.
func TestBatch_Run(t *testing.T) {
	ctx := testContext(t)
	base := t.TempDir()

	const broken = "https://github.com/plugins/broken.git"
	urls := []string{
		"https://github.com/plugins/cdd-plugin-a.git",
		"https://github.com/plugins/cdd-plugin-b.git",
		broken,
		"https://github.com/plugins/cdd-plugin-c.git",
		"https://github.com/plugins/cdd-plugin-d.git",
	}

	repo := &testutils.MockRepository{}
	repo.On("CreateBranch", mock.Anything, "auto/config-update").Return(nil)
	repo.On("Close").Return(nil)

	var active, peak int32
	cloner := &testutils.MockCloner{}
	cloner.On("Clone", mock.Anything, mock.MatchedBy(func(u string) bool { return u != broken }), mock.Anything).
		Run(func(args mock.Arguments) {
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)

			dest := args.String(2)
			require.NoError(t, os.MkdirAll(dest, 0o755), "creating checkout")
			require.NoError(t, os.WriteFile(filepath.Join(dest, "gradle.properties"), []byte(gradleProperties), 0o644), "writing gradle.properties")
		}).
		Return(repo, nil)
	cloner.On("Clone", mock.Anything, broken, mock.Anything).Return(nil, errors.New("repository not found"))

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, testRequest.Publish).
		Run(func(args mock.Arguments) {
			ws := args.Get(1).(*workspace.Workspace)
			content, err := os.ReadFile(filepath.Join(ws.Path, "gradle.properties"))
			require.NoError(t, err, "reading rewritten file")
			assert.Equal(t, "group=com.example\nversion=1.1.0\n", string(content), "file should be rewritten before publish")
		}).
		Return(publish.Outcome{PullRequest: &remote.PullRequest{Number: 1, URL: "https://github.com/plugins/pull/1"}}, nil)

	pipeline := NewPipeline(workspace.NewManager(cloner, workspace.WithTempDir(base)), change.NewApplicator(), pub)

	logger := zerolog.New(zerolog.TestWriter{T: t})
	report := status.New(&logger)

	err := NewBatch(pipeline, report, 2).Run(ctx, urls, testRequest)
	require.NoError(t, err, "Run should succeed")

	assert.Equal(t, len(urls), report.Len(), "every repository should be reported")
	failed := report.Failed()
	require.Len(t, failed, 1, "only the broken repository should fail")
	assert.Equal(t, "broken", failed[0].Repository, "failed repository should match")
	assert.Equal(t, errs.KindClone, errs.KindOf(failed[0].Err), "failure should be a clone error")

	for _, name := range []string{"cdd-plugin-a", "cdd-plugin-b", "cdd-plugin-c", "cdd-plugin-d"} {
		res, ok := report.Get(name)
		require.True(t, ok, "%s should be reported", name)
		assert.Equal(t, "[View PR](https://github.com/plugins/pull/1)", res.Outcome, "%s outcome should match", name)
	}

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2), "worker pool should bound concurrency")
	pub.AssertNumberOfCalls(t, "Publish", 4)
	repo.AssertNumberOfCalls(t, "Close", 4)

	entries, err := os.ReadDir(base)
	require.NoError(t, err, "reading temp dir")
	assert.Empty(t, entries, "every workspace should be released")
}

func TestBatch_RunNoMatch(t *testing.T) {
	ctx := testContext(t)
	base := t.TempDir()

	repo := &testutils.MockRepository{}
	repo.On("CreateBranch", mock.Anything, "auto/config-update").Return(nil)
	repo.On("Close").Return(nil)

	cloner := &testutils.MockCloner{}
	cloner.On("Clone", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.String(2)
			require.NoError(t, os.MkdirAll(dest, 0o755), "creating checkout")
			require.NoError(t, os.WriteFile(filepath.Join(dest, "gradle.properties"), []byte("version=2.0.0\n"), 0o644), "writing file")
		}).
		Return(repo, nil)

	pub := &MockPublisher{}
	report := status.New(nil)
	pipeline := NewPipeline(workspace.NewManager(cloner, workspace.WithTempDir(base)), change.NewApplicator(), pub)

	err := NewBatch(pipeline, report, 0).Run(ctx, []string{"https://github.com/plugins/cdd-plugin-a.git"}, testRequest)
	require.NoError(t, err, "Run should succeed")

	res, ok := report.Get("cdd-plugin-a")
	require.True(t, ok, "result should be recorded")
	assert.Equal(t, status.NoMatchingChanges, res.Outcome, "outcome should match")
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
}

func TestBatch_RunInvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "no_rules", req: Request{Publish: testRequest.Publish}},
		{name: "no_branch", req: Request{Rules: testRequest.Rules}},
		{
			name: "absolute_target",
			req: Request{
				Rules:   []change.Rule{{TargetFile: "/etc/passwd", SearchPattern: "root"}},
				Publish: testRequest.Publish,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &MockWorkspaces{}
			report := status.New(nil)

			err := NewBatch(NewPipeline(w, &MockApplier{}, &MockPublisher{}), report, 5).Run(testContext(t), []string{testURL}, tt.req)
			require.Error(t, err, "Run should reject the request")
			assert.Equal(t, errs.KindConfig, errs.KindOf(err), "error kind should match")
			assert.Zero(t, report.Len(), "nothing should be dispatched")
			w.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
		})
	}
}
