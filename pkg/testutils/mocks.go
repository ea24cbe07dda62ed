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

// Package testutils holds testify mocks shared by package tests.
package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/cfgsweep/pkg/git"
	"github.com/walteh/cfgsweep/pkg/remote"
)

// 🔧 MockRepository is a mock implementation of git.Repository
type MockRepository struct {
	mock.Mock
}

var _ git.Repository = (*MockRepository)(nil)

func (m *MockRepository) CreateBranch(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockRepository) StageAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRepository) Commit(ctx context.Context, message string, author git.Identity) (string, error) {
	result := m.Called(ctx, message, author)
	return result.String(0), result.Error(1)
}

func (m *MockRepository) Push(ctx context.Context, branch string) error {
	return m.Called(ctx, branch).Error(0)
}

func (m *MockRepository) Close() error {
	return m.Called().Error(0)
}

// 🔧 MockCloner is a mock implementation of git.Cloner
type MockCloner struct {
	mock.Mock
}

var _ git.Cloner = (*MockCloner)(nil)

func (m *MockCloner) Clone(ctx context.Context, url, dest string) (git.Repository, error) {
	result := m.Called(ctx, url, dest)
	repo, _ := result.Get(0).(git.Repository)
	return repo, result.Error(1)
}

// 🔧 MockHost is a mock implementation of remote.Host
type MockHost struct {
	mock.Mock
}

var _ remote.Host = (*MockHost)(nil)

func (m *MockHost) Name() string {
	return m.Called().String(0)
}

func (m *MockHost) CreatePullRequest(ctx context.Context, req remote.NewPullRequest) (*remote.PullRequest, error) {
	result := m.Called(ctx, req)
	pr, _ := result.Get(0).(*remote.PullRequest)
	return pr, result.Error(1)
}

func (m *MockHost) RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers []string) error {
	return m.Called(ctx, owner, repo, number, reviewers).Error(0)
}
