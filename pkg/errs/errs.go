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

// Package errs classifies the failures a sweep can run into.
package errs

import (
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind identifies which step of a sweep failed
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindClone
	KindBranch
	KindPattern
	KindCommit
	KindPush
	KindPullRequestTransport
	KindReviewerRequest
	KindCleanup
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindClone:
		return "CloneError"
	case KindBranch:
		return "BranchError"
	case KindPattern:
		return "PatternError"
	case KindCommit:
		return "CommitError"
	case KindPush:
		return "PushError"
	case KindPullRequestTransport:
		return "PrRequestError"
	case KindReviewerRequest:
		return "ReviewerRequestFailure"
	case KindCleanup:
		return "CleanupError"
	default:
		return "Error"
	}
}

// ❌ Error is a failure tagged with the step that produced it
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 🏭 New tags err with kind. A nil err yields nil and an err already carrying
// kind is returned unchanged.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) == kind {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// Errorf formats a message and tags it with kind.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

// 🔍 KindOf returns the kind of the outermost tagged error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
