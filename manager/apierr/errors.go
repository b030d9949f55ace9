// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package apierr is the error taxonomy spec.md §7 maps onto the manager's
// REST status codes. Every package that can fail in a way the manager must
// report to an HTTP client returns one of these, rather than an opaque
// error, so writeError (manager/server.go) can map it through HTTPStatus and
// Code without inspecting error strings.
package apierr

import "fmt"

// ValidationError: malformed REST input. Surfaced as HTTP 400.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError: a referenced stub or yang module does not exist. Surfaced
// as HTTP 404.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// ConflictError: e.g. creating a stub id that already exists. Surfaced as
// HTTP 409.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// ForbiddenError: a well-formed request for an operation the target
// doesn't support, e.g. a handler missing a dispatched capability.
// Surfaced as HTTP 403.
type ForbiddenError struct{ Msg string }

func (e *ForbiddenError) Error() string { return e.Msg }

// FatalError: an invariant violation (duplicate list keys, invalid
// protocol tag) rather than a client mistake. Surfaced as HTTP 500 and
// logged with a stack trace by the caller.
type FatalError struct{ Msg string }

func (e *FatalError) Error() string { return e.Msg }

// Newf constructors let callers build a tagged error inline with a
// formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...interface{}) *ForbiddenError {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

func NewFatalError(format string, args ...interface{}) *FatalError {
	return &FatalError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps err to the status code spec.md §7's table assigns its
// kind, defaulting to 500 for anything untagged.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ValidationError:
		return 400
	case *ForbiddenError:
		return 403
	case *NotFoundError:
		return 404
	case *ConflictError:
		return 409
	default:
		return 500
	}
}

// Code names err's taxonomy kind, used to prefix a REST error envelope's
// errorMessage the way the source's control-plane middleware prefixes it
// with the caught exception's class name.
func Code(err error) string {
	switch err.(type) {
	case *ValidationError:
		return "ValidationError"
	case *ForbiddenError:
		return "ForbiddenError"
	case *NotFoundError:
		return "NotFoundError"
	case *ConflictError:
		return "ConflictError"
	case *FatalError:
		return "FatalError"
	default:
		return "FatalError"
	}
}
