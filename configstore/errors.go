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

package configstore

import "fmt"

// EditConfigErrorKind classifies an EditConfig failure for the manager
// layer's error-taxonomy → transport-status mapping (spec.md §7).
type EditConfigErrorKind string

const (
	KindAlreadyExists    EditConfigErrorKind = "AlreadyExists"
	KindNotExists        EditConfigErrorKind = "NotExists"
	KindInvalidOperation EditConfigErrorKind = "InvalidOperation"
	KindInvalidDatastore EditConfigErrorKind = "InvalidDatastore"
	KindMissingKey       EditConfigErrorKind = "MissingKey"
	KindFatal            EditConfigErrorKind = "FatalError"
)

// EditConfigError is returned by EditConfig and GetConfig filtering.
type EditConfigError struct {
	Kind EditConfigErrorKind
	Path string
	Msg  string
}

func (e *EditConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Path, e.Msg)
}

func newEditConfigError(kind EditConfigErrorKind, path, format string, args ...interface{}) *EditConfigError {
	return &EditConfigError{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}
