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

package yangschema

import "fmt"

// YangError is raised at build time for an unresolved grouping or import —
// a build-time failure, not surfaced again once the tree has built
// successfully (spec.md §7: "non-fatal at runtime").
type YangError struct {
	msg string
}

func (e *YangError) Error() string { return e.msg }

func yangErrorf(format string, args ...interface{}) *YangError {
	return &YangError{msg: fmt.Sprintf(format, args...)}
}

// UnknownNodeError is raised when a schema lookup (Node.Child) finds no
// matching container/list/leaf/leaf-list/case child.
type UnknownNodeError struct {
	Path string
	Name string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("YANG node %q is not defined in %q", e.Name, e.Path)
}
