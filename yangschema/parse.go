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

import (
	"fmt"

	"github.com/openconfig/goyang/pkg/yang"
)

// parseModule runs goyang's generic statement parser over one YANG module's
// text. The result is goyang's own pre-resolution statement tree — the
// "YIN" ground truth spec.md §4.1 describes — so that every YANG
// construct (uses/grouping/augment/choice/case resolution included) is
// handled by this package's own build pipeline rather than by goyang's
// higher-level, already-resolved yang.Entry machinery.
func parseModule(name, text string) (*yang.Statement, error) {
	stmt, err := yang.Parse(text, name+".yang")
	if err != nil {
		return nil, fmt.Errorf("parsing YANG module %q: %w", name, err)
	}
	return stmt, nil
}

// childStatement returns the first direct child statement with the given
// keyword.
func childStatement(stmt *yang.Statement, keyword string) (*yang.Statement, bool) {
	for _, c := range stmt.Statements {
		if c.Keyword == keyword {
			return c, true
		}
	}
	return nil, false
}

// childStatements returns every direct child statement with the given
// keyword, in document order.
func childStatements(stmt *yang.Statement, keyword string) []*yang.Statement {
	var out []*yang.Statement
	for _, c := range stmt.Statements {
		if c.Keyword == keyword {
			out = append(out, c)
		}
	}
	return out
}

// childArgument returns the argument of the first direct child statement
// with the given keyword.
func childArgument(stmt *yang.Statement, keyword string) (string, bool) {
	c, ok := childStatement(stmt, keyword)
	if !ok {
		return "", false
	}
	return c.Argument, true
}
