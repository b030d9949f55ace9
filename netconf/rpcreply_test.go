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

package netconf

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/netfaker/netfaker/xmltree"
)

// assertExactXML fails t with a unified line diff when got != want, rather
// than just printing both strings, since a single-character attribute
// mismatch is easy to miss by eye in a long rpc-reply line.
func assertExactXML(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		t.Fatalf("want %q, got %q (diff failed: %v)", want, got, err)
	}
	t.Fatalf("rpc-reply mismatch:\n%s", diff)
}

func TestCreateOKReplyExactXML(t *testing.T) {
	reply := CreateOKReply("7")
	assertExactXML(t, `<rpc-reply xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" message-id="7"><ok/></rpc-reply>`, xmltree.ToString(reply))
}

func TestCreateErrorReplyDefaultsMessage(t *testing.T) {
	reply := CreateErrorReply("7", "")
	want := `<rpc-reply xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" message-id="7">` +
		`<rpc-error xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">` +
		`<error-type xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">protocol</error-type>` +
		`<error-tag xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">operation-failed</error-tag>` +
		`<error-severity xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">error</error-severity>` +
		`<error-message xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">syntax error</error-message>` +
		`<error-info xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"/></rpc-error></rpc-reply>`
	assertExactXML(t, want, xmltree.ToString(reply))
}
