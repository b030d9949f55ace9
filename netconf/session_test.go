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
	"strings"
	"testing"

	"github.com/openconfig/gnmi/errdiff"

	"github.com/netfaker/netfaker/stub"
	"github.com/netfaker/netfaker/xmltree"
	"github.com/netfaker/netfaker/yangschema"
)

const testModule = `
module test-net {
  namespace "urn:test-net";
  prefix t;

  container interfaces {
    list interface {
      key "name";
      leaf name {
        type string;
      }
      container config {
        leaf description {
          type string;
        }
      }
    }
  }
}
`

func buildTestTree(t *testing.T) *yangschema.Tree {
	t.Helper()
	b := yangschema.NewBuilder()
	b.AddYang("test-net.yang", testModule)
	tree, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func newStub(t *testing.T) *stub.Stub {
	t.Helper()
	return stub.New("s0", "test device", "junos", "test-net", true)
}

func TestExecuteEditConfigThenGetConfigReturnsFilteredRunning(t *testing.T) {
	tree := buildTestTree(t)
	s := newStub(t)
	svc := NewService(tree)

	editRPC := `<rpc message-id="1">
		<edit-config>
			<target><candidate/></target>
			<config>
				<interfaces>
					<interface>
						<name>xe-0/0/0</name>
						<config><description>uplink</description></config>
					</interface>
				</interfaces>
			</config>
		</edit-config>
	</rpc>`
	reply, err := svc.Execute(s, editRPC)
	if err != nil {
		t.Fatalf("Execute edit-config: %v", err)
	}
	if !strings.Contains(reply, "<ok/>") {
		t.Fatalf("expected <ok/> reply, got %s", reply)
	}

	commitRPC := `<rpc message-id="2"><commit/></rpc>`
	if _, err := svc.Execute(s, commitRPC); err != nil {
		t.Fatalf("Execute commit: %v", err)
	}

	getRPC := `<rpc message-id="3"><get-config><source><running/></source></get-config></rpc>`
	reply, err = svc.Execute(s, getRPC)
	if err != nil {
		t.Fatalf("Execute get-config: %v", err)
	}
	if !strings.Contains(reply, "xe-0/0/0") || !strings.Contains(reply, "uplink") {
		t.Fatalf("expected committed config in reply, got %s", reply)
	}
	if strings.Contains(reply, "node_type") {
		t.Fatalf("reply leaked node_type bookkeeping attribute: %s", reply)
	}
}

func TestExecuteEditConfigUnknownNodeProducesRPCError(t *testing.T) {
	tree := buildTestTree(t)
	s := newStub(t)
	svc := NewService(tree)

	rpc := `<rpc message-id="1">
		<edit-config>
			<target><candidate/></target>
			<config><bogus/></config>
		</edit-config>
	</rpc>`
	reply, err := svc.Execute(s, rpc)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(reply, `<rpc-error xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">`) {
		t.Fatalf("expected rpc-error reply, got %s", reply)
	}
	if !strings.Contains(reply, "operation-failed") {
		t.Fatalf("expected operation-failed error-tag, got %s", reply)
	}
}

func TestExecuteDiscardChangesResetsCandidate(t *testing.T) {
	tree := buildTestTree(t)
	s := newStub(t)
	svc := NewService(tree)

	editRPC := `<rpc message-id="1">
		<edit-config>
			<target><candidate/></target>
			<config><interfaces><interface><name>xe-0/0/1</name></interface></interfaces></config>
		</edit-config>
	</rpc>`
	if _, err := svc.Execute(s, editRPC); err != nil {
		t.Fatalf("Execute edit-config: %v", err)
	}

	if _, err := svc.Execute(s, `<rpc message-id="2"><discard-changes/></rpc>`); err != nil {
		t.Fatalf("Execute discard-changes: %v", err)
	}

	reply, err := svc.Execute(s, `<rpc message-id="3"><get-config><source><candidate/></source></get-config></rpc>`)
	if err != nil {
		t.Fatalf("Execute get-config: %v", err)
	}
	if strings.Contains(reply, "xe-0/0/1") {
		t.Fatalf("discard-changes did not reset candidate: %s", reply)
	}
}

func TestExecuteHardErrors(t *testing.T) {
	tests := []struct {
		name             string
		rpc              string
		wantErrSubstring string
	}{
		{
			name:             "unsupported protocol operation",
			rpc:              `<rpc message-id="1"><close-session/></rpc>`,
			wantErrSubstring: "not supported",
		},
		{
			name:             "missing message-id",
			rpc:              `<rpc><get/></rpc>`,
			wantErrSubstring: "message-id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildTestTree(t)
			s := newStub(t)
			svc := NewService(tree)
			_, err := svc.Execute(s, tt.rpc)
			if diff := errdiff.Substring(err, tt.wantErrSubstring); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestExecuteLockIsAdvisoryNoOp(t *testing.T) {
	tree := buildTestTree(t)
	s := newStub(t)
	svc := NewService(tree)
	reply, err := svc.Execute(s, `<rpc message-id="1"><lock><target><candidate/></target></lock></rpc>`)
	if err != nil {
		t.Fatalf("Execute lock: %v", err)
	}
	if !strings.Contains(reply, "<ok/>") {
		t.Fatalf("expected <ok/> reply, got %s", reply)
	}
}

func TestCreateErrorReplyEchoesMessageID(t *testing.T) {
	reply := CreateErrorReply("42", "boom")
	if got, _ := reply.Attr("message-id"); got != "42" {
		t.Fatalf("message-id = %q, want 42", got)
	}
	s := xmltree.ToString(reply)
	if !strings.Contains(s, "boom") {
		t.Fatalf("error message missing from reply: %s", s)
	}
}
