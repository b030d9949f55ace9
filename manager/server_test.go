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

package manager

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/netfaker/netfaker/dispatch"
	"github.com/netfaker/netfaker/handlers/junos"
	"github.com/netfaker/netfaker/stub"
	"github.com/netfaker/netfaker/yangschema"
)

const junosTestModule = `
module junos-test {
  namespace "urn:junos-test";
  prefix j;

  container configuration {
    container interfaces {
      list interface {
        key "name";
        leaf name {
          type string;
        }
        list unit {
          key "name";
          leaf name {
            type string;
          }
          container family {
            container inet {
              list address {
                key "name";
                leaf name {
                  type string;
                }
              }
            }
          }
        }
      }
    }
  }
}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := yangschema.NewBuilder()
	b.AddYang("junos-test.yang", junosTestModule)
	tree, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	yangs := dispatch.NewYangTreeRepository()
	yangs.Set("junos-test", tree)

	stubs := stub.NewRepository()
	handlers := dispatch.NewHandlerRegistry()
	handlers.Register("junos", junos.Handler{})

	dispatcher := &dispatch.Dispatcher{Stubs: stubs, Yangs: yangs, Handlers: handlers}
	return NewServer(stubs, yangs, dispatcher, afero.NewMemMapFs(), "/stubs/stubs.yaml")
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchStub(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/stubs", map[string]interface{}{
		"stub": map[string]interface{}{"id": "s0", "handler": "junos"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: code = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created StubView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if created.ID != "s0" {
		t.Fatalf("created.ID = %q, want s0", created.ID)
	}

	rec = doJSON(t, h, http.MethodGet, "/stubs/s0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: code = %d, body = %s", rec.Code, rec.Body.String())
	}
	var fetched StubView
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if fetched.CandidateConfig != "<root/>\n" {
		t.Fatalf("candidateConfig = %q, want <root/>\\n", fetched.CandidateConfig)
	}
}

func TestCreateDuplicateStubIsConflict(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	body := map[string]interface{}{"stub": map[string]interface{}{"id": "s0", "handler": "junos"}}
	rec := doJSON(t, h, http.MethodPost, "/stubs", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("first create: code = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/stubs", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second create: code = %d, want 409", rec.Code)
	}
}

func TestGetUnknownStubIsNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/stubs/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.ErrorCode != "NotFoundError" {
		t.Fatalf("errorCode = %q, want NotFoundError", env.ErrorCode)
	}
}

func TestNetconfEditConfigThenCommitViaHandle(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/stubs", map[string]interface{}{
		"stub": map[string]interface{}{"id": "s1", "handler": "junos", "yang": "junos-test"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	editRPC := `<rpc message-id="1">
		<edit-config>
			<target><candidate/></target>
			<config>
				<configuration>
					<interfaces>
						<interface>
							<name>xe-0/0/1</name>
							<unit>
								<name>10</name>
								<family><inet><address><name>10.0.0.1/24</name></address></inet></family>
							</unit>
						</interface>
					</interfaces>
				</configuration>
			</config>
		</edit-config>
	</rpc>`
	rec = doJSON(t, h, http.MethodPost, "/stubs/s1:handle", map[string]interface{}{
		"protocol": "netconf", "connectionStatus": "established", "rpc": editRPC,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit-config: code = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !strings.Contains(resp.Body, "<ok/>") {
		t.Fatalf("edit-config rpc-reply: %s", resp.Body)
	}

	rec = doJSON(t, h, http.MethodPost, "/stubs/s1:handle", map[string]interface{}{
		"protocol": "netconf", "connectionStatus": "established", "rpc": `<rpc message-id="2"><commit/></rpc>`,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("commit: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/stubs/s1/runningConfig", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get running config: code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "10.0.0.1/24") {
		t.Fatalf("runningConfig missing committed address: %s", rec.Body.String())
	}
}

func TestReloadStubsFromDeclarativeYAML(t *testing.T) {
	s := newTestServer(t)
	doc := "stubs:\n  - id: s0\n    handler: junos\n  - id: s1\n    handler: junos\n    enabled: false\n"
	if err := afero.WriteFile(s.Fs, s.StubsYAMLPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rec := doJSON(t, s.Handler(), http.MethodPost, "/stubs:reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reload: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s.Handler(), http.MethodGet, "/stubs", nil)
	var views []StubView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d stubs, want 2", len(views))
	}
}
