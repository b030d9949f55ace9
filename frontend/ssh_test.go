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

package frontend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeLineSession is an in-memory LineSession for tests: ReadLine replays a
// fixed script, WriteString records everything sent to the client.
type fakeLineSession struct {
	user    string
	lines   []string
	idx     int
	written []string
}

func (s *fakeLineSession) Username() string { return s.user }

func (s *fakeLineSession) WriteString(text string) error {
	s.written = append(s.written, text)
	return nil
}

func (s *fakeLineSession) ReadLine() (string, bool, error) {
	if s.idx >= len(s.lines) {
		return "", false, nil
	}
	line := s.lines[s.idx]
	s.idx++
	return line, true, nil
}

func TestSSHFrontendLoginThenCommands(t *testing.T) {
	managerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sshHandleRequest
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &req)

		var out sshTelnetBody
		switch req.ConnectionStatus {
		case "login":
			out = sshTelnetBody{Output: "banner\n", Prompt: fmt.Sprintf("%s> ", req.Username), State: map[string]interface{}{}}
		case "established":
			out = sshTelnetBody{Output: "ran: " + req.Input + "\n", Prompt: req.Prompt, State: req.State}
		}
		encoded, _ := json.Marshal(out)
		json.NewEncoder(w).Encode(handleResponse{Code: 200, Body: string(encoded)})
	}))
	defer managerSrv.Close()

	f := NewSSHFrontend("s0", NewClient(managerSrv.URL))
	sess := &fakeLineSession{user: "lab", lines: []string{"show version"}}

	if err := f.Serve(sess); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if len(sess.written) != 2 {
		t.Fatalf("got %d writes, want 2: %v", len(sess.written), sess.written)
	}
	if sess.written[0] != "banner\nlab> " {
		t.Fatalf("login write = %q", sess.written[0])
	}
	if sess.written[1] != "ran: show version\nlab> " {
		t.Fatalf("command write = %q", sess.written[1])
	}
}

// fakeRawSession is an in-memory RawSession for tests: ReadUntil replays a
// fixed script of framed chunks.
type fakeRawSession struct {
	chunks  []string
	idx     int
	written []string
}

func (s *fakeRawSession) WriteString(text string) error {
	s.written = append(s.written, text)
	return nil
}

func (s *fakeRawSession) ReadUntil(sep string) (string, bool, error) {
	if s.idx >= len(s.chunks) {
		return "", false, nil
	}
	chunk := s.chunks[s.idx]
	s.idx++
	return chunk, true, nil
}

func TestNetconfFrontendHelloThenCloseSession(t *testing.T) {
	managerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoded, _ := json.Marshal(handleResponse{Code: 200, Body: `<hello xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><capabilities/><session-id>1</session-id></hello>`})
		w.Write(encoded)
	}))
	defer managerSrv.Close()

	f := NewNetconfFrontend("s0", NewClient(managerSrv.URL))
	sess := &fakeRawSession{chunks: []string{
		`<hello xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><capabilities/></hello>`,
		`<rpc message-id="7" xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><close-session/></rpc>`,
	}}

	if err := f.Serve("lab", sess); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if len(sess.written) != 2 {
		t.Fatalf("got %d writes, want 2", len(sess.written))
	}
	if sess.written[1] == "" {
		t.Fatalf("close-session reply is empty")
	}
}
