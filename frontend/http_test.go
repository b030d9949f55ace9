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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFrontendRelaysManagerResponse(t *testing.T) {
	var gotEvent httpHandleRequest
	managerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stubs/s0:handle" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotEvent); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		inner, _ := json.Marshal(innerHTTPBody{Code: 201, Headers: map[string][]string{"x-test": {"yes"}}, Body: strPtr("created")})
		json.NewEncoder(w).Encode(handleResponse{Code: 200, Headers: map[string][]string{"content-type": {"application/json"}}, Body: string(inner)})
	}))
	defer managerSrv.Close()

	f := NewHTTPFrontend("s0", NewClient(managerSrv.URL), false)

	req := httptest.NewRequest(http.MethodPost, "/foo/bar?x=1", nil)
	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, req)

	if rec.Code != 201 {
		t.Fatalf("code = %d, want 201", rec.Code)
	}
	if rec.Body.String() != "created" {
		t.Fatalf("body = %q, want created", rec.Body.String())
	}
	if rec.Header().Get("x-test") != "yes" {
		t.Fatalf("x-test header missing")
	}
	if gotEvent.Protocol != "http" {
		t.Fatalf("protocol = %q, want http", gotEvent.Protocol)
	}
	if gotEvent.Method != http.MethodPost || gotEvent.Path != "/foo/bar" {
		t.Fatalf("method/path = %q %q", gotEvent.Method, gotEvent.Path)
	}
}

func TestHTTPFrontendMarksHTTPS(t *testing.T) {
	var gotEvent httpHandleRequest
	managerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotEvent)
		inner, _ := json.Marshal(innerHTTPBody{Code: 200, Headers: map[string][]string{}, Body: strPtr("ok")})
		json.NewEncoder(w).Encode(handleResponse{Code: 200, Body: string(inner)})
	}))
	defer managerSrv.Close()

	f := NewHTTPFrontend("s0", NewClient(managerSrv.URL), true)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, req)

	if gotEvent.Protocol != "https" {
		t.Fatalf("protocol = %q, want https", gotEvent.Protocol)
	}
}

func strPtr(s string) *string { return &s }
