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

// Package manager is the REST control boundary spec.md §6 describes: stub
// CRUD, declarative reload, protocol dispatch, and compiled-yang lookup.
// Grounded on interface/manager_interface.py's Server and StubView.
package manager

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	log "github.com/golang/glog"
	"github.com/spf13/afero"

	"github.com/netfaker/netfaker/dispatch"
	"github.com/netfaker/netfaker/manager/apierr"
	"github.com/netfaker/netfaker/stub"
)

// Server holds the dependencies every route handler needs: the stub and
// yang-tree repositories dispatch.Dispatcher itself uses, plus the project
// directory's declarative stub file for :reload.
type Server struct {
	Stubs      *stub.Repository
	Yangs      *dispatch.YangTreeRepository
	Dispatcher *dispatch.Dispatcher

	// Fs and StubsYAMLPath locate /stubs/stubs.yaml for :reload. Fs is an
	// afero.Fs rather than bare os calls so this route is unit-testable
	// against afero.NewMemMapFs() without touching a real filesystem.
	Fs            afero.Fs
	StubsYAMLPath string
}

// NewServer returns a Server with its route table installed.
func NewServer(stubs *stub.Repository, yangs *dispatch.YangTreeRepository, dispatcher *dispatch.Dispatcher, fs afero.Fs, stubsYAMLPath string) *Server {
	return &Server{
		Stubs:         stubs,
		Yangs:         yangs,
		Dispatcher:    dispatcher,
		Fs:            fs,
		StubsYAMLPath: stubsYAMLPath,
	}
}

// Handler builds the http.Handler serving spec.md §6's full route table.
func (s *Server) Handler() http.Handler {
	r := NewRouter()
	r.Handle(http.MethodPost, "/stubs", s.createStub)
	r.Handle(http.MethodGet, "/stubs", s.listStubs)
	r.Handle(http.MethodPost, "/stubs:reload", s.reloadStubs)
	r.Handle(http.MethodPost, "/stubs/{id}:handle", s.handleDispatch)
	r.Handle(http.MethodGet, "/stubs/{id}/{property}", s.getStubProperty)
	r.Handle(http.MethodGet, "/stubs/{id}", s.getStub)
	r.Handle(http.MethodPatch, "/stubs/{id}", s.updateStub)
	r.Handle(http.MethodDelete, "/stubs/{id}", s.deleteStub)
	r.Handle(http.MethodGet, "/yangs", s.listYangs)
	r.Handle(http.MethodGet, "/yangs/{id}", s.getYang)
	return loggingMiddleware(r)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Infof("manager: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// errorEnvelope is the {errorCode, errorMessage, moreInfo} body spec.md §6
// mandates for every non-2xx response.
type errorEnvelope struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	MoreInfo     string `json:"moreInfo,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("manager: encoding response: %v", err)
	}
}

// writeError converts err to the REST error envelope, logging a stack trace
// for anything that lands as a 500 per spec.md §7's "logged with a stack"
// requirement for FatalError.
func writeError(w http.ResponseWriter, err error) {
	status := apierr.HTTPStatus(err)
	code := apierr.Code(err)
	if status >= 500 {
		log.Errorf("manager: %s: %+v\n%s", code, err, debug.Stack())
	}
	writeJSON(w, status, errorEnvelope{ErrorCode: code, ErrorMessage: code + ": " + err.Error()})
}
