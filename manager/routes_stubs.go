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
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/netfaker/netfaker/manager/apierr"
	"github.com/netfaker/netfaker/protocolevt"
	"github.com/netfaker/netfaker/stub"
)

// stubRequestBody is the {"stub": {...}} envelope POST/PATCH /stubs bodies
// carry, per spec.md §6.
type stubRequestBody struct {
	Stub struct {
		ID          string                 `json:"id"`
		Description string                 `json:"description"`
		Handler     string                 `json:"handler"`
		Yang        string                 `json:"yang"`
		Enabled     *bool                  `json:"enabled"`
		Metadata    map[string]interface{} `json:"metadata"`
	} `json:"stub"`
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err == io.EOF {
			return apierr.NewValidationError("request body is empty")
		}
		return apierr.NewValidationError("decoding request body: %v", err)
	}
	return nil
}

// createStub handles POST /stubs.
func (s *Server) createStub(w http.ResponseWriter, r *http.Request) {
	var body stubRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Stub.ID == "" {
		writeError(w, apierr.NewValidationError("stub.id is required"))
		return
	}
	if body.Stub.Handler == "" {
		writeError(w, apierr.NewValidationError("stub.handler is required"))
		return
	}

	enabled := true
	if body.Stub.Enabled != nil {
		enabled = *body.Stub.Enabled
	}
	newStub := stub.New(body.Stub.ID, body.Stub.Description, body.Stub.Handler, body.Stub.Yang, enabled)
	if body.Stub.Metadata != nil {
		newStub.Metadata = body.Stub.Metadata
	}

	if err := s.Stubs.Add(newStub); err != nil {
		writeError(w, apierr.NewConflictError("%v", err))
		return
	}

	view, err := newStubView(newStub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// listStubs handles GET /stubs[?id=...].
func (s *Server) listStubs(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query()["id"]
	stubs := s.Stubs.List(ids...)

	views := make([]*StubView, 0, len(stubs))
	for _, st := range stubs {
		view, err := newStubView(st)
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

// getStub handles GET /stubs/{id}.
func (s *Server) getStub(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	st, ok := s.Stubs.Get(id)
	if !ok {
		writeError(w, apierr.NewNotFoundError("stub %q does not exist", id))
		return
	}
	view, err := newStubView(st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// getStubProperty handles GET /stubs/{id}/{property}.
func (s *Server) getStubProperty(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	st, ok := s.Stubs.Get(id)
	if !ok {
		writeError(w, apierr.NewNotFoundError("stub %q does not exist", id))
		return
	}
	view, err := newStubView(st)
	if err != nil {
		writeError(w, err)
		return
	}

	contentType, body, err := stubProperty(view, PathParam(r, "property"))
	if err != nil {
		writeError(w, err)
		return
	}
	if contentType == "application/json" {
		writeJSON(w, http.StatusOK, body)
		return
	}
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, body)
}

// updateStub handles PATCH /stubs/{id}: only fields present in the request
// body are changed.
func (s *Server) updateStub(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	st, ok := s.Stubs.Get(id)
	if !ok {
		writeError(w, apierr.NewNotFoundError("stub %q does not exist", id))
		return
	}

	raw := map[string]json.RawMessage{}
	if err := decodeBody(r, &struct {
		Stub *map[string]json.RawMessage `json:"stub"`
	}{Stub: &raw}); err != nil {
		writeError(w, err)
		return
	}

	if v, ok := raw["description"]; ok {
		if err := json.Unmarshal(v, &st.Description); err != nil {
			writeError(w, apierr.NewValidationError("invalid description: %v", err))
			return
		}
	}
	if v, ok := raw["handler"]; ok {
		if err := json.Unmarshal(v, &st.Handler); err != nil {
			writeError(w, apierr.NewValidationError("invalid handler: %v", err))
			return
		}
	}
	if v, ok := raw["yang"]; ok {
		if err := json.Unmarshal(v, &st.YangID); err != nil {
			writeError(w, apierr.NewValidationError("invalid yang: %v", err))
			return
		}
	}
	if v, ok := raw["enabled"]; ok {
		if err := json.Unmarshal(v, &st.Enabled); err != nil {
			writeError(w, apierr.NewValidationError("invalid enabled: %v", err))
			return
		}
	}
	if v, ok := raw["metadata"]; ok {
		var md map[string]interface{}
		if err := json.Unmarshal(v, &md); err != nil {
			writeError(w, apierr.NewValidationError("invalid metadata: %v", err))
			return
		}
		st.Metadata = md
	}

	if err := s.Stubs.Update(st); err != nil {
		writeError(w, apierr.NewFatalError("%v", err))
		return
	}

	view, err := newStubView(st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// deleteStub handles DELETE /stubs/{id}.
func (s *Server) deleteStub(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	if err := s.Stubs.Remove(id); err != nil {
		writeError(w, apierr.NewNotFoundError("stub %q does not exist", id))
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// reloadStubs handles POST /stubs:reload: rebuild the stub registry
// wholesale from /stubs/stubs.yaml, mirroring
// manager_application.py#reload_stubs.
func (s *Server) reloadStubs(w http.ResponseWriter, r *http.Request) {
	data, err := readFileIfExists(s.Fs, s.StubsYAMLPath)
	if err != nil {
		writeError(w, apierr.NewFatalError("reading %s: %v", s.StubsYAMLPath, err))
		return
	}

	stubs, err := stub.LoadDeclarative(data)
	if err != nil {
		writeError(w, apierr.NewValidationError("%v", err))
		return
	}

	s.Stubs.RemoveAll()
	if err := s.Stubs.Add(stubs...); err != nil {
		writeError(w, apierr.NewFatalError("%v", err))
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// handleDispatch handles POST /stubs/{id}:handle, the protocol dispatch
// entry point stub front-ends call for every session event.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apierr.NewValidationError("reading request body: %v", err))
		return
	}

	ev, err := protocolevt.ParseEvent(body)
	if err != nil {
		writeError(w, apierr.NewValidationError("%v", err))
		return
	}
	ev.StubID = id

	resp, err := s.Dispatcher.Dispatch(ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
