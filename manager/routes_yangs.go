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
	"net/http"

	"github.com/netfaker/netfaker/manager/apierr"
	"github.com/netfaker/netfaker/xmltree"
)

// yangView is the JSON shape GET /yangs[/{id}] returns: the compiled
// schema tree serialized to XML text, identified by module-set id.
type yangView struct {
	ID   string `json:"id"`
	Tree string `json:"tree"`
}

// listYangs handles GET /yangs[?id=...].
func (s *Server) listYangs(w http.ResponseWriter, r *http.Request) {
	wanted := r.URL.Query()["id"]
	var want map[string]bool
	if len(wanted) > 0 {
		want = make(map[string]bool, len(wanted))
		for _, id := range wanted {
			want[id] = true
		}
	}

	views := make([]yangView, 0)
	for _, id := range s.Yangs.List() {
		if want != nil && !want[id] {
			continue
		}
		tree, ok := s.Yangs.Get(id)
		if !ok {
			continue
		}
		views = append(views, yangView{ID: id, Tree: xmltree.ToString(tree.RootElement())})
	}
	writeJSON(w, http.StatusOK, views)
}

// getYang handles GET /yangs/{id}.
func (s *Server) getYang(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	tree, ok := s.Yangs.Get(id)
	if !ok {
		writeError(w, apierr.NewNotFoundError("yang module %q does not exist", id))
		return
	}
	writeJSON(w, http.StatusOK, yangView{ID: id, Tree: xmltree.ToString(tree.RootElement())})
}
