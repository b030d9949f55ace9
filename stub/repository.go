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

package stub

import (
	"fmt"
	"sort"
	"sync"
)

// Repository is the in-memory collection of every stub a running netfakerd
// knows about, grounded on stub_infrastructure.py's Repository: every method
// returns or stores a Clone so callers never alias another caller's copy.
type Repository struct {
	mu    sync.RWMutex
	stubs map[string]*Stub
}

// NewRepository returns an empty Repository.
func NewRepository() *Repository {
	return &Repository{stubs: map[string]*Stub{}}
}

// Get returns a copy of the stub with the given id, or false if none exists.
func (r *Repository) Get(id string) (*Stub, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stubs[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// List returns a copy of every stub, sorted by id. When ids is non-empty,
// only matching stubs are returned.
func (r *Repository) List(ids ...string) []*Stub {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var wanted map[string]bool
	if len(ids) > 0 {
		wanted = make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
	}

	out := make([]*Stub, 0, len(r.stubs))
	for id, s := range r.stubs {
		if wanted != nil && !wanted[id] {
			continue
		}
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Add inserts new stubs, failing without adding any of them if one already
// exists.
func (r *Repository) Add(stubs ...*Stub) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range stubs {
		if _, exists := r.stubs[s.ID]; exists {
			return fmt.Errorf("stub: %q already exists", s.ID)
		}
	}
	for _, s := range stubs {
		r.stubs[s.ID] = s.Clone()
	}
	return nil
}

// Save upserts stubs unconditionally, whether or not they already exist.
func (r *Repository) Save(stubs ...*Stub) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range stubs {
		r.stubs[s.ID] = s.Clone()
	}
}

// Update replaces existing stubs, failing without updating any of them if
// one does not exist.
func (r *Repository) Update(stubs ...*Stub) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range stubs {
		if _, exists := r.stubs[s.ID]; !exists {
			return fmt.Errorf("stub: %q does not exist", s.ID)
		}
	}
	for _, s := range stubs {
		r.stubs[s.ID] = s.Clone()
	}
	return nil
}

// Remove deletes stubs by id, failing without removing any of them if one
// does not exist.
func (r *Repository) Remove(ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, exists := r.stubs[id]; !exists {
			return fmt.Errorf("stub: %q does not exist", id)
		}
	}
	for _, id := range ids {
		delete(r.stubs, id)
	}
	return nil
}

// RemoveAll empties the repository, used before a full declarative reload.
func (r *Repository) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs = map[string]*Stub{}
}
