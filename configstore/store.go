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

// Package configstore holds one stub's candidate/running/startup
// configuration datastores and implements the NETCONF-semantic operations
// spec.md §4.2 describes against them: edit-config, get-config with
// subtree filtering, validate, commit, discard-changes, lock/unlock.
package configstore

import (
	"sync"

	"github.com/netfaker/netfaker/xmltree"
)

// Datastore names one of the three configuration datastores.
type Datastore string

const (
	Candidate Datastore = "candidate"
	Running   Datastore = "running"
	Startup   Datastore = "startup"
)

// Store holds the three datastores for a single stub. All access is
// copy-on-read/copy-on-write, mirroring Entity.get_candidate_config /
// Entity.set_candidate_config in stub_domain.py, and a Store is safe for
// concurrent use by the dispatch package's request handlers.
type Store struct {
	mu sync.RWMutex

	candidate *xmltree.Element
	running   *xmltree.Element
	startup   *xmltree.Element
}

// NewStore returns a Store with all three datastores initialized to an
// empty "<root/>" document, matching Entity.__init__.
func NewStore() *Store {
	return &Store{
		candidate: xmltree.New("root", ""),
		running:   xmltree.New("root", ""),
		startup:   xmltree.New("root", ""),
	}
}

func (s *Store) get(ds Datastore) (*xmltree.Element, error) {
	switch ds {
	case Candidate:
		return s.candidate, nil
	case Running:
		return s.running, nil
	case Startup:
		return s.startup, nil
	default:
		return nil, newEditConfigError(KindInvalidDatastore, "", "invalid datastore: %q", ds)
	}
}

func (s *Store) set(ds Datastore, config *xmltree.Element) {
	switch ds {
	case Candidate:
		s.candidate = config
	case Running:
		s.running = config
	case Startup:
		s.startup = config
	}
}

// Get returns a deep copy of the named datastore's raw, annotated tree
// (node_type/choice_ids attributes included).
func (s *Store) Get(ds Datastore) (*xmltree.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, err := s.get(ds)
	if err != nil {
		return nil, err
	}
	return el.Copy(), nil
}

// Set replaces the named datastore wholesale with a deep copy of config.
func (s *Store) Set(ds Datastore, config *xmltree.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(ds); err != nil {
		return err
	}
	s.set(ds, config.Copy())
	return nil
}

// Clone returns a Store holding deep copies of all three datastores,
// mirroring stub_infrastructure.py's copy.deepcopy(entity) on every
// list/get/save: a caller that mutates the clone (an in-progress
// edit-config that may still fail validation, a handler that errors before
// its result is saved) cannot affect the original Store's datastores.
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Store{
		candidate: s.candidate.Copy(),
		running:   s.running.Copy(),
		startup:   s.startup.Copy(),
	}
}
