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

package configstore

import (
	"github.com/netfaker/netfaker/internal/errs"
	"github.com/netfaker/netfaker/xmltree"
	"github.com/netfaker/netfaker/yangschema"
)

// ValidateDatastore confirms every element of the named datastore resolves
// against tree, recursively.
func (s *Store) ValidateDatastore(tree *yangschema.Tree, ds Datastore) error {
	target, err := s.Get(ds)
	if err != nil {
		return err
	}
	return ValidateConfig(tree, target)
}

// ValidateConfig confirms every element of config resolves against tree,
// without touching any datastore — used to validate the inline <config>
// source of a NETCONF <validate> request. Every invalid element is
// collected, not just the first one encountered, so a caller sees the full
// set of problems with a payload in one pass.
func ValidateConfig(tree *yangschema.Tree, config *xmltree.Element) error {
	if all := validateRec(tree.Root(), config); len(all) > 0 {
		return all
	}
	return nil
}

func validateRec(node *yangschema.Node, config *xmltree.Element) errs.Errors {
	var all errs.Errors
	for _, child := range config.Children {
		childNode, err := node.Child(child.Name)
		if err != nil {
			all = errs.AppendErr(all, err)
			continue
		}
		all = errs.AppendErrs(all, validateRec(childNode, child))
	}
	return all
}

// Commit copies candidate into running.
func (s *Store) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = s.candidate.Copy()
}

// DiscardChanges resets candidate back to the current running content.
func (s *Store) DiscardChanges() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidate = s.running.Copy()
}

// Lock and Unlock are advisory no-ops beyond validating the datastore name:
// resolved Open Question (see DESIGN.md) — every request against a stub
// already serializes through this Store's own mutex, so there is no
// second, longer-lived critical section left for a NETCONF <lock>/<unlock>
// session to arbitrate.
func (s *Store) Lock(ds Datastore) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.get(ds)
	return err
}

func (s *Store) Unlock(ds Datastore) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.get(ds)
	return err
}
