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
	"encoding/json"

	"github.com/netfaker/netfaker/xmltree"
	"github.com/netfaker/netfaker/yangschema"
)

// EditConfig applies request against the named datastore, staging into a
// working copy so that any failure leaves the datastore untouched
// (spec.md §4.2: "Any failure during edit-config leaves the target
// datastore unchanged"). request's direct children are each one top-level
// edit-config element; this generalizes stub_domain.py's edit_config,
// which only ever applied request_config's first child — the original
// NETCONF <config> element legitimately carries more than one top-level
// node, and spec.md does not restrict this to one.
func (s *Store) EditConfig(ds Datastore, tree *yangschema.Tree, request *xmltree.Element, defaultOperation string) error {
	switch defaultOperation {
	case "merge", "replace", "none":
	default:
		return newEditConfigError(KindInvalidOperation, "", "invalid default-operation: %q", defaultOperation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base, err := s.get(ds)
	if err != nil {
		return err
	}

	working := base.Copy()
	root := tree.Root()
	for _, reqChild := range request.Children {
		if err := editConfigRec(root, working, reqChild, defaultOperation); err != nil {
			return err
		}
	}
	deleteEmptyContainers(working)
	s.set(ds, working)
	return nil
}

func editConfigRec(node *yangschema.Node, targetConfig, requestConfig *xmltree.Element, defaultOperation string) error {
	childNode, err := node.Child(requestConfig.Name)
	if err != nil {
		return err
	}

	operation, ok := requestConfig.Attr("operation")
	if !ok || operation == "" {
		operation = defaultOperation
	}

	choiceIDs := childNode.ChoiceIDs()
	if len(choiceIDs) > 0 {
		dropMismatchedChoices(targetConfig, choiceIDs)
	}

	switch childNode.Kind() {
	case "container":
		return editContainer(childNode, targetConfig, requestConfig, operation, defaultOperation, choiceIDs)
	case "list":
		return editList(childNode, targetConfig, requestConfig, operation, defaultOperation, choiceIDs)
	case "leaf-list":
		return editLeafList(childNode, targetConfig, requestConfig, operation, choiceIDs)
	case "leaf":
		return editLeaf(childNode, targetConfig, requestConfig, operation, choiceIDs)
	default:
		return newEditConfigError(KindFatal, requestConfig.Path(), "invalid node kind %q", childNode.Kind())
	}
}

// dropMismatchedChoices deletes direct children of targetConfig whose
// stored choice_ids disagree with choiceIDs on their common prefix: once a
// case within a choice is set, a sibling from a different case is no
// longer valid and must be evicted (spec.md's choice exclusivity
// invariant).
func dropMismatchedChoices(targetConfig *xmltree.Element, choiceIDs []yangschema.ChoiceID) {
	for _, child := range append([]*xmltree.Element{}, targetConfig.Children...) {
		raw, ok := child.Attr("choice_ids")
		if !ok || raw == "" {
			continue
		}
		var existing []yangschema.ChoiceID
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			continue
		}
		if !choiceIDPrefixEqual(existing, choiceIDs) {
			child.Delete()
		}
	}
}

func choiceIDPrefixEqual(a, b []yangschema.ChoiceID) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stampChoiceIDs(el *xmltree.Element, choiceIDs []yangschema.ChoiceID) {
	if len(choiceIDs) == 0 {
		return
	}
	raw, err := json.Marshal(choiceIDs)
	if err != nil {
		return
	}
	el.SetAttr("choice_ids", string(raw), false)
}

func editContainer(childNode *yangschema.Node, targetConfig, requestConfig *xmltree.Element, operation, defaultOperation string, choiceIDs []yangschema.ChoiceID) error {
	if operation == "replace" {
		for _, r := range targetConfig.ChildrenNamed(requestConfig.Name) {
			r.Delete()
		}
	}

	results := targetConfig.ChildrenNamed(requestConfig.Name)

	switch operation {
	case "create", "merge", "replace", "none":
		var child *xmltree.Element
		if len(results) == 0 {
			child = xmltree.NewSub(targetConfig, requestConfig.Name, childNode.Namespace())
			child.SetAttr("node_type", "container", false)
			stampChoiceIDs(child, choiceIDs)
		} else {
			if operation == "create" {
				return newEditConfigError(KindAlreadyExists, requestConfig.Path(), "already exists")
			}
			child = results[0]
		}
		for _, reqChild := range requestConfig.Children {
			if err := editConfigRec(childNode, child, reqChild, defaultOperation); err != nil {
				return err
			}
		}
		return nil

	case "delete", "remove":
		if len(results) == 0 {
			if operation == "remove" {
				return nil
			}
			return newEditConfigError(KindNotExists, requestConfig.Path(), "does not exist")
		}
		results[0].Delete()
		return nil

	default:
		return newEditConfigError(KindInvalidOperation, requestConfig.Path(), "invalid operation: %q", operation)
	}
}

func editList(childNode *yangschema.Node, targetConfig, requestConfig *xmltree.Element, operation, defaultOperation string, choiceIDs []yangschema.ChoiceID) error {
	if operation == "replace" {
		for _, r := range targetConfig.ChildrenNamed(requestConfig.Name) {
			r.Delete()
		}
	}

	if (operation == "delete" || operation == "remove") && len(requestConfig.Children) == 0 {
		results := targetConfig.ChildrenNamed(requestConfig.Name)
		if len(results) == 0 {
			if operation == "remove" {
				return nil
			}
			return newEditConfigError(KindNotExists, requestConfig.Path(), "not found")
		}
		for _, r := range results {
			r.Delete()
		}
		return nil
	}

	keys, err := childNode.Keys()
	if err != nil {
		return err
	}

	keyTexts := make(map[string]*string, len(keys))
	for _, k := range keys {
		kEl, ok := requestConfig.Child(k)
		if !ok {
			return newEditConfigError(KindMissingKey, requestConfig.Path(), "must have key %q", k)
		}
		if kEl.HasText {
			text := kEl.Text
			keyTexts[k] = &text
		} else {
			keyTexts[k] = nil
		}
	}

	var matches []*xmltree.Element
	for _, cand := range targetConfig.ChildrenNamed(requestConfig.Name) {
		if listItemMatchesKeys(cand, keys, keyTexts) {
			matches = append(matches, cand)
		}
	}

	switch operation {
	case "create", "merge", "replace", "none":
		var child *xmltree.Element
		switch len(matches) {
		case 0:
			child = xmltree.NewSub(targetConfig, requestConfig.Name, childNode.Namespace())
			child.SetAttr("node_type", "list", false)
			stampChoiceIDs(child, choiceIDs)
		case 1:
			if operation == "create" {
				return newEditConfigError(KindAlreadyExists, requestConfig.Path(), "already exists")
			}
			child = matches[0]
		default:
			return newEditConfigError(KindFatal, requestConfig.Path(), "list nodes with same keys exist")
		}
		for _, reqChild := range requestConfig.Children {
			if err := editConfigRec(childNode, child, reqChild, defaultOperation); err != nil {
				return err
			}
		}
		return nil

	case "delete", "remove":
		if len(matches) == 0 {
			if operation == "remove" {
				return nil
			}
			return newEditConfigError(KindNotExists, requestConfig.Path(), "does not exist")
		}
		matches[0].Delete()
		return nil

	default:
		return newEditConfigError(KindInvalidOperation, requestConfig.Path(), "invalid operation: %q", operation)
	}
}

func listItemMatchesKeys(cand *xmltree.Element, keys []string, keyTexts map[string]*string) bool {
	for _, k := range keys {
		ck, ok := cand.Child(k)
		if !ok {
			return false
		}
		want := keyTexts[k]
		if want == nil {
			if ck.HasText {
				return false
			}
			continue
		}
		if !ck.HasText || ck.Text != *want {
			return false
		}
	}
	return true
}

func editLeafList(childNode *yangschema.Node, targetConfig, requestConfig *xmltree.Element, operation string, choiceIDs []yangschema.ChoiceID) error {
	matches := targetConfig.ChildrenNamed(requestConfig.Name)
	var sameText []*xmltree.Element
	for _, m := range matches {
		if m.HasText == requestConfig.HasText && m.Text == requestConfig.Text {
			sameText = append(sameText, m)
		}
	}

	switch operation {
	case "create", "merge", "replace", "none":
		if len(sameText) != 0 {
			if operation == "create" {
				return newEditConfigError(KindAlreadyExists, requestConfig.Path(), "already exists")
			}
			sameText[0].Delete()
		}
		child := xmltree.NewSub(targetConfig, requestConfig.Name, childNode.Namespace())
		child.SetAttr("node_type", "leaf-list", false)
		stampChoiceIDs(child, choiceIDs)
		child.Text, child.HasText = requestConfig.Text, requestConfig.HasText
		return nil

	case "delete", "remove":
		if len(sameText) == 0 {
			if operation == "remove" {
				return nil
			}
			return newEditConfigError(KindNotExists, requestConfig.Path(), "%q does not exist", requestConfig.Text)
		}
		sameText[0].Delete()
		return nil

	default:
		return newEditConfigError(KindInvalidOperation, requestConfig.Path(), "invalid operation: %q", operation)
	}
}

func editLeaf(childNode *yangschema.Node, targetConfig, requestConfig *xmltree.Element, operation string, choiceIDs []yangschema.ChoiceID) error {
	switch operation {
	case "create", "merge", "replace", "none":
		results := targetConfig.ChildrenNamed(requestConfig.Name)
		if len(results) != 0 {
			if operation == "create" {
				return newEditConfigError(KindAlreadyExists, requestConfig.Path(), "already exists")
			}
			results[0].Delete()
		}
		child := xmltree.NewSub(targetConfig, requestConfig.Name, childNode.Namespace())
		child.SetAttr("node_type", "leaf", false)
		stampChoiceIDs(child, choiceIDs)
		child.Text, child.HasText = requestConfig.Text, requestConfig.HasText
		return nil

	case "delete", "remove":
		if requestConfig.HasText {
			return newEditConfigError(KindInvalidOperation, requestConfig.Path(), "must not have text %q for delete operation", requestConfig.Text)
		}
		results := targetConfig.ChildrenNamed(requestConfig.Name)
		if len(results) == 0 {
			if operation == "remove" {
				return nil
			}
			return newEditConfigError(KindNotExists, requestConfig.Path(), "does not exist")
		}
		results[0].Delete()
		return nil

	default:
		return newEditConfigError(KindInvalidOperation, requestConfig.Path(), "invalid operation: %q", operation)
	}
}

// deleteEmptyContainers removes every container anywhere in root that
// carries no leaf/leaf-list descendant, computed once over the edited
// working tree so that nested empty containers are all caught in a single pass
// (mirroring Entity._delete_empty_containers's single xpath query).
func deleteEmptyContainers(root *xmltree.Element) {
	var empties []*xmltree.Element
	var walk func(*xmltree.Element)
	walk = func(el *xmltree.Element) {
		for _, c := range el.Children {
			walk(c)
		}
		if el.IsEmptyContainer() {
			empties = append(empties, el)
		}
	}
	walk(root)
	for _, el := range empties {
		el.Delete()
	}
}
