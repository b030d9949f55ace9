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
	"github.com/netfaker/netfaker/xmltree"
	"github.com/netfaker/netfaker/yangschema"
)

// GetConfig returns the named datastore's content, narrowed by a NETCONF
// subtree filter when one is given, with the internal node_type/choice_ids
// bookkeeping attributes stripped before the result reaches a caller.
func (s *Store) GetConfig(ds Datastore, tree *yangschema.Tree, filter *xmltree.Element) (*xmltree.Element, error) {
	s.mu.RLock()
	base, err := s.get(ds)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	target := base.Copy()
	s.mu.RUnlock()

	if filter != nil {
		if err := filterConfig(tree.Root(), target, filter); err != nil {
			return nil, err
		}
	}

	target.DeleteAttr("node_type", true)
	target.DeleteAttr("choice_ids", true)
	return target, nil
}

// filterConfig marks the elements a subtree filter selects as visible,
// propagates that visibility down to every descendant and up to every
// ancestor, deletes everything left unmarked, then clears the bookkeeping
// attribute — mirroring stub_domain.py's _filter_config pipeline exactly.
func filterConfig(node *yangschema.Node, targetConfig, filter *xmltree.Element) error {
	if err := setVisibleFlagRec(node, targetConfig, filter); err != nil {
		return err
	}
	propagateVisible(targetConfig)
	deleteNonVisible(targetConfig)
	targetConfig.DeleteAttr("_visible", true)
	return nil
}

func setVisibleFlagRec(parentNode *yangschema.Node, parentTarget, parentFilter *xmltree.Element) error {
	for _, filterEl := range parentFilter.Children {
		childNode, err := parentNode.Child(filterEl.Name)
		if err != nil {
			return err
		}

		switch childNode.Kind() {
		case "container":
			results := parentTarget.ChildrenNamed(filterEl.Name)
			if len(results) == 0 {
				continue
			}
			targetEl := results[0]
			if len(filterEl.Children) == 0 {
				targetEl.SetAttr("_visible", "true", false)
				continue
			}
			if err := setVisibleFlagRec(childNode, targetEl, filterEl); err != nil {
				return err
			}

		case "list":
			if err := setVisibleFlagList(childNode, parentTarget, filterEl); err != nil {
				return err
			}

		case "leaf-list":
			results := parentTarget.ChildrenNamed(filterEl.Name)
			if len(results) == 0 {
				continue
			}
			if filterEl.HasText {
				return newEditConfigError(KindInvalidOperation, filterEl.Path(), "text is forbidden for leaf-list node filter")
			}
			results[0].SetAttr("_visible", "true", false)

		case "leaf":
			results := parentTarget.ChildrenNamed(filterEl.Name)
			if len(results) == 0 {
				continue
			}
			targetEl := results[0]
			if !filterEl.HasText || filterEl.Text == targetEl.Text {
				targetEl.SetAttr("_visible", "true", false)
			}
		}
	}
	return nil
}

func setVisibleFlagList(childNode *yangschema.Node, parentTarget, filterEl *xmltree.Element) error {
	targets := parentTarget.ChildrenNamed(filterEl.Name)
	if len(targets) == 0 {
		return nil
	}
	if len(filterEl.Children) == 0 {
		for _, t := range targets {
			t.SetAttr("_visible", "true", false)
		}
		return nil
	}

	keys, err := childNode.Keys()
	if err != nil {
		return err
	}

	keysAreMatchNodes := false
	for _, k := range keys {
		if fk, ok := filterEl.Child(k); ok && fk.HasText {
			keysAreMatchNodes = true
			break
		}
	}

	if !keysAreMatchNodes {
		// Keys named in the filter carry no text: they select "any value",
		// so every candidate with this tag participates.
		for _, targetEl := range targets {
			nonKeyFilters := nonKeyChildren(filterEl, keys)
			if err := setVisibleFlagRec(childNode, targetEl, filterEl); err != nil {
				return err
			}
			if len(nonKeyFilters) > 0 {
				clearIfNotVisible(targetEl, keys)
			}
		}
		return nil
	}

	var matches []*xmltree.Element
	for _, cand := range targets {
		match := true
		for _, k := range keys {
			fk, _ := filterEl.Child(k)
			ck, ok := cand.Child(k)
			if !ok || !ck.HasText || ck.Text != fk.Text {
				match = false
				break
			}
		}
		if match {
			matches = append(matches, cand)
		}
	}

	switch len(matches) {
	case 0:
		return nil
	case 1:
		targetEl := matches[0]
		nonKeyFilters := nonKeyChildren(filterEl, keys)
		if len(nonKeyFilters) == 0 {
			for _, c := range targetEl.Children {
				c.SetAttr("_visible", "true", false)
			}
			return nil
		}
		if err := setVisibleFlagRec(childNode, targetEl, filterEl); err != nil {
			return err
		}
		clearIfNotVisible(targetEl, keys)
		return nil
	default:
		return newEditConfigError(KindFatal, filterEl.Path(), "lists with same keys exist")
	}
}

// clearIfNotVisible undoes a key-only visibility mark when none of a list
// item's non-key children ended up visible, matching _set_visible_flag's
// "check if other_nodes are visible" cleanup.
func clearIfNotVisible(targetEl *xmltree.Element, keys []string) {
	for _, c := range targetEl.Children {
		if containsString(keys, c.Name) {
			continue
		}
		if _, ok := c.Attr("_visible"); ok {
			return
		}
		if hasVisibleDescendant(c) {
			return
		}
	}
	for _, c := range targetEl.Children {
		c.DeleteAttr("_visible", true)
	}
}

func nonKeyChildren(filterEl *xmltree.Element, keys []string) []*xmltree.Element {
	var out []*xmltree.Element
	for _, c := range filterEl.Children {
		if !containsString(keys, c.Name) {
			out = append(out, c)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func hasVisibleDescendant(el *xmltree.Element) bool {
	for _, c := range el.Children {
		if _, ok := c.Attr("_visible"); ok {
			return true
		}
		if hasVisibleDescendant(c) {
			return true
		}
	}
	return false
}

// propagateVisible marks every descendant and every ancestor of an
// already-visible element visible too, so a deep filter match keeps its
// whole path to the root and its whole matched subtree.
func propagateVisible(root *xmltree.Element) {
	var visible []*xmltree.Element
	var collect func(*xmltree.Element)
	collect = func(el *xmltree.Element) {
		if _, ok := el.Attr("_visible"); ok {
			visible = append(visible, el)
		}
		for _, c := range el.Children {
			collect(c)
		}
	}
	collect(root)

	for _, el := range visible {
		markDescendantsVisible(el)
		for p := el; p != nil; p = p.Parent {
			p.SetAttr("_visible", "true", false)
		}
	}
}

func markDescendantsVisible(el *xmltree.Element) {
	for _, c := range el.Children {
		c.SetAttr("_visible", "true", false)
		markDescendantsVisible(c)
	}
}

// deleteNonVisible removes every descendant of root (root itself excepted)
// that was not marked visible.
func deleteNonVisible(root *xmltree.Element) {
	var toDelete []*xmltree.Element
	var walk func(*xmltree.Element)
	walk = func(el *xmltree.Element) {
		for _, c := range el.Children {
			if _, ok := c.Attr("_visible"); !ok {
				toDelete = append(toDelete, c)
			}
			walk(c)
		}
	}
	walk(root)
	for _, el := range toDelete {
		el.Delete()
	}
}
