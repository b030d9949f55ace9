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

package yangschema

import (
	"strings"

	"github.com/netfaker/netfaker/xmltree"
)

// directChildKinds are the schema node kinds Child matches by name directly
// under a node, in search order; choice/case are structural wrappers never
// materialized in a config tree, and Child searches through them separately.
var directChildKinds = []string{"container", "list", "leaf-list", "leaf"}

// Tree is a built YANG schema tree, rooted at a synthetic "root" element
// with one "module" child per YANG module (spec.md §3's YangSchemaTree).
type Tree struct {
	root     *xmltree.Element
	warnings []error
}

// Warnings returns the non-fatal issues collected while building the tree
// (currently: augment statements whose target-node could not be resolved
// and were dropped), for a build command to report to the caller.
func (t *Tree) Warnings() []error {
	return t.warnings
}

// FromElement reconstructs a Tree from a previously built schema element
// tree, e.g. one reloaded from yang_tree_<i>.part files on disk rather than
// rebuilt from source .yang modules.
func FromElement(root *xmltree.Element) *Tree {
	return &Tree{root: root}
}

// Root returns the root Node of the tree, used to resolve top-level element
// names against any module.
func (t *Tree) Root() *Node {
	return &Node{tree: t, el: nil}
}

// RootElement exposes the underlying schema element tree, e.g. for
// persistence to yang_tree_<i>.part files.
func (t *Tree) RootElement() *xmltree.Element {
	return t.root
}

// Namespace returns the namespace of the named module.
func (t *Tree) Namespace(moduleName string) (string, bool) {
	for _, m := range t.root.ChildrenNamed("module") {
		if n, _ := m.Attr("name"); n == moduleName {
			return m.Namespace, true
		}
	}
	return "", false
}

// Node is a position within a Tree: nil el means "root", i.e. not yet bound
// to a module, mirroring the source's YangNode(schema=None).
type Node struct {
	tree *Tree
	el   *xmltree.Element
}

// Kind returns container/list/leaf/leaf-list/choice/case/module, or "" at
// the root.
func (n *Node) Kind() string {
	if n.el == nil {
		return ""
	}
	return n.el.Name
}

// Name returns the node's YANG name, or "" at the root.
func (n *Node) Name() string {
	if n.el == nil {
		return ""
	}
	v, _ := n.el.Attr("name")
	return v
}

// Namespace returns the node's namespace, or "" at the root.
func (n *Node) Namespace() string {
	if n.el == nil {
		return ""
	}
	return n.el.Namespace
}

// Element exposes the underlying schema element, for callers (like the
// builder's own tests) that need to inspect raw structure.
func (n *Node) Element() *xmltree.Element {
	return n.el
}

// Child resolves a direct config child by local name: local
// container/list/leaf-list/leaf children first, then into any choice's
// case children (recursively), then — at the root — probing every module.
func (n *Node) Child(name string) (*Node, error) {
	if n.el == nil {
		for _, module := range n.tree.root.ChildrenNamed("module") {
			if found := findChild(module, name); found != nil {
				return &Node{tree: n.tree, el: found}, nil
			}
		}
		return nil, &UnknownNodeError{Path: "/", Name: name}
	}
	if found := findChild(n.el, name); found != nil {
		return &Node{tree: n.tree, el: found}, nil
	}
	return nil, &UnknownNodeError{Path: n.Path(), Name: name}
}

func findChild(scope *xmltree.Element, name string) *xmltree.Element {
	for _, kind := range directChildKinds {
		for _, c := range scope.ChildrenNamed(kind) {
			if cn, _ := c.Attr("name"); cn == name {
				return c
			}
		}
	}
	for _, choice := range scope.ChildrenNamed("choice") {
		for _, c := range choice.ChildrenNamed("case") {
			if found := findChild(c, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// Parent returns n's nearest ancestor that is not itself a choice/case
// wrapper, or the root Node if n is a top-level module child.
func (n *Node) Parent() *Node {
	if n.el == nil || n.el.Parent == nil {
		return nil
	}
	el := n.el.Parent
	for {
		if el.Name == "module" {
			return &Node{tree: n.tree, el: nil}
		}
		if el.Name != "choice" && el.Name != "case" {
			return &Node{tree: n.tree, el: el}
		}
		el = el.Parent
	}
}

// Path returns the slash-separated path of YANG names from the root to n,
// skipping choice/case wrappers.
func (n *Node) Path() string {
	if n.el == nil {
		return "/"
	}
	var names []string
	node := n
	for node != nil && node.el != nil {
		names = append([]string{node.Name()}, names...)
		node = node.Parent()
	}
	return "/" + strings.Join(names, "/")
}

// ChoiceID identifies one enclosing choice/case pair. The JSON tags match
// the wire format configstore stores in a config element's "choice_ids"
// attribute, grounded on YangNode.get_choice_ids's dict keys.
type ChoiceID struct {
	ChoiceNamespace string `json:"choice_namespace"`
	ChoiceName      string `json:"choice_name"`
	CaseNamespace   string `json:"case_namespace"`
	CaseName        string `json:"case_name"`
}

// ChoiceIDs walks n's immediate ancestors (not skipping choice/case, unlike
// Parent) collecting every enclosing case/choice pair, innermost first.
func (n *Node) ChoiceIDs() []ChoiceID {
	if n.el == nil {
		return nil
	}
	var ids []ChoiceID
	el := n.el.Parent
	for el != nil && el.Name == "case" {
		caseName, _ := el.Attr("name")
		caseNS := el.Namespace
		choice := el.Parent
		if choice == nil || choice.Name != "choice" {
			break
		}
		choiceName, _ := choice.Attr("name")
		ids = append(ids, ChoiceID{
			ChoiceNamespace: choice.Namespace,
			ChoiceName:      choiceName,
			CaseNamespace:   caseNS,
			CaseName:        caseName,
		})
		el = choice.Parent
	}
	return ids
}

// Keys returns the ordered key leaf names of a list node.
func (n *Node) Keys() ([]string, error) {
	if n.el == nil || n.el.Name != "list" {
		return nil, yangErrorf("%q does not have keys: only list nodes have keys", n.Kind())
	}
	keyEl, ok := n.el.Child("key")
	if !ok {
		return nil, yangErrorf("list %q has no key statement", n.Name())
	}
	v, _ := keyEl.Attr("value")
	return strings.Fields(v), nil
}
