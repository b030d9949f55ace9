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

// Package xmltree is a namespaced element tree with local-name navigation,
// the in-memory representation shared by the YANG schema tree and the
// per-stub configuration datastores.
package xmltree

import "strings"

// Element is one node of a namespaced element tree. Unlike encoding/xml's
// Token stream, Element is a mutable, parent-linked struct graph so that
// edit-config staging, subtree-filter visibility marking, and empty-container
// pruning can all walk and mutate it directly.
type Element struct {
	Name      string
	Namespace string
	Attrs     map[string]string
	Text      string
	HasText   bool
	Children  []*Element
	Parent    *Element
}

// New creates a detached element with the given local name and namespace.
func New(name, namespace string) *Element {
	return &Element{Name: name, Namespace: namespace}
}

// NewSub creates a child element under parent and appends it.
func NewSub(parent *Element, name, namespace string) *Element {
	child := New(name, namespace)
	parent.Append(child)
	return child
}

// Append adds child as the last child of e, setting child's parent.
func (e *Element) Append(child *Element) {
	child.Parent = e
	e.Children = append(e.Children, child)
}

// Delete detaches e from its parent. It is a no-op on a root element.
func (e *Element) Delete() {
	parent := e.Parent
	if parent == nil {
		return
	}
	for i, c := range parent.Children {
		if c == e {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	e.Parent = nil
}

// Child returns the first direct child with the given local name, regardless
// of namespace.
func (e *Element) Child(name string) (*Element, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ChildrenNamed returns all direct children with the given local name.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// SetAttr sets an attribute, optionally on every descendant too.
func (e *Element) SetAttr(name, value string, recursive bool) {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[name] = value
	if recursive {
		for _, c := range e.Children {
			c.SetAttr(name, value, true)
		}
	}
}

// Attr returns an attribute value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	if e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// DeleteAttr removes an attribute, optionally from every descendant too.
func (e *Element) DeleteAttr(name string, recursive bool) {
	delete(e.Attrs, name)
	if recursive {
		for _, c := range e.Children {
			c.DeleteAttr(name, true)
		}
	}
}

// Copy returns a deep clone of e, detached from any parent.
func (e *Element) Copy() *Element {
	if e == nil {
		return nil
	}
	clone := &Element{
		Name:      e.Name,
		Namespace: e.Namespace,
		Text:      e.Text,
		HasText:   e.HasText,
	}
	if e.Attrs != nil {
		clone.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			clone.Attrs[k] = v
		}
	}
	for _, c := range e.Children {
		cc := c.Copy()
		clone.Append(cc)
	}
	return clone
}

// Parents returns e's ancestors, nearest first.
func (e *Element) Parents() []*Element {
	var out []*Element
	for p := e.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Root returns the root of e's tree (e itself if e has no parent).
func (e *Element) Root() *Element {
	node := e
	for node.Parent != nil {
		node = node.Parent
	}
	return node
}

// Path returns a slash-separated path of local names from the tree root to e.
func (e *Element) Path() string {
	names := []string{e.Name}
	for p := e.Parent; p != nil; p = p.Parent {
		names = append([]string{p.Name}, names...)
	}
	return "/" + strings.Join(names, "/")
}

// Equal reports whether e and other have the same structure: name,
// namespace, text, attributes (ignoring internal bookkeeping attributes is
// the caller's responsibility — Equal compares exactly what is present) and
// children in order.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Name != other.Name || e.Namespace != other.Namespace {
		return false
	}
	if e.HasText != other.HasText || e.Text != other.Text {
		return false
	}
	if len(e.Attrs) != len(other.Attrs) {
		return false
	}
	for k, v := range e.Attrs {
		if ov, ok := other.Attrs[k]; !ok || ov != v {
			return false
		}
	}
	if len(e.Children) != len(other.Children) {
		return false
	}
	for i, c := range e.Children {
		if !c.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// IsEmptyContainer reports whether e has node_type=container and no
// descendant leaf or leaf-list, the condition edit-config pruning removes.
func (e *Element) IsEmptyContainer() bool {
	if t, ok := e.Attr("node_type"); !ok || t != "container" {
		return false
	}
	return !e.hasDescendantLeaf()
}

func (e *Element) hasDescendantLeaf() bool {
	for _, c := range e.Children {
		if t, ok := c.Attr("node_type"); ok && (t == "leaf" || t == "leaf-list") {
			return true
		}
		if c.hasDescendantLeaf() {
			return true
		}
	}
	return false
}
