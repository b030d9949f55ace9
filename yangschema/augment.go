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
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/netfaker/netfaker/xmltree"
)

var namespacedSegmentRE = regexp.MustCompile(`\{[^}]*\}[^/]+`)
var namespacedSegmentParts = regexp.MustCompile(`^\{([^}]*)\}(.+)$`)

// applyAugments resolves every <augment> placeholder collected during
// buildRec against the already-emitted schema tree, shallowest target depth
// first (a shallow augment must land before a deeper augment can target
// nodes it introduces), then deletes every placeholder regardless of
// whether it could be resolved: an unresolved augment is logged and
// dropped, never left dangling in the tree.
func (bs *buildState) applyAugments(root *xmltree.Element) {
	augments := append([]*xmltree.Element{}, bs.augments...)
	sort.SliceStable(augments, func(i, j int) bool {
		return augmentDepth(augments[i]) < augmentDepth(augments[j])
	})

	for _, augEl := range augments {
		targetNode, _ := augEl.Attr("target-node")
		segments := parseTargetSegments(targetNode)

		var target *xmltree.Element
		if strings.HasPrefix(targetNode, "/") {
			target = findAbsolute(root, segments)
		} else if augEl.Parent != nil {
			target = findBySegments(augEl.Parent, segments)
		}

		if target == nil {
			bs.warnings = multierr.Append(bs.warnings, fmt.Errorf("augment %q: target node %q does not exist on the yang tree", augEl.Path(), targetNode))
			continue
		}

		for _, child := range append([]*xmltree.Element{}, augEl.Children...) {
			dest := target
			if target.Name == "choice" && child.Name != "case" {
				childName, _ := child.Attr("name")
				newCase := xmltree.NewSub(target, "case", target.Namespace)
				newCase.SetAttr("name", childName, false)
				dest = newCase
			}
			child.Delete()
			dest.Append(child)
		}
	}

	for _, augEl := range augments {
		augEl.Delete()
	}
}

// augmentDepth is the sort key: the number of path segments from the root
// down to (and including) augEl's own target-node, counting every
// ancestor augment's target-node depth and every ordinary ancestor
// container/list/leaf/leaf-list as one segment. Choice/case/module
// ancestors contribute nothing, matching how Path()/Child() treat them as
// transparent wrappers.
func augmentDepth(augEl *xmltree.Element) int {
	chain := []*xmltree.Element{augEl}
	for p := augEl.Parent; p != nil; p = p.Parent {
		switch p.Name {
		case "augment", "container", "list", "leaf", "leaf-list":
			chain = append(chain, p)
		}
	}
	total := 0
	for _, el := range chain {
		if el.Name == "augment" {
			tn, _ := el.Attr("target-node")
			total += len(strings.Split(strings.TrimPrefix(tn, "/"), "/"))
		} else {
			total++
		}
	}
	return total
}

type targetSegment struct {
	Namespace string
	Name      string
}

func parseTargetSegments(targetNode string) []targetSegment {
	matches := namespacedSegmentRE.FindAllString(targetNode, -1)
	segs := make([]targetSegment, 0, len(matches))
	for _, m := range matches {
		parts := namespacedSegmentParts.FindStringSubmatch(m)
		if parts == nil {
			continue
		}
		segs = append(segs, targetSegment{Namespace: parts[1], Name: parts[2]})
	}
	return segs
}

func findAbsolute(root *xmltree.Element, segments []targetSegment) *xmltree.Element {
	for _, module := range root.ChildrenNamed("module") {
		if found := findBySegments(module, segments); found != nil {
			return found
		}
	}
	return nil
}

func findBySegments(start *xmltree.Element, segments []targetSegment) *xmltree.Element {
	cur := start
	for _, seg := range segments {
		next := findNamedNamespaced(cur, seg.Name, seg.Namespace)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

func findNamedNamespaced(scope *xmltree.Element, name, namespace string) *xmltree.Element {
	for _, c := range scope.Children {
		if c.Namespace != namespace {
			continue
		}
		if n, _ := c.Attr("name"); n == name {
			return c
		}
	}
	return nil
}
