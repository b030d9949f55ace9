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

// Annotate returns a copy of config with every element stamped with its
// resolved node_type attribute, for seeding a datastore from a plain
// (unannotated) declarative document — e.g. the stub package's YAML-loaded
// initial configuration. Grounded on yang.py's YangTree.set_node_type.
func Annotate(tree *yangschema.Tree, config *xmltree.Element) (*xmltree.Element, error) {
	root := config.Copy()
	if err := annotateRec(tree.Root(), root); err != nil {
		return nil, err
	}
	return root, nil
}

func annotateRec(node *yangschema.Node, parentConfig *xmltree.Element) error {
	for _, child := range parentConfig.Children {
		childNode, err := node.Child(child.Name)
		if err != nil {
			return err
		}
		child.SetAttr("node_type", childNode.Kind(), false)
		if err := annotateRec(childNode, child); err != nil {
			return err
		}
	}
	return nil
}
