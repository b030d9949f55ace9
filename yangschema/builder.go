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
	"sort"
	"strings"

	log "github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
	"go.uber.org/multierr"

	"github.com/netfaker/netfaker/xmltree"
)

// Builder accumulates YANG module texts and compiles them into a single
// schema Tree (spec.md §4.1).
type Builder struct {
	yangMap map[string]string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{yangMap: map[string]string{}}
}

// AddYang registers one YANG (or YIN-equivalent) module's text under the
// module name derived from filename, stripping any revision suffix
// ("foo@2021-01-01.yang" -> "foo"), mirroring YangTreeBuilder.add_yang.
func (b *Builder) AddYang(filename, text string) {
	b.yangMap[moduleNameFromFilename(filename)] = text
}

func moduleNameFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.SplitN(base, ".", 2)[0]
	base = strings.SplitN(base, "@", 2)[0]
	return base
}

// buildState holds the working data for one Build() call: the parsed,
// unresolved statement tree per module/submodule, a parent index over those
// trees (goyang's generic Statement carries no parent pointer), and the
// augment statements collected during schema emission, to be resolved in
// the augment phase once every module's direct statements have been
// emitted.
type buildState struct {
	raw      map[string]*yang.Statement
	parentOf map[*yang.Statement]*yang.Statement
	augments []*xmltree.Element
	warnings error // aggregated via multierr; dropped-augment warnings, non-fatal
}

// Build parses every registered module and compiles the schema tree,
// implementing spec.md §4.1's pipeline.
func (b *Builder) Build() (*Tree, error) {
	bs := &buildState{
		raw:      map[string]*yang.Statement{},
		parentOf: map[*yang.Statement]*yang.Statement{},
	}
	for name, text := range b.yangMap {
		stmt, err := parseModule(name, text)
		if err != nil {
			return nil, err
		}
		bs.raw[name] = stmt
		bs.indexParents(stmt, nil)
	}

	root := xmltree.New("root", "")

	names := make([]string, 0, len(bs.raw))
	for n := range bs.raw {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		rootStmt := bs.raw[name]
		if rootStmt.Keyword == "submodule" {
			continue
		}
		log.Infof("building schema tree for YANG module %q", name)
		namespace, err := bs.moduleNamespace(rootStmt)
		if err != nil {
			return nil, err
		}
		moduleSchema := xmltree.NewSub(root, "module", namespace)
		moduleSchema.SetAttr("name", name, false)
		if err := bs.buildRec(namespace, rootStmt, moduleSchema); err != nil {
			return nil, err
		}
	}

	bs.applyAugments(root)

	for _, w := range multierr.Errors(bs.warnings) {
		log.Warningf("%v", w)
	}

	return &Tree{root: root, warnings: multierr.Errors(bs.warnings)}, nil
}

func (bs *buildState) indexParents(stmt *yang.Statement, parent *yang.Statement) {
	bs.parentOf[stmt] = parent
	for _, c := range stmt.Statements {
		bs.indexParents(c, stmt)
	}
}

// documentRoot returns the top-level module/submodule statement that
// physically contains stmt.
func (bs *buildState) documentRoot(stmt *yang.Statement) *yang.Statement {
	cur := stmt
	for {
		p := bs.parentOf[cur]
		if p == nil {
			return cur
		}
		cur = p
	}
}

// buildRec is the recursive schema-emission walk: for each YANG statement
// kind it mirrors YangTreeBuilder._build_schema_tree_rec exactly.
func (bs *buildState) buildRec(namespace string, parentStmt *yang.Statement, parentSchema *xmltree.Element) error {
	docRoot := bs.documentRoot(parentStmt)

	for _, stmt := range parentStmt.Statements {
		switch stmt.Keyword {
		case "include":
			subStmt, ok := bs.raw[stmt.Argument]
			if !ok {
				return yangErrorf("included submodule %q not found", stmt.Argument)
			}
			if err := bs.buildRec(namespace, subStmt, parentSchema); err != nil {
				return err
			}

		case "leaf", "leaf-list":
			target := wrapWithCaseIfNeeded(parentSchema, stmt.Argument, namespace)
			createNode(target, stmt.Keyword, stmt.Argument, namespace)

		case "container":
			target := wrapWithCaseIfNeeded(parentSchema, stmt.Argument, namespace)
			node := createNode(target, "container", stmt.Argument, namespace)
			if err := bs.buildRec(namespace, stmt, node); err != nil {
				return err
			}

		case "list":
			target := wrapWithCaseIfNeeded(parentSchema, stmt.Argument, namespace)
			node := createNode(target, "list", stmt.Argument, namespace)
			if keyStmt, ok := childStatement(stmt, "key"); ok {
				keyEl := xmltree.NewSub(node, "key", namespace)
				keyEl.SetAttr("value", keyStmt.Argument, false)
			}
			if err := bs.buildRec(namespace, stmt, node); err != nil {
				return err
			}

		case "choice":
			target := wrapWithCaseIfNeeded(parentSchema, stmt.Argument, namespace)
			node := createNode(target, "choice", stmt.Argument, namespace)
			if err := bs.buildRec(namespace, stmt, node); err != nil {
				return err
			}

		case "case":
			node := createNode(parentSchema, "case", stmt.Argument, namespace)
			if err := bs.buildRec(namespace, stmt, node); err != nil {
				return err
			}

		case "augment":
			resolved, err := bs.resolveTargetNode(stmt.Argument, namespace, docRoot)
			if err != nil {
				bs.warnings = multierr.Append(bs.warnings, fmt.Errorf("augment %q: %v", stmt.Argument, err))
				continue
			}
			schemaNode := xmltree.NewSub(parentSchema, "augment", namespace)
			schemaNode.SetAttr("target-node", resolved, false)
			bs.augments = append(bs.augments, schemaNode)
			if err := bs.buildRec(namespace, stmt, schemaNode); err != nil {
				return err
			}

		case "uses":
			grouping, err := bs.resolveUses(stmt, docRoot)
			if err != nil {
				return err
			}
			if err := bs.buildRec(namespace, grouping, parentSchema); err != nil {
				return err
			}
			// A `uses` statement may itself carry augment/refine
			// sub-statements that apply to the expanded grouping.
			if err := bs.buildRec(namespace, stmt, parentSchema); err != nil {
				return err
			}

		default:
			// typedef, description, config, mandatory, etc. carry no
			// schema-tree representation in this simulator.
		}
	}
	return nil
}

func wrapWithCaseIfNeeded(parentSchema *xmltree.Element, name, namespace string) *xmltree.Element {
	if parentSchema.Name != "choice" {
		return parentSchema
	}
	c := xmltree.NewSub(parentSchema, "case", namespace)
	c.SetAttr("name", name, false)
	return c
}

func createNode(parent *xmltree.Element, tag, name, namespace string) *xmltree.Element {
	el := xmltree.NewSub(parent, tag, namespace)
	el.SetAttr("name", name, false)
	return el
}

// resolveUses locates the grouping referenced by a `uses` statement, in the
// search order spec.md §4.1 specifies: lexically enclosing scopes, then
// submodules of the current (or parent) module, then the imported module
// named by the `uses` prefix plus its submodules.
func (bs *buildState) resolveUses(uses *yang.Statement, docRoot *yang.Statement) (*yang.Statement, error) {
	segs := strings.SplitN(uses.Argument, ":", 2)
	modulePrefix := bs.modulePrefix(docRoot)

	var targetPrefix, targetName string
	switch len(segs) {
	case 1:
		targetPrefix, targetName = modulePrefix, segs[0]
	case 2:
		targetPrefix, targetName = segs[0], segs[1]
	default:
		return nil, yangErrorf("invalid uses statement: 'uses %s'", uses.Argument)
	}

	var grouping *yang.Statement

	if targetPrefix == modulePrefix {
		for cur := uses; cur != nil; cur = bs.parentOf[cur] {
			if g, ok := namedChildStatement(cur, "grouping", targetName); ok {
				grouping = g
				break
			}
		}
		if grouping == nil {
			var subs []*yang.Statement
			if docRoot.Keyword == "module" {
				subs = bs.submodulesOf(docRoot)
			} else if belongsTo, ok := childStatement(docRoot, "belongs-to"); ok {
				if parentModule, ok := bs.raw[belongsTo.Argument]; ok {
					subs = bs.submodulesOf(parentModule)
				}
			}
			for _, sub := range subs {
				if g, ok := namedChildStatement(sub, "grouping", targetName); ok {
					grouping = g
					break
				}
			}
		}
	}

	if grouping == nil {
		targetModuleName, err := bs.moduleNameByImportPrefix(docRoot, targetPrefix)
		if err != nil {
			return nil, err
		}
		targetModule, ok := bs.raw[targetModuleName]
		if !ok {
			return nil, yangErrorf("imported module %q not found for uses %q", targetModuleName, uses.Argument)
		}
		candidates := append([]*yang.Statement{targetModule}, bs.submodulesOf(targetModule)...)
		for _, cand := range candidates {
			if g, ok := namedChildStatement(cand, "grouping", targetName); ok {
				grouping = g
				break
			}
		}
	}

	if grouping == nil {
		return nil, yangErrorf("grouping %q not found for uses statement", targetName)
	}
	return grouping, nil
}

func (bs *buildState) submodulesOf(moduleStmt *yang.Statement) []*yang.Statement {
	var out []*yang.Statement
	seen := map[*yang.Statement]bool{}
	var walk func(*yang.Statement)
	walk = func(m *yang.Statement) {
		for _, inc := range childStatements(m, "include") {
			sub, ok := bs.raw[inc.Argument]
			if !ok || seen[sub] {
				continue
			}
			seen[sub] = true
			out = append(out, sub)
			walk(sub)
		}
	}
	walk(moduleStmt)
	return out
}

func (bs *buildState) modulePrefix(docRoot *yang.Statement) string {
	if docRoot.Keyword == "module" {
		p, _ := childArgument(docRoot, "prefix")
		return p
	}
	belongsTo, ok := childStatement(docRoot, "belongs-to")
	if !ok {
		return ""
	}
	p, _ := childArgument(belongsTo, "prefix")
	return p
}

func (bs *buildState) moduleNameByImportPrefix(docRoot *yang.Statement, prefix string) (string, error) {
	if bs.modulePrefix(docRoot) == prefix {
		return docRoot.Argument, nil
	}
	for _, imp := range childStatements(docRoot, "import") {
		if p, _ := childArgument(imp, "prefix"); p == prefix {
			return imp.Argument, nil
		}
	}
	return "", yangErrorf("no import with prefix %q in module %q", prefix, docRoot.Argument)
}

func (bs *buildState) moduleNamespace(rootStmt *yang.Statement) (string, error) {
	if rootStmt.Keyword == "module" {
		ns, ok := childArgument(rootStmt, "namespace")
		if !ok {
			return "", yangErrorf("module %q has no namespace statement", rootStmt.Argument)
		}
		return ns, nil
	}
	belongsTo, ok := childStatement(rootStmt, "belongs-to")
	if !ok {
		return "", yangErrorf("submodule %q has no belongs-to statement", rootStmt.Argument)
	}
	parent, ok := bs.raw[belongsTo.Argument]
	if !ok {
		return "", yangErrorf("submodule %q belongs to unknown module %q", rootStmt.Argument, belongsTo.Argument)
	}
	return bs.moduleNamespace(parent)
}

// resolveTargetNode rewrites a raw `target-node` argument (e.g.
// "ac:aaa/ac:bbb" or "/aaa/bbb") into fully-qualified "{namespace}local"
// segments, resolving prefixes against docRoot's own prefix and imports.
func (bs *buildState) resolveTargetNode(targetNode, defaultNamespace string, docRoot *yang.Statement) (string, error) {
	prefixNS := map[string]string{bs.modulePrefix(docRoot): defaultNamespace}
	for _, imp := range childStatements(docRoot, "import") {
		p, _ := childArgument(imp, "prefix")
		mod, ok := bs.raw[imp.Argument]
		if !ok {
			return "", yangErrorf("import %q not found", imp.Argument)
		}
		ns, err := bs.moduleNamespace(mod)
		if err != nil {
			return "", err
		}
		prefixNS[p] = ns
	}

	segs := strings.Split(targetNode, "/")
	resolved := make([]string, len(segs))
	for i, seg := range segs {
		if seg == "" {
			resolved[i] = ""
			continue
		}
		parts := strings.SplitN(seg, ":", 2)
		var ns, name string
		if len(parts) == 1 {
			ns, name = defaultNamespace, parts[0]
		} else {
			var ok bool
			ns, ok = prefixNS[parts[0]]
			if !ok {
				return "", yangErrorf("unknown prefix %q in augment target-node %q", parts[0], targetNode)
			}
			name = parts[1]
		}
		resolved[i] = fmt.Sprintf("{%s}%s", ns, name)
	}
	return strings.Join(resolved, "/"), nil
}

func namedChildStatement(stmt *yang.Statement, keyword, name string) (*yang.Statement, bool) {
	for _, c := range stmt.Statements {
		if c.Keyword == keyword && c.Argument == name {
			return c, true
		}
	}
	return nil, false
}
