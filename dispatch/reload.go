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

package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/netfaker/netfaker/xmltree"
	"github.com/netfaker/netfaker/yangschema"
)

var yangTreePartRE = regexp.MustCompile(`\Ayang_tree_([0-9]+)\.part\z`)

// YangTreeRepository is the read-only yang-tree side of dispatch's shared
// state, rebuilt wholesale on every YANG-tree change detector trip, per
// manager_application.py's reload_yangs: each /yangs/<name>/yang_tree/
// directory holds yang_tree_<i>.part chunks that concatenate back into one
// schema element tree.
type YangTreeRepository struct {
	mu    sync.RWMutex
	trees map[string]*yangschema.Tree
}

// NewYangTreeRepository returns an empty repository.
func NewYangTreeRepository() *YangTreeRepository {
	return &YangTreeRepository{trees: map[string]*yangschema.Tree{}}
}

// Get returns the named yang tree, or false if it hasn't been loaded.
func (r *YangTreeRepository) Get(id string) (*yangschema.Tree, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trees[id]
	return t, ok
}

// Set installs tree under id directly, bypassing disk, for callers (like a
// yang-build REST endpoint, or a test) that already hold a compiled Tree.
func (r *YangTreeRepository) Set(id string, tree *yangschema.Tree) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees[id] = tree
}

// List returns every loaded yang tree id.
func (r *YangTreeRepository) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.trees))
	for id := range r.trees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReloadFromDisk replaces the repository's contents by reading every
// /<yangsDir>/<name>/yang_tree/yang_tree_<i>.part file tree from disk.
func (r *YangTreeRepository) ReloadFromDisk(yangsDir string) error {
	entries, err := os.ReadDir(yangsDir)
	if err != nil {
		if os.IsNotExist(err) {
			r.mu.Lock()
			r.trees = map[string]*yangschema.Tree{}
			r.mu.Unlock()
			return nil
		}
		return fmt.Errorf("dispatch: listing %s: %w", yangsDir, err)
	}

	trees := map[string]*yangschema.Tree{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		tree, err := loadYangTree(filepath.Join(yangsDir, name, "yang_tree"))
		if err != nil {
			return fmt.Errorf("dispatch: loading yang tree %q: %w", name, err)
		}
		if tree != nil {
			trees[name] = tree
		}
	}

	r.mu.Lock()
	r.trees = trees
	r.mu.Unlock()
	return nil
}

func loadYangTree(dir string) (*yangschema.Tree, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type part struct {
		index int
		name  string
	}
	var parts []part
	for _, e := range entries {
		m := yangTreePartRE.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, part{index: idx, name: e.Name()})
	}
	if len(parts) == 0 {
		return nil, nil
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

	var sb strings.Builder
	for _, p := range parts {
		data, err := os.ReadFile(filepath.Join(dir, p.name))
		if err != nil {
			return nil, err
		}
		sb.Write(data)
	}

	root, err := xmltree.FromString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("parsing concatenated yang tree: %w", err)
	}
	return yangschema.FromElement(root), nil
}
