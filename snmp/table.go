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

package snmp

import (
	"sort"
	"sync"

	"github.com/derekparker/trie"
)

// entry pairs a parsed OID with the raw dotted string it was added under, so
// the sorted slice below can walk in numeric order while the trie answers
// exact-match lookups by the original string key.
type entry struct {
	oid OID
	raw string
	obj *Object
}

// Table is one stub's SNMP object table, grounded on stub_domain.py's
// Entity.snmp_objects dict plus its get/list/set/delete_snmp_object methods.
//
// Lookups by exact OID go through a trie, which gives O(len(oid)) exact
// match independent of table size. The trie's own iteration order is a
// lexical walk of its string keys, which does not match the numeric
// component-wise ordering GET-NEXT and GET-BULK require (e.g. "1.2.9" would
// sort before "1.2.10" lexically but must sort after it numerically), so a
// separately maintained slice, kept sorted by OID.Compare, backs the ordered
// walk instead.
type Table struct {
	mu     sync.RWMutex
	index  *trie.Trie
	sorted []entry
}

// NewTable returns an empty SNMP object table.
func NewTable() *Table {
	return &Table{index: trie.New()}
}

// Set inserts or replaces the object at oidStr.
func (t *Table) Set(oidStr string, typ Type, value interface{}) error {
	oid, err := ParseOID(oidStr)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	obj := &Object{OID: oidStr, Type: typ, Value: value}
	if node, ok := t.index.Find(oidStr); ok {
		_ = node
		for i := range t.sorted {
			if t.sorted[i].raw == oidStr {
				t.sorted[i].obj = obj
				break
			}
		}
	} else {
		i := sort.Search(len(t.sorted), func(i int) bool { return t.sorted[i].oid.Compare(oid) >= 0 })
		t.sorted = append(t.sorted, entry{})
		copy(t.sorted[i+1:], t.sorted[i:])
		t.sorted[i] = entry{oid: oid, raw: oidStr, obj: obj}
	}
	t.index.Add(oidStr, obj)
	return nil
}

// Delete removes the object at oidStr, if present.
func (t *Table) Delete(oidStr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index.Remove(oidStr)
	for i, e := range t.sorted {
		if e.raw == oidStr {
			t.sorted = append(t.sorted[:i], t.sorted[i+1:]...)
			break
		}
	}
}

// DeleteAll empties the table, mirroring delete_all_snmp_objects.
func (t *Table) DeleteAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index = trie.New()
	t.sorted = nil
}

// Lookup returns the exact object at oidStr, or false if absent, leaving
// NO_SUCH_OBJECT/NO_SUCH_INSTANCE handling to the GET walker.
func (t *Table) Lookup(oidStr string) (*Object, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lookupLocked(oidStr)
}

func (t *Table) lookupLocked(oidStr string) (*Object, bool) {
	node, ok := t.index.Find(oidStr)
	if !ok {
		return nil, false
	}
	obj, ok := node.Meta().(*Object)
	return obj, ok
}

// List returns every object, ordered by OID, mirroring list_snmp_objects.
func (t *Table) List() []*Object {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Object, len(t.sorted))
	for i, e := range t.sorted {
		out[i] = e.obj
	}
	return out
}

// Len reports how many objects the table holds.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sorted)
}

// Clone returns a Table holding independent copies of every object, mirroring
// stub_infrastructure.py's copy.deepcopy of _snmp_objects: Set/Delete/DeleteAll
// on the clone's index and sorted slice never touch t's, so a handler that
// reseeds or edits objects on a cloned Table cannot publish the change until
// it replaces the stored Table via Repository.Save.
func (t *Table) Clone() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()

	clone := &Table{index: trie.New(), sorted: make([]entry, len(t.sorted))}
	for i, e := range t.sorted {
		obj := *e.obj
		clone.sorted[i] = entry{oid: e.oid, raw: e.raw, obj: &obj}
		clone.index.Add(e.raw, &obj)
	}
	return clone
}
