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

import "sort"

// Get returns the object at oidStr exactly. If the table holds no objects at
// all it returns a NO_SUCH_OBJECT placeholder; otherwise, a populated table
// missing this particular OID returns NO_SUCH_INSTANCE. This mirrors real
// agent behavior where NO_SUCH_OBJECT means "this MIB isn't implemented" and
// NO_SUCH_INSTANCE means "the MIB exists but this instance doesn't".
func (t *Table) Get(oidStr string) (*Object, error) {
	if _, err := ParseOID(oidStr); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if obj, ok := t.lookupLocked(oidStr); ok {
		return obj, nil
	}
	if len(t.sorted) == 0 {
		return &Object{OID: oidStr, Type: NoSuchObject}, nil
	}
	return &Object{OID: oidStr, Type: NoSuchInstance}, nil
}

// GetNext returns the object with the smallest OID strictly greater than
// oidStr, or an END_OF_MIB_VIEW placeholder if none exists.
func (t *Table) GetNext(oidStr string) (*Object, error) {
	oid, err := ParseOID(oidStr)
	if err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nextLocked(oid, oidStr)
}

func (t *Table) nextLocked(oid OID, oidStr string) (*Object, error) {
	i := sort.Search(len(t.sorted), func(i int) bool { return t.sorted[i].oid.Compare(oid) > 0 })
	if i >= len(t.sorted) {
		return &Object{OID: oidStr, Type: EndOfMibView}, nil
	}
	return t.sorted[i].obj, nil
}

// GetBulk implements SNMPv2 GET-BULK over oids: the first min(nonRepeaters,
// len(oids)) requested OIDs are each advanced by one GET-NEXT; each
// remaining OID is then advanced by GET-NEXT up to maxRepetitions times,
// chaining from the previous result and stopping early once it reaches
// END_OF_MIB_VIEW. The returned list preserves request order.
func (t *Table) GetBulk(oids []string, nonRepeaters, maxRepetitions int) ([]*Object, error) {
	n := nonRepeaters
	if n > len(oids) {
		n = len(oids)
	}
	if n < 0 {
		n = 0
	}

	var out []*Object
	for i := 0; i < n; i++ {
		obj, err := t.GetNext(oids[i])
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	for i := n; i < len(oids); i++ {
		cur := oids[i]
		for r := 0; r < maxRepetitions; r++ {
			obj, err := t.GetNext(cur)
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
			if obj.Type == EndOfMibView {
				break
			}
			cur = obj.OID
		}
	}
	return out, nil
}
