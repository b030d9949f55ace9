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

import "testing"

func ifTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable()
	entries := []struct {
		oid string
		typ Type
		val interface{}
	}{
		{"1.3.6.1.2.1.2.2.1.1.1", Integer, 1},
		{"1.3.6.1.2.1.2.2.1.1.2", Integer, 2},
		{"1.3.6.1.2.1.2.2.1.1.3", Integer, 3},
		{"1.3.6.1.2.1.2.2.1.2.1", OctetString, "fxp0"},
	}
	for _, e := range entries {
		if err := tbl.Set(e.oid, e.typ, e.val); err != nil {
			t.Fatalf("Set(%s): %v", e.oid, err)
		}
	}
	return tbl
}

func TestOIDCompareIsNumericNotLexical(t *testing.T) {
	a, err := ParseOID("1.2.9")
	if err != nil {
		t.Fatalf("ParseOID: %v", err)
	}
	b, err := ParseOID("1.2.10")
	if err != nil {
		t.Fatalf("ParseOID: %v", err)
	}
	if a.Compare(b) != -1 {
		t.Fatalf("1.2.9 vs 1.2.10: Compare = %d, want -1 (numeric, not lexical)", a.Compare(b))
	}
}

func TestGetExactMatch(t *testing.T) {
	tbl := ifTable(t)
	obj, err := tbl.Get("1.3.6.1.2.1.2.2.1.1.2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.Type != Integer || obj.Value != 2 {
		t.Fatalf("Get = %+v, want Integer 2", obj)
	}
}

func TestGetUnknownOIDOnEmptyTableIsNoSuchObject(t *testing.T) {
	tbl := NewTable()
	obj, err := tbl.Get("1.3.6.1.2.1.1.1.0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.Type != NoSuchObject {
		t.Fatalf("Get on empty table = %v, want NO_SUCH_OBJECT", obj.Type)
	}
}

func TestGetUnknownOIDOnPopulatedTableIsNoSuchInstance(t *testing.T) {
	tbl := ifTable(t)
	obj, err := tbl.Get("1.3.6.1.2.1.2.2.1.1.99")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.Type != NoSuchInstance {
		t.Fatalf("Get on populated table missing the OID = %v, want NO_SUCH_INSTANCE", obj.Type)
	}
}

// TestGetNextFindsSmallestGreaterOID exercises the spec's S5 worked
// example: GET-NEXT on 1.3.6.1.2.1.2.2.1.1.1 in a populated table returns
// 1.3.6.1.2.1.2.2.1.1.2 with value 2.
func TestGetNextFindsSmallestGreaterOID(t *testing.T) {
	tbl := ifTable(t)
	obj, err := tbl.GetNext("1.3.6.1.2.1.2.2.1.1.1")
	if err != nil {
		t.Fatalf("GetNext: %v", err)
	}
	if obj.OID != "1.3.6.1.2.1.2.2.1.1.2" || obj.Value != 2 {
		t.Fatalf("GetNext = %+v, want (1.3.6.1.2.1.2.2.1.1.2, 2)", obj)
	}
}

func TestGetNextOnLastOIDReturnsEndOfMibView(t *testing.T) {
	tbl := ifTable(t)
	obj, err := tbl.GetNext("1.3.6.1.2.1.2.2.1.2.1")
	if err != nil {
		t.Fatalf("GetNext: %v", err)
	}
	if obj.Type != EndOfMibView {
		t.Fatalf("GetNext on the last OID = %v, want END_OF_MIB_VIEW", obj.Type)
	}
}

// TestGetBulk exercises the spec's S6 shape: non_repeaters=1,
// max_repetitions=2 over two request OIDs. The non-repeater contributes one
// row; the remaining variable is advanced up to two times, stopping at
// END_OF_MIB_VIEW since this fixture has nothing past fxp0.
func TestGetBulk(t *testing.T) {
	tbl := ifTable(t)
	got, err := tbl.GetBulk([]string{"1.3.6.1.2.1.2.2.1.1.1", "1.3.6.1.2.1.2.2.1.2.1"}, 1, 2)
	if err != nil {
		t.Fatalf("GetBulk: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(GetBulk) = %d, want 2 (1 non-repeater + 1 before END_OF_MIB_VIEW)", len(got))
	}
	if got[0].OID != "1.3.6.1.2.1.2.2.1.1.2" || got[0].Value != 2 {
		t.Fatalf("GetBulk[0] = %+v, want (1.3.6.1.2.1.2.2.1.1.2, 2)", got[0])
	}
	if got[1].Type != EndOfMibView {
		t.Fatalf("GetBulk[1].Type = %v, want END_OF_MIB_VIEW", got[1].Type)
	}
}

func TestGetBulkChainsAcrossRepetitions(t *testing.T) {
	tbl := ifTable(t)
	got, err := tbl.GetBulk([]string{"1.3.6.1.2.1.2.2.1.1.1"}, 0, 3)
	if err != nil {
		t.Fatalf("GetBulk: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(GetBulk) = %d, want 3", len(got))
	}
	if got[0].Value != 2 || got[1].Value != 3 {
		t.Fatalf("GetBulk chain = %+v, want values [2 3 fxp0]", got)
	}
	if got[2].OID != "1.3.6.1.2.1.2.2.1.2.1" {
		t.Fatalf("GetBulk[2] = %+v, want fxp0's OID", got[2])
	}
}

func TestSetUpdatesExistingEntryInPlace(t *testing.T) {
	tbl := ifTable(t)
	if err := tbl.Set("1.3.6.1.2.1.2.2.1.1.1", Integer, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("Len() = %d after overwrite, want 4 (no duplicate)", tbl.Len())
	}
	obj, _ := tbl.Get("1.3.6.1.2.1.2.2.1.1.1")
	if obj.Value != 42 {
		t.Fatalf("Get after overwrite = %+v, want value 42", obj)
	}
}

func TestDeleteRemovesFromBothIndexAndOrder(t *testing.T) {
	tbl := ifTable(t)
	tbl.Delete("1.3.6.1.2.1.2.2.1.1.2")
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d after delete, want 3", tbl.Len())
	}
	obj, err := tbl.Get("1.3.6.1.2.1.2.2.1.1.2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.Type != NoSuchInstance {
		t.Fatalf("Get after delete = %v, want NO_SUCH_INSTANCE", obj.Type)
	}
	next, err := tbl.GetNext("1.3.6.1.2.1.2.2.1.1.1")
	if err != nil {
		t.Fatalf("GetNext: %v", err)
	}
	if next.OID != "1.3.6.1.2.1.2.2.1.1.3" {
		t.Fatalf("GetNext after delete = %+v, want to skip the deleted OID", next)
	}
}

func TestDeleteAllEmptiesTable(t *testing.T) {
	tbl := ifTable(t)
	tbl.DeleteAll()
	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d after DeleteAll, want 0", tbl.Len())
	}
	obj, err := tbl.Get("1.3.6.1.2.1.2.2.1.1.1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.Type != NoSuchObject {
		t.Fatalf("Get on emptied table = %v, want NO_SUCH_OBJECT", obj.Type)
	}
}

func TestListReturnsObjectsInOIDOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Set("1.3.6.1.2.1.2.2.1.1.10", Integer, 10)
	tbl.Set("1.3.6.1.2.1.2.2.1.1.2", Integer, 2)
	tbl.Set("1.3.6.1.2.1.2.2.1.1.9", Integer, 9)
	objs := tbl.List()
	if len(objs) != 3 {
		t.Fatalf("List() len = %d, want 3", len(objs))
	}
	want := []string{"1.3.6.1.2.1.2.2.1.1.2", "1.3.6.1.2.1.2.2.1.1.9", "1.3.6.1.2.1.2.2.1.1.10"}
	for i, w := range want {
		if objs[i].OID != w {
			t.Fatalf("List()[%d].OID = %q, want %q (numeric order, not lexical)", i, objs[i].OID, w)
		}
	}
}
