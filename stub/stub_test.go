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

package stub

import (
	"testing"

	"github.com/netfaker/netfaker/configstore"
	"github.com/netfaker/netfaker/snmp"
	"github.com/netfaker/netfaker/xmltree"
)

func TestCloneIsolatesMetadata(t *testing.T) {
	s := New("s1", "desc", "junos", "junos-yang", true)
	s.Metadata["a"] = 1

	clone := s.Clone()
	clone.Metadata["a"] = 2
	clone.Metadata["b"] = 3

	if s.Metadata["a"] != 1 {
		t.Fatalf("original Metadata[a] = %v, want 1 (clone must not alias)", s.Metadata["a"])
	}
	if _, ok := s.Metadata["b"]; ok {
		t.Fatal("original Metadata gained a key written only to the clone")
	}
}

func TestCloneIsolatesConfigAndSnmp(t *testing.T) {
	s := New("s1", "desc", "junos", "junos-yang", true)
	clone := s.Clone()

	if clone.Config == s.Config {
		t.Fatal("Clone() must not share the original *configstore.Store")
	}
	if clone.Snmp == s.Snmp {
		t.Fatal("Clone() must not share the original *snmp.Table")
	}

	if err := clone.Config.Set(configstore.Running, xmltree.New("root", "")); err != nil {
		t.Fatalf("Set() on clone's Config: %v", err)
	}
	if err := clone.Snmp.Set("1.3.6.1.2.1.1.1.0", snmp.OctetString, "clone-only"); err != nil {
		t.Fatalf("Set() on clone's Snmp: %v", err)
	}

	if s.Snmp.Len() != 0 {
		t.Fatal("mutating the clone's Snmp table should not affect the original")
	}
	if _, ok := s.Snmp.Lookup("1.3.6.1.2.1.1.1.0"); ok {
		t.Fatal("original Snmp table gained an object set only on the clone")
	}
}
