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
	"testing"

	"github.com/openconfig/gnmi/errdiff"

	"github.com/netfaker/netfaker/xmltree"
	"github.com/netfaker/netfaker/yangschema"
)

const testModule = `
module test-net {
  namespace "urn:test-net";
  prefix t;

  container interfaces {
    list interface {
      key "name";
      leaf name {
        type string;
      }
      container config {
        leaf description {
          type string;
        }
        leaf-list address {
          type string;
        }
      }
      choice mode {
        case trunk {
          leaf vlan-id {
            type string;
          }
        }
        case access {
          leaf access-vlan {
            type string;
          }
        }
      }
    }
  }
}
`

func buildTestTree(t *testing.T) *yangschema.Tree {
	t.Helper()
	b := yangschema.NewBuilder()
	b.AddYang("test-net.yang", testModule)
	tree, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func parseXML(t *testing.T, s string) *xmltree.Element {
	t.Helper()
	el, err := xmltree.FromString(s)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	return el
}

func TestEditConfigMergeCreatesListEntry(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name><config><description>uplink</description></config><vlan-id>100</vlan-id></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	cfg, err := s.GetConfig(Candidate, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	ifaces, ok := cfg.Child("interfaces")
	if !ok {
		t.Fatal("missing interfaces")
	}
	iface, ok := ifaces.Child("interface")
	if !ok {
		t.Fatal("missing interface")
	}
	name, ok := iface.Child("name")
	if !ok || name.Text != "xe-0/0/0" {
		t.Fatalf("name = %+v, ok=%v", name, ok)
	}
	if _, ok := iface.Attr("node_type"); ok {
		t.Fatal("node_type should be stripped from GetConfig output")
	}
}

func TestEditConfigCreateAlreadyExistsFails(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}
	req2 := parseXML(t, `<root><interfaces operation="create"></interfaces></root>`)
	err := s.EditConfig(Candidate, tree, req2, "merge")
	if err == nil {
		t.Fatal("expected AlreadyExists error")
	}
	ecErr, ok := err.(*EditConfigError)
	if !ok || ecErr.Kind != KindAlreadyExists {
		t.Fatalf("err = %v, want KindAlreadyExists", err)
	}

	// A failed edit-config must not have mutated the datastore.
	cfg, err := s.GetConfig(Candidate, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	ifaces, _ := cfg.Child("interfaces")
	if len(ifaces.ChildrenNamed("interface")) != 1 {
		t.Fatalf("interface count = %d, want 1 (unchanged)", len(ifaces.ChildrenNamed("interface")))
	}
}

func TestEditConfigChoiceExclusivity(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name><vlan-id>100</vlan-id></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	req2 := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name><access-vlan>5</access-vlan></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req2, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	cfg, err := s.GetConfig(Candidate, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	ifaces, _ := cfg.Child("interfaces")
	iface, _ := ifaces.Child("interface")
	if _, ok := iface.Child("vlan-id"); ok {
		t.Fatal("vlan-id should have been evicted by the choice exclusivity rule")
	}
	if _, ok := iface.Child("access-vlan"); !ok {
		t.Fatal("access-vlan should be present")
	}
}

func TestEditConfigDeleteAndEmptyContainerPruning(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name><config><description>uplink</description></config></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	del := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name><config><description operation="delete"></description></config></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, del, "merge"); err != nil {
		t.Fatalf("EditConfig delete: %v", err)
	}

	cfg, err := s.GetConfig(Candidate, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	ifaces, _ := cfg.Child("interfaces")
	iface, _ := ifaces.Child("interface")
	if _, ok := iface.Child("config"); ok {
		t.Fatal("empty config container should have been pruned")
	}
}

func TestEditConfigLeafList(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name><config><address>10.0.0.1</address><address>10.0.0.2</address></config></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	cfg, err := s.GetConfig(Candidate, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	ifaces, _ := cfg.Child("interfaces")
	iface, _ := ifaces.Child("interface")
	config, _ := iface.Child("config")
	addrs := config.ChildrenNamed("address")
	if len(addrs) != 2 {
		t.Fatalf("len(addrs) = %d, want 2", len(addrs))
	}
}

func TestGetConfigSubtreeFilter(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root>
		<interfaces>
			<interface><name>xe-0/0/0</name><config><description>uplink</description></config></interface>
			<interface><name>xe-0/0/1</name><config><description>downlink</description></config></interface>
		</interfaces>
	</root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	filter := parseXML(t, `<root><interfaces><interface><name>xe-0/0/1</name></interface></interfaces></root>`)
	cfg, err := s.GetConfig(Candidate, tree, filter)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	ifaces, _ := cfg.Child("interfaces")
	matched := ifaces.ChildrenNamed("interface")
	if len(matched) != 1 {
		t.Fatalf("len(matched) = %d, want 1", len(matched))
	}
	name, _ := matched[0].Child("name")
	if name.Text != "xe-0/0/1" {
		t.Fatalf("filtered interface name = %q, want xe-0/0/1", name.Text)
	}
}

func TestValidateRejectsUnknownElement(t *testing.T) {
	tree := buildTestTree(t)
	bad := parseXML(t, `<root><nonexistent/></root>`)
	err := ValidateConfig(tree, bad)
	if diff := errdiff.Substring(err, "nonexistent"); diff != "" {
		t.Error(diff)
	}
}

func TestValidateAggregatesEveryUnknownElement(t *testing.T) {
	tree := buildTestTree(t)
	bad := parseXML(t, `<root><bogus-one/><bogus-two/></root>`)
	err := ValidateConfig(tree, bad)
	for _, want := range []string{"bogus-one", "bogus-two"} {
		if diff := errdiff.Substring(err, want); diff != "" {
			t.Error(diff)
		}
	}
}

func TestCommitAndDiscard(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	running, err := s.GetConfig(Running, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig(Running): %v", err)
	}
	if len(running.Children) != 0 {
		t.Fatal("running should still be empty before commit")
	}

	s.Commit()
	running, err = s.GetConfig(Running, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig(Running): %v", err)
	}
	if len(running.Children) == 0 {
		t.Fatal("running should contain the committed interface")
	}

	req2 := parseXML(t, `<root><interfaces><interface><name>xe-0/0/1</name></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req2, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}
	s.DiscardChanges()
	candidate, err := s.GetConfig(Candidate, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig(Candidate): %v", err)
	}
	ifaces, _ := candidate.Child("interfaces")
	if len(ifaces.ChildrenNamed("interface")) != 1 {
		t.Fatal("discard-changes should have reverted candidate to the committed running content")
	}
}

func TestCloneIsolatesDatastores(t *testing.T) {
	tree := buildTestTree(t)
	s := NewStore()

	req := parseXML(t, `<root><interfaces><interface><name>xe-0/0/0</name></interface></interfaces></root>`)
	if err := s.EditConfig(Candidate, tree, req, "merge"); err != nil {
		t.Fatalf("EditConfig: %v", err)
	}

	clone := s.Clone()
	req2 := parseXML(t, `<root><interfaces><interface><name>xe-0/0/1</name></interface></interfaces></root>`)
	if err := clone.EditConfig(Candidate, tree, req2, "merge"); err != nil {
		t.Fatalf("EditConfig on clone: %v", err)
	}

	cfg, err := s.GetConfig(Candidate, tree, nil)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	ifaces, _ := cfg.Child("interfaces")
	if len(ifaces.ChildrenNamed("interface")) != 1 {
		t.Fatal("editing the clone's candidate datastore must not affect the original Store")
	}
}

func TestLockUnlockValidatesDatastoreName(t *testing.T) {
	s := NewStore()
	if err := s.Lock(Candidate); err != nil {
		t.Fatalf("Lock(Candidate): %v", err)
	}
	if err := s.Unlock(Candidate); err != nil {
		t.Fatalf("Unlock(Candidate): %v", err)
	}
	if err := s.Lock(Datastore("bogus")); err == nil {
		t.Fatal("expected Lock on an invalid datastore to fail")
	}
}
