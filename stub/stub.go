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

// Package stub holds one simulated device's identity, metadata, three
// configuration datastores, and SNMP table, plus the in-memory Repository
// that tracks every stub a running netfakerd knows about. Grounded on
// domain/stub_domain.py's Entity and infrastructure/stub_infrastructure.py's
// Repository.
package stub

import (
	"github.com/netfaker/netfaker/configstore"
	"github.com/netfaker/netfaker/snmp"
)

// Stub is one simulated device.
type Stub struct {
	ID          string
	Description string
	Handler     string
	YangID      string
	Enabled     bool
	Metadata    map[string]interface{}

	Config *configstore.Store
	Snmp   *snmp.Table
}

// New creates a Stub with empty candidate/running/startup datastores and an
// empty SNMP table.
func New(id, description, handler, yangID string, enabled bool) *Stub {
	return &Stub{
		ID:          id,
		Description: description,
		Handler:     handler,
		YangID:      yangID,
		Enabled:     enabled,
		Metadata:    map[string]interface{}{},
		Config:      configstore.NewStore(),
		Snmp:        snmp.NewTable(),
	}
}

// Clone returns a deep copy of s: identity fields, Metadata, and both
// datastores are independent of the original, mirroring
// stub_infrastructure.py's copy.deepcopy(entity) on every list/get/save.
// A handler working against a cloned Stub can mutate its Config and Snmp
// freely — including mutations that are later abandoned because the
// handler errors before calling Repository.Save — without those changes
// ever becoming visible to another caller of Repository.Get.
func (s *Stub) Clone() *Stub {
	metadata := make(map[string]interface{}, len(s.Metadata))
	for k, v := range s.Metadata {
		metadata[k] = v
	}
	return &Stub{
		ID:          s.ID,
		Description: s.Description,
		Handler:     s.Handler,
		YangID:      s.YangID,
		Enabled:     s.Enabled,
		Metadata:    metadata,
		Config:      s.Config.Clone(),
		Snmp:        s.Snmp.Clone(),
	}
}
