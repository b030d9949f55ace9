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
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// declarativeStub is the typed shape one "stubs:" list entry of
// stubs/stubs.yaml decodes into, mirroring manager_application.py's
// reload_stubs reading of each stub_yaml dict.
type declarativeStub struct {
	ID          string                 `mapstructure:"id"`
	Description string                 `mapstructure:"description"`
	Handler     string                 `mapstructure:"handler"`
	Yang        string                 `mapstructure:"yang"`
	Enabled     *bool                  `mapstructure:"enabled"`
	Metadata    map[string]interface{} `mapstructure:"metadata"`
}

// LoadDeclarative parses a stubs.yaml document and returns the Stub entities
// it declares. YAML is decoded generically first, since a document's
// metadata section may hold arbitrary nested content yaml.v3 can't type in
// advance, then mapstructure decodes each entry into declarativeStub with
// weak-typing tolerance (e.g. "enabled: \"true\"\" still becomes a bool).
func LoadDeclarative(data []byte) ([]*Stub, error) {
	var doc struct {
		Stubs []interface{} `yaml:"stubs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("stub: parsing declarative document: %w", err)
	}

	stubs := make([]*Stub, 0, len(doc.Stubs))
	for _, raw := range doc.Stubs {
		var sy declarativeStub
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &sy,
		})
		if err != nil {
			return nil, fmt.Errorf("stub: building declarative decoder: %w", err)
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("stub: decoding declarative entry: %w", err)
		}
		if sy.ID == "" {
			return nil, fmt.Errorf("stub: declarative entry missing id")
		}
		if sy.Handler == "" {
			return nil, fmt.Errorf("stub: declarative entry %q missing handler", sy.ID)
		}

		enabled := true
		if sy.Enabled != nil {
			enabled = *sy.Enabled
		}
		s := New(sy.ID, sy.Description, sy.Handler, sy.Yang, enabled)
		if sy.Metadata != nil {
			s.Metadata = sy.Metadata
		}
		stubs = append(stubs, s)
	}
	return stubs, nil
}
