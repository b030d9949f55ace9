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

package manager

import (
	"github.com/netfaker/netfaker/configstore"
	"github.com/netfaker/netfaker/manager/apierr"
	"github.com/netfaker/netfaker/stub"
	"github.com/netfaker/netfaker/xmltree"
)

// StubView is the JSON shape a GET/POST/PATCH on /stubs returns, grounded
// on interface/manager_interface.py's StubView: identity/handler fields
// plus each datastore serialized to XML text.
type StubView struct {
	ID              string                 `json:"id"`
	Description     string                 `json:"description"`
	Handler         string                 `json:"handler"`
	Yang            string                 `json:"yang"`
	Enabled         bool                   `json:"enabled"`
	Metadata        map[string]interface{} `json:"metadata"`
	CandidateConfig string                 `json:"candidateConfig"`
	RunningConfig   string                 `json:"runningConfig"`
	StartupConfig   string                 `json:"startupConfig"`
}

// newStubView renders s's three datastores to XML text, stripping the
// internal node_type/choice_ids bookkeeping the way a NETCONF get-config
// reply does (configstore.Store.GetConfig with no filter).
func newStubView(s *stub.Stub) (*StubView, error) {
	render := func(ds configstore.Datastore) (string, error) {
		el, err := s.Config.GetConfig(ds, nil, nil)
		if err != nil {
			return "", err
		}
		return xmltree.ToString(el) + "\n", nil
	}

	candidate, err := render(configstore.Candidate)
	if err != nil {
		return nil, apierr.NewFatalError("rendering candidate config: %v", err)
	}
	running, err := render(configstore.Running)
	if err != nil {
		return nil, apierr.NewFatalError("rendering running config: %v", err)
	}
	startup, err := render(configstore.Startup)
	if err != nil {
		return nil, apierr.NewFatalError("rendering startup config: %v", err)
	}

	return &StubView{
		ID:              s.ID,
		Description:     s.Description,
		Handler:         s.Handler,
		Yang:            s.YangID,
		Enabled:         s.Enabled,
		Metadata:        s.Metadata,
		CandidateConfig: candidate,
		RunningConfig:   running,
		StartupConfig:   startup,
	}, nil
}

// stubProperty returns one named property of a StubView, for
// GET /stubs/{id}/{property}. Config properties come back as raw XML text,
// metadata as its JSON value; any other name is a ValidationError.
func stubProperty(view *StubView, name string) (contentType string, body interface{}, err error) {
	switch name {
	case "id":
		return "text/plain", view.ID, nil
	case "description":
		return "text/plain", view.Description, nil
	case "handler":
		return "text/plain", view.Handler, nil
	case "yang":
		return "text/plain", view.Yang, nil
	case "enabled":
		return "application/json", view.Enabled, nil
	case "metadata":
		return "application/json", view.Metadata, nil
	case "candidateConfig":
		return "application/xml", view.CandidateConfig, nil
	case "runningConfig":
		return "application/xml", view.RunningConfig, nil
	case "startupConfig":
		return "application/xml", view.StartupConfig, nil
	default:
		return "", nil, apierr.NewValidationError("unknown stub property %q", name)
	}
}
