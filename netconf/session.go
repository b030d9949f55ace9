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

package netconf

import (
	"fmt"

	"github.com/netfaker/netfaker/configstore"
	"github.com/netfaker/netfaker/stub"
	"github.com/netfaker/netfaker/xmltree"
	"github.com/netfaker/netfaker/yangschema"
)

// Service executes NETCONF rpcs against one stub's configstore.Store.
// The junos handler constructs a fresh Service per request, bound to the
// stub's current yang tree from its dispatchctx.Context, mirroring domain/plugin.py's Context building a
// new NetconfService for every dispatched event.
type Service struct {
	YangTree *yangschema.Tree
}

// NewService returns a Service bound to tree, which may be nil for stubs
// with no yang module (every operation except lock and unlock then fails).
func NewService(tree *yangschema.Tree) *Service {
	return &Service{YangTree: tree}
}

// Execute parses rpcXML and dispatches it to the matching protocol
// operation, returning the serialized <rpc-reply>. A returned error means
// the request itself was malformed or the stub has no bound yang tree —
// these propagate as a handler execution failure rather than an rpc-error,
// mirroring netconf_service_domain.py's NetconfService.execute, which lets
// exactly this class of exception escape the per-operation try/except.
func (s *Service) Execute(target *stub.Stub, rpcXML string) (string, error) {
	rpc, err := ParseRPC(rpcXML)
	if err != nil {
		return "", err
	}
	return s.ExecuteParsed(target, rpc)
}

// ExecuteParsed runs an already-parsed rpc element, for callers (like a
// device-profile handler rewriting a proprietary operation tag) that need
// to inspect or mutate the rpc before it is executed.
func (s *Service) ExecuteParsed(target *stub.Stub, rpc *xmltree.Element) (string, error) {
	msgID, err := MessageID(rpc)
	if err != nil {
		return "", err
	}
	op, err := ProtocolOperation(rpc)
	if err != nil {
		return "", err
	}
	opEl := rpc.Children[0]

	switch op {
	case "get-config":
		return s.getConfig(target, msgID, opEl)
	case "get":
		return s.get(target, msgID, opEl)
	case "validate":
		return s.validate(target, msgID, opEl)
	case "edit-config":
		return s.editConfig(target, msgID, opEl)
	case "discard-changes":
		return s.discardChanges(target, msgID)
	case "commit":
		return s.commit(target, msgID)
	case "lock":
		return s.lock(target, msgID, opEl)
	case "unlock":
		return s.unlock(target, msgID, opEl)
	default:
		return "", fmt.Errorf("netconf: %q not supported", op)
	}
}

// datastoreFrom reads the literal candidate/running/startup child of a
// <source> or <target> wrapper element.
func datastoreFrom(wrapper *xmltree.Element) (configstore.Datastore, bool) {
	if _, ok := wrapper.Child("candidate"); ok {
		return configstore.Candidate, true
	}
	if _, ok := wrapper.Child("running"); ok {
		return configstore.Running, true
	}
	if _, ok := wrapper.Child("startup"); ok {
		return configstore.Startup, true
	}
	return "", false
}

func (s *Service) getConfig(target *stub.Stub, msgID string, opEl *xmltree.Element) (string, error) {
	sourceEl, ok := opEl.Child("source")
	if !ok {
		return "", fmt.Errorf("netconf: invalid get-config request: missing source")
	}
	ds, ok := datastoreFrom(sourceEl)
	if !ok {
		return "", fmt.Errorf("netconf: invalid get-config request: unrecognized source")
	}
	if s.YangTree == nil {
		return "", fmt.Errorf("netconf: stub has no bound yang tree")
	}

	var filter *xmltree.Element
	if f, ok := opEl.Child("filter"); ok {
		filter = f
	}

	config, err := target.Config.GetConfig(ds, s.YangTree, filter)
	if err != nil {
		return xmltree.ToString(CreateErrorReply(msgID, err.Error())), nil
	}
	return xmltree.ToString(createDataReply(msgID, config)), nil
}

func (s *Service) get(target *stub.Stub, msgID string, opEl *xmltree.Element) (string, error) {
	if s.YangTree == nil {
		return "", fmt.Errorf("netconf: stub has no bound yang tree")
	}

	var filter *xmltree.Element
	if f, ok := opEl.Child("filter"); ok {
		filter = f
	}

	config, err := target.Config.GetConfig(configstore.Running, s.YangTree, filter)
	if err != nil {
		return xmltree.ToString(CreateErrorReply(msgID, err.Error())), nil
	}
	return xmltree.ToString(createDataReply(msgID, config)), nil
}

func (s *Service) validate(target *stub.Stub, msgID string, opEl *xmltree.Element) (string, error) {
	sourceEl, ok := opEl.Child("source")
	if !ok {
		return "", fmt.Errorf("netconf: invalid validate request: missing source")
	}
	if s.YangTree == nil {
		return "", fmt.Errorf("netconf: stub has no bound yang tree")
	}

	if ds, ok := datastoreFrom(sourceEl); ok {
		if err := target.Config.ValidateDatastore(s.YangTree, ds); err != nil {
			return xmltree.ToString(CreateErrorReply(msgID, err.Error())), nil
		}
		return xmltree.ToString(CreateOKReply(msgID)), nil
	}
	if cfg, ok := sourceEl.Child("config"); ok {
		if err := configstore.ValidateConfig(s.YangTree, cfg); err != nil {
			return xmltree.ToString(CreateErrorReply(msgID, err.Error())), nil
		}
		return xmltree.ToString(CreateOKReply(msgID)), nil
	}
	return "", fmt.Errorf("netconf: invalid validate request: unrecognized source")
}

func (s *Service) editConfig(target *stub.Stub, msgID string, opEl *xmltree.Element) (string, error) {
	targetEl, ok := opEl.Child("target")
	if !ok {
		return "", fmt.Errorf("netconf: invalid edit-config request: missing target")
	}
	ds, ok := datastoreFrom(targetEl)
	if !ok || ds == configstore.Startup {
		return "", fmt.Errorf("netconf: invalid edit-config request: unsupported target")
	}
	configEl, ok := opEl.Child("config")
	if !ok {
		return "", fmt.Errorf("netconf: invalid edit-config request: missing config")
	}
	defaultOperation := "merge"
	if d, ok := opEl.Child("default-operation"); ok && d.HasText {
		defaultOperation = d.Text
	}
	if s.YangTree == nil {
		return "", fmt.Errorf("netconf: stub has no bound yang tree")
	}

	if err := target.Config.EditConfig(ds, s.YangTree, configEl, defaultOperation); err != nil {
		return xmltree.ToString(CreateErrorReply(msgID, err.Error())), nil
	}
	return xmltree.ToString(CreateOKReply(msgID)), nil
}

func (s *Service) discardChanges(target *stub.Stub, msgID string) (string, error) {
	if s.YangTree == nil {
		return "", fmt.Errorf("netconf: stub has no bound yang tree")
	}
	target.Config.DiscardChanges()
	return xmltree.ToString(CreateOKReply(msgID)), nil
}

func (s *Service) commit(target *stub.Stub, msgID string) (string, error) {
	if s.YangTree == nil {
		return "", fmt.Errorf("netconf: stub has no bound yang tree")
	}
	target.Config.Commit()
	return xmltree.ToString(CreateOKReply(msgID)), nil
}

// lockTarget reads <lock>/<unlock>'s <target>, defaulting to candidate:
// spec.md's resolved Open Question treats lock/unlock as advisory, so an
// absent or unparseable target still produces a successful no-op rather
// than a hard failure.
func lockTarget(opEl *xmltree.Element) configstore.Datastore {
	if targetEl, ok := opEl.Child("target"); ok {
		if ds, ok := datastoreFrom(targetEl); ok {
			return ds
		}
	}
	return configstore.Candidate
}

func (s *Service) lock(target *stub.Stub, msgID string, opEl *xmltree.Element) (string, error) {
	if err := target.Config.Lock(lockTarget(opEl)); err != nil {
		return xmltree.ToString(CreateErrorReply(msgID, err.Error())), nil
	}
	return xmltree.ToString(CreateOKReply(msgID)), nil
}

func (s *Service) unlock(target *stub.Stub, msgID string, opEl *xmltree.Element) (string, error) {
	if err := target.Config.Unlock(lockTarget(opEl)); err != nil {
		return xmltree.ToString(CreateErrorReply(msgID, err.Error())), nil
	}
	return xmltree.ToString(CreateOKReply(msgID)), nil
}
