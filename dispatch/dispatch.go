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
	"errors"

	log "github.com/golang/glog"

	"github.com/netfaker/netfaker/dispatchctx"
	"github.com/netfaker/netfaker/handler"
	"github.com/netfaker/netfaker/manager/apierr"
	"github.com/netfaker/netfaker/protocolevt"
	"github.com/netfaker/netfaker/stub"
)

// Dispatcher runs spec.md §4.6's dispatch steps: look up the stub, reload
// the yang-tree cache if the yang directory changed on disk (a module
// directory change is only logged; the handler registry is not reloaded),
// resolve the handler's capability for the event's protocol, and invoke it.
type Dispatcher struct {
	Stubs    *stub.Repository
	Yangs    *YangTreeRepository
	Handlers *HandlerRegistry

	YangsDir       string
	ModuleDetector *ChangeDetector
	YangDetector   *ChangeDetector
}

// Dispatch implements the seven dispatch steps.
func (d *Dispatcher) Dispatch(ev *protocolevt.Event) (*protocolevt.Response, error) {
	s, ok := d.Stubs.Get(ev.StubID)
	if !ok {
		return nil, apierr.NewNotFoundError("stub %q does not exist", ev.StubID)
	}
	if !s.Enabled {
		return nil, apierr.NewNotFoundError("stub %q is disabled", ev.StubID)
	}

	if d.ModuleDetector != nil && d.ModuleDetector.CheckAndReset() {
		log.Infof("dispatch: module directory changed; handler registry is compiled-in and unaffected")
	}
	if d.YangDetector != nil && d.YangDetector.CheckAndReset() {
		if err := d.Yangs.ReloadFromDisk(d.YangsDir); err != nil {
			return nil, apierr.NewFatalError("reloading yang trees: %v", err)
		}
	}

	h, ok := d.Handlers.Lookup(s.Handler)
	if !ok {
		return nil, apierr.NewNotFoundError("handler %q is not registered", s.Handler)
	}

	tree, _ := d.Yangs.Get(s.YangID)
	ctx := &dispatchctx.Context{
		Event:    ev,
		Stub:     s,
		YangTree: tree,
		StubRepo: d.Stubs,
	}

	capability, err := selectCapability(h, ev)
	if err != nil {
		return nil, err
	}
	resp, err := capability(ctx)
	if err != nil {
		if errors.Is(err, handler.ErrNotImplemented) {
			return nil, apierr.NewForbiddenError("handler %q does not implement this capability", s.Handler)
		}
		return nil, apierr.NewFatalError("handler %q: %v", s.Handler, err)
	}
	return resp, nil
}

// selectCapability picks the capability method step 6 names for ev's
// protocol and connection status.
func selectCapability(h handler.Capabilities, ev *protocolevt.Event) (func(*dispatchctx.Context) (*protocolevt.Response, error), error) {
	switch ev.Protocol {
	case protocolevt.HTTP, protocolevt.HTTPS:
		return h.HandleHTTP, nil
	case protocolevt.Netconf:
		if ev.Netconf.ConnectionStatus == protocolevt.Login {
			return h.NetconfHelloMessage, nil
		}
		return h.HandleNetconf, nil
	case protocolevt.SSH:
		if ev.SSH.ConnectionStatus == protocolevt.Login {
			return h.SSHLoginMessage, nil
		}
		return h.HandleSSH, nil
	case protocolevt.Telnet:
		if ev.Telnet.ConnectionStatus == protocolevt.Login {
			return h.TelnetLoginMessage, nil
		}
		return h.HandleTelnet, nil
	case protocolevt.SNMP:
		return h.HandleSNMP, nil
	default:
		return nil, apierr.NewFatalError("invalid protocol tag %q", ev.Protocol)
	}
}
