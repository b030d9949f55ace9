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

// Package handler defines the capability set a device-profile handler
// implements, grounded on application/plugin.py's Handler base class, whose
// eight async methods each default to NotImplementedError.
package handler

import (
	"errors"

	"github.com/netfaker/netfaker/dispatchctx"
	"github.com/netfaker/netfaker/protocolevt"
)

// ErrNotImplemented is returned by Base's default method bodies, and is the
// sentinel dispatch.Dispatch checks for to report the capability as not
// implemented, as an apierr.ForbiddenError (HTTP 403).
var ErrNotImplemented = errors.New("handler: capability not implemented")

// Capabilities is the full set of protocol entry points a device-profile
// handler may implement. A concrete handler embeds Base and overrides only
// the capabilities it supports.
type Capabilities interface {
	HandleHTTP(ctx *dispatchctx.Context) (*protocolevt.Response, error)
	NetconfHelloMessage(ctx *dispatchctx.Context) (*protocolevt.Response, error)
	HandleNetconf(ctx *dispatchctx.Context) (*protocolevt.Response, error)
	SSHLoginMessage(ctx *dispatchctx.Context) (*protocolevt.Response, error)
	HandleSSH(ctx *dispatchctx.Context) (*protocolevt.Response, error)
	TelnetLoginMessage(ctx *dispatchctx.Context) (*protocolevt.Response, error)
	HandleTelnet(ctx *dispatchctx.Context) (*protocolevt.Response, error)
	HandleSNMP(ctx *dispatchctx.Context) (*protocolevt.Response, error)
}

// Base implements Capabilities with every method returning
// ErrNotImplemented, for concrete handlers to embed and selectively
// override.
type Base struct{}

func (Base) HandleHTTP(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}

func (Base) NetconfHelloMessage(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}

func (Base) HandleNetconf(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}

func (Base) SSHLoginMessage(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}

func (Base) HandleSSH(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}

func (Base) TelnetLoginMessage(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}

func (Base) HandleTelnet(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}

func (Base) HandleSNMP(*dispatchctx.Context) (*protocolevt.Response, error) {
	return nil, ErrNotImplemented
}
