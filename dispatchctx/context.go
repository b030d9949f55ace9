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

// Package dispatchctx defines Context, the value a dispatched handler call
// receives. It is a separate package from dispatch and handler so that
// handler.Capabilities (which takes a *Context) and dispatch.Dispatcher
// (which builds one) can both import it without an import cycle.
package dispatchctx

import (
	"github.com/netfaker/netfaker/protocolevt"
	"github.com/netfaker/netfaker/stub"
	"github.com/netfaker/netfaker/yangschema"
)

// Context is passed to every handler capability call, grounded on
// application/plugin.py's Context: the request, a private copy of the
// target stub, a read-only yang tree, and the stub repository's write path
// for handlers that persist mutations themselves.
type Context struct {
	Event    *protocolevt.Event
	Stub     *stub.Stub
	YangTree *yangschema.Tree
	StubRepo *stub.Repository
}
