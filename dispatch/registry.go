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
	"sync"

	"github.com/netfaker/netfaker/handler"
)

// HandlerRegistry maps a device-profile name (stub.Handler) to its
// Capabilities implementation.
//
// The source loads user-supplied handler code dynamically from
// /module/handlers/<name> via the host language's module system, comparing
// directory mtimes to know when to re-import. A compiled Go binary cannot
// replace code in a running process, so handlers here are a data-driven
// decision table instead: every supported device profile is a Go type
// registered by name at startup, and the module-directory ChangeDetector
// exists to flag that a restart (or, for a future out-of-process plug-in
// bridge) is warranted rather than to trigger in-process reloading.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]handler.Capabilities
}

// NewHandlerRegistry returns an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: map[string]handler.Capabilities{}}
}

// Register adds or replaces the handler for name.
func (r *HandlerRegistry) Register(name string, h handler.Capabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Lookup returns the handler registered for name, or false if none is.
func (r *HandlerRegistry) Lookup(name string) (handler.Capabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}
