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
	"context"
	"net/http"
	"regexp"
	"strings"
)

// pathParamsKey is the context key a matched route's named captures are
// stashed under, read back by PathParam.
type pathParamsKey struct{}

// PathParam returns the named path capture from pattern "{name}" segments,
// e.g. "id" for a route registered as "/stubs/{id}".
func PathParam(r *http.Request, name string) string {
	params, _ := r.Context().Value(pathParamsKey{}).(map[string]string)
	return params[name]
}

// route is one registered method+pattern pair, grounded on plugin.py's
// Request.match_path: a pattern's "{name}" segments become named regexp
// captures, with everything else taken as a literal (including ':' verb
// suffixes like "/stubs/{id}:handle", which match.py treats the same way).
type route struct {
	method  string
	re      *regexp.Regexp
	names   []string
	handler http.HandlerFunc
}

var paramRE = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

func compilePattern(pattern string) (*regexp.Regexp, []string) {
	var names []string
	var sb strings.Builder
	sb.WriteString("^")
	last := 0
	for _, loc := range paramRE.FindAllStringSubmatchIndex(pattern, -1) {
		sb.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		names = append(names, pattern[loc[2]:loc[3]])
		sb.WriteString(`([^/]+)`)
		last = loc[1]
	}
	sb.WriteString(regexp.QuoteMeta(pattern[last:]))
	sb.WriteString("$")
	return regexp.MustCompile(sb.String()), names
}

// Router is a minimal method+path-pattern dispatcher: no wildcard
// precedence rules beyond registration order, since the manager's REST
// surface (spec.md §6) has no two routes whose method and path pattern can
// both match the same request.
type Router struct {
	routes []route
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{}
}

// Handle registers handler for method requests matching pattern.
func (rt *Router) Handle(method, pattern string, handler http.HandlerFunc) {
	re, names := compilePattern(pattern)
	rt.routes = append(rt.routes, route{method: method, re: re, names: names, handler: handler})
}

// ServeHTTP implements http.Handler, answering 404 for an unmatched path and
// 405 for a path match on the wrong method.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pathMatched := false
	for _, rte := range rt.routes {
		m := rte.re.FindStringSubmatch(r.URL.Path)
		if m == nil {
			continue
		}
		pathMatched = true
		if rte.method != r.Method {
			continue
		}
		params := make(map[string]string, len(rte.names))
		for i, name := range rte.names {
			params[name] = m[i+1]
		}
		ctx := context.WithValue(r.Context(), pathParamsKey{}, params)
		rte.handler(w, r.WithContext(ctx))
		return
	}
	if pathMatched {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.NotFound(w, r)
}
