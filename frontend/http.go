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

package frontend

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/golang/glog"
)

// httpHandleRequest is the flat JSON body an http/https ProtocolEvent POSTs
// to :handle, mirroring http_stub_interface.py's _aiohttp_handler body dict.
type httpHandleRequest struct {
	Protocol string              `json:"protocol"`
	Method   string              `json:"method"`
	Path     string              `json:"path"`
	Query    map[string][]string `json:"query"`
	Headers  map[string][]string `json:"headers"`
	Body     string              `json:"body"`
}

// innerHTTPBody mirrors protocolevt.Response's http-specific inner body: the
// real status/headers/body the client should actually receive.
type innerHTTPBody struct {
	Code    int                 `json:"code"`
	Headers map[string][]string `json:"headers"`
	Body    *string             `json:"body"`
}

// HTTPFrontend is a full net/http reverse adapter for a single stub: every
// inbound request becomes an http/https ProtocolEvent, and the manager's
// ProtocolResponse becomes the client-facing HTTP response, per
// http_stub_interface.py's Server/_aiohttp_handler.
type HTTPFrontend struct {
	StubID string
	Client *Client
	// TLS marks requests as "https" rather than "http" in the ProtocolEvent,
	// matching http_stub_interface.py's Server(ssl=...) flag. It does not
	// itself terminate TLS, and cmd/netfakerd serves the front-end over plain
	// HTTP (ListenAndServe) with TLS false.
	TLS bool
}

// NewHTTPFrontend returns an HTTPFrontend posting stubID's events to client.
func NewHTTPFrontend(stubID string, client *Client, tls bool) *HTTPFrontend {
	return &HTTPFrontend{StubID: stubID, Client: client, TLS: tls}
}

// Handler returns the http.Handler to mount on a listener.
func (f *HTTPFrontend) Handler() http.Handler {
	return http.HandlerFunc(f.serveHTTP)
}

func (f *HTTPFrontend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	log.Infof("frontend(http): received %s %s", r.Method, r.URL.Path)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	protocol := "http"
	if f.TLS {
		protocol = "https"
	}
	event := httpHandleRequest{
		Protocol: protocol,
		Method:   r.Method,
		Path:     r.URL.Path,
		Query:    map[string][]string(r.URL.Query()),
		Headers:  map[string][]string(r.Header),
		Body:     string(body),
	}

	resp, err := f.Client.Handle(f.StubID, event)
	if err != nil {
		log.Errorf("frontend(http): %v", err)
		writeScriptError(w, err)
		return
	}

	var inner innerHTTPBody
	if err := json.Unmarshal([]byte(resp.Body), &inner); err != nil {
		log.Errorf("frontend(http): decoding inner body: %v", err)
		writeScriptError(w, err)
		return
	}

	for name, values := range inner.Headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(inner.Code)
	if inner.Body != nil {
		io.WriteString(w, *inner.Body)
	}
	log.Infof("frontend(http): responded %d (request: %s %s)", inner.Code, r.Method, r.URL.Path)
}

// writeScriptError mirrors _create_error_message: a 500 with a JSON
// {errorCode, errorMessage, moreInfo} body naming the caught error.
func writeScriptError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(struct {
		ErrorCode    int     `json:"errorCode"`
		ErrorMessage string  `json:"errorMessage"`
		MoreInfo     *string `json:"moreInfo"`
	}{ErrorCode: 500, ErrorMessage: err.Error()})
}
