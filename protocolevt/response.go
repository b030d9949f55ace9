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

package protocolevt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/netfaker/netfaker/xmltree"
)

// Response is a ProtocolResponse: {code, headers, body}. Body is the raw
// reply text for NETCONF handlers. For HTTP handlers Body is not the raw
// reply: it is a JSON-encoded innerHTTPBody {code, headers, body} envelope.
// For SSH/TELNET ({output, prompt, state}) and SNMP ({objects}) it is a
// JSON-encoded per-protocol structure.
type Response struct {
	Code    int                 `json:"code"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

// NewResponse builds a raw-body Response, e.g. for a NETCONF rpc-reply.
func NewResponse(code int, contentType, body string) *Response {
	return &Response{
		Code:    code,
		Headers: map[string][]string{"content-type": {contentType}},
		Body:    body,
	}
}

// Response builds the rpc-reply envelope for a NETCONF event: the body is
// always the literal reply XML, content-type application/xml.
func (e *NetconfEvent) Response(xml string) *Response {
	return NewResponse(200, "application/xml", xml)
}

// defaultCapabilities mirrors plugin.py's create_hello_message default
// capability list.
var defaultCapabilities = []string{
	"urn:ietf:params:netconf:base:1.0",
	"urn:ietf:params:netconf:capability:writable-running:1.0",
	"urn:ietf:params:netconf:capability:candidate:1.0",
	"urn:ietf:params:netconf:capability:xpath:1.0",
	"urn:ietf:params:netconf:capability:validate:1.0",
	"urn:ietf:params:netconf:capability:validate:1.1",
	"urn:ietf:params:netconf:capability:rollback-on-error:1.0",
	"urn:ietf:params:netconf:capability:notification:1.0",
	"urn:ietf:params:netconf:capability:interleave:1.0",
}

// HelloResponse builds the <hello> message a NETCONF handler sends
// immediately after a login event. A nil capabilities slice uses the
// simulator's default capability list.
func (e *NetconfEvent) HelloResponse(sessionID int, capabilities []string) *Response {
	if capabilities == nil {
		capabilities = defaultCapabilities
	}
	var b strings.Builder
	b.WriteString(`<hello xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">`)
	b.WriteString(`<capabilities>`)
	for _, c := range capabilities {
		b.WriteString("<capability>")
		b.WriteString(c)
		b.WriteString("</capability>")
	}
	b.WriteString(`</capabilities>`)
	fmt.Fprintf(&b, "<session-id>%d</session-id>", sessionID)
	b.WriteString(`</hello>`)
	return NewResponse(200, "application/xml", b.String())
}

// sshTelnetBody is the {output, prompt, state} JSON body SSH and TELNET
// responses share.
type sshTelnetBody struct {
	Output string                 `json:"output"`
	Prompt string                 `json:"prompt"`
	State  map[string]interface{} `json:"state"`
}

// Response builds an SSH handler's reply.
func (e *SSHEvent) Response(output, prompt string, state map[string]interface{}) (*Response, error) {
	body, err := json.Marshal(sshTelnetBody{Output: output, Prompt: prompt, State: state})
	if err != nil {
		return nil, fmt.Errorf("protocolevt: encoding ssh response: %w", err)
	}
	return NewResponse(200, "application/json", string(body)), nil
}

// Response builds a TELNET handler's reply.
func (e *TelnetEvent) Response(output, prompt string, state map[string]interface{}) (*Response, error) {
	body, err := json.Marshal(sshTelnetBody{Output: output, Prompt: prompt, State: state})
	if err != nil {
		return nil, fmt.Errorf("protocolevt: encoding telnet response: %w", err)
	}
	return NewResponse(200, "application/json", string(body)), nil
}

// SNMPObjectResult is one returned OID in an SNMP response.
type SNMPObjectResult struct {
	OID   string      `json:"oid"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Response builds an SNMP handler's reply.
func (e *SNMPEvent) Response(objects []SNMPObjectResult) (*Response, error) {
	body, err := json.Marshal(struct {
		Objects []SNMPObjectResult `json:"objects"`
	}{Objects: objects})
	if err != nil {
		return nil, fmt.Errorf("protocolevt: encoding snmp response: %w", err)
	}
	return NewResponse(200, "application/json", string(body)), nil
}

// innerHTTPBody is the envelope an http/https Response's Body JSON-encodes:
// the outer Response always reports code 200 (the dispatch call itself
// succeeded), while the real HTTP status/headers/body the stub front-end
// should send its own client live one level down, inside this struct.
type innerHTTPBody struct {
	Code    int                 `json:"code"`
	Headers map[string][]string `json:"headers"`
	Body    *string             `json:"body"`
}

// Response builds an HTTP reply whose Body JSON-encodes code, headers and
// body as an innerHTTPBody; the outer Code is always 200.
func (e *HTTPEvent) Response(code int, headers map[string][]string, body *string) (*Response, error) {
	inner, err := json.Marshal(innerHTTPBody{Code: code, Headers: headers, Body: body})
	if err != nil {
		return nil, fmt.Errorf("protocolevt: encoding http response: %w", err)
	}
	return NewResponse(200, "application/json", string(inner)), nil
}

// JSONResponse builds an HTTP response whose body is the JSON encoding of v.
func (e *HTTPEvent) JSONResponse(code int, headers map[string][]string, v interface{}) (*Response, error) {
	var bodyStr *string
	if v != nil {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("protocolevt: encoding http json body: %w", err)
		}
		s := string(encoded)
		bodyStr = &s
	}
	h := cloneHeaders(headers)
	h["content-type"] = []string{"application/json"}
	return e.Response(code, h, bodyStr)
}

// XMLResponse builds an HTTP response whose body is el serialized as XML.
func (e *HTTPEvent) XMLResponse(code int, headers map[string][]string, el *xmltree.Element) (*Response, error) {
	var bodyStr *string
	if el != nil {
		s := xmltree.ToString(el)
		bodyStr = &s
	}
	h := cloneHeaders(headers)
	h["content-type"] = []string{"application/xml"}
	return e.Response(code, h, bodyStr)
}

func cloneHeaders(headers map[string][]string) map[string][]string {
	out := make(map[string][]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	return out
}
