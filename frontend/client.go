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

// Package frontend holds the stub-side protocol adapters: thin front-ends
// that frame a client session into a protocolevt.Event, POST it to the
// manager's /stubs/{id}:handle endpoint, and unframe the protocolevt.Response
// back to the client. Grounded on
// original_source/interface/{http,ssh,telnet}_stub_interface.py and
// original_source/libs/http_client.py.
package frontend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ManagerError is the decoded {errorCode, errorMessage, moreInfo} body the
// manager returns for a non-200 :handle response.
type ManagerError struct {
	StatusCode   int
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	MoreInfo     string `json:"moreInfo"`
}

func (e *ManagerError) Error() string {
	return fmt.Sprintf("manager: %d %s: %s", e.StatusCode, e.ErrorCode, e.ErrorMessage)
}

// Client calls a running manager's /stubs/{id}:handle endpoint, mirroring
// libs/http_client.py's Session.request used by every *_stub_interface.py.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewClient returns a Client posting to endpoint (e.g. "http://localhost:8080").
func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:   strings.TrimSuffix(endpoint, "/"),
		HTTPClient: &http.Client{Timeout: 300 * time.Second},
	}
}

// handleResponse is the {code, headers, body} ProtocolResponse envelope.
type handleResponse struct {
	Code    int                 `json:"code"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

// Handle POSTs event (a protocol-specific ProtocolEvent struct, already
// carrying its own "protocol" field) to stubID's :handle endpoint and
// returns the decoded response body/headers.
func (c *Client) Handle(stubID string, event interface{}) (*handleResponse, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("frontend: encoding event: %w", err)
	}

	url := fmt.Sprintf("%s/stubs/%s:handle", c.Endpoint, stubID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("frontend: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("frontend: calling manager: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("frontend: reading manager response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var merr ManagerError
		if err := json.Unmarshal(body, &merr); err != nil {
			return nil, fmt.Errorf("manager: %d %s", resp.StatusCode, string(body))
		}
		merr.StatusCode = resp.StatusCode
		return nil, &merr
	}

	var out handleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("frontend: decoding manager response: %w", err)
	}
	return &out, nil
}
