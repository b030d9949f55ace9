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
	"fmt"
	"sync/atomic"

	log "github.com/golang/glog"
)

type telnetHandleRequest struct {
	Protocol         string                 `json:"protocol"`
	ConnectionStatus string                 `json:"connectionStatus"`
	SessionID        string                 `json:"sessionId"`
	Input            string                 `json:"input"`
	Prompt           string                 `json:"prompt"`
	State            map[string]interface{} `json:"state"`
}

// TelnetFrontend drives a TELNET session, per
// telnet_stub_interface.py's Handler._handle: unlike SSH, TELNET carries no
// username of its own — the junos handler's USERNAME/PASSWORD/
// OPERATION_MODE phase machine collects it from the client's first line.
type TelnetFrontend struct {
	StubID string
	Client *Client

	sessionCount int64
}

// NewTelnetFrontend returns a TelnetFrontend posting stubID's events to client.
func NewTelnetFrontend(stubID string, client *Client) *TelnetFrontend {
	return &TelnetFrontend{StubID: stubID, Client: client}
}

// Serve drives sess until EOF or a manager error.
func (f *TelnetFrontend) Serve(sess LineSession) error {
	sessionID := fmt.Sprintf("%d", atomic.AddInt64(&f.sessionCount, 1))
	prompt := ""
	state := map[string]interface{}{}

	body, err := f.roundTrip(sessionID, "login", "", prompt, state)
	if err != nil {
		sess.WriteString(err.Error() + "\n")
		return err
	}
	prompt, state = body.Prompt, body.State
	if err := sess.WriteString(body.Output + prompt); err != nil {
		return err
	}

	for {
		line, ok, err := sess.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		log.Infof("frontend(telnet): received %q", line)

		body, err := f.roundTrip(sessionID, "established", line, prompt, state)
		if err != nil {
			sess.WriteString(err.Error() + "\n")
			return err
		}
		prompt, state = body.Prompt, body.State
		if err := sess.WriteString(body.Output + prompt); err != nil {
			return err
		}
	}
}

func (f *TelnetFrontend) roundTrip(sessionID, connectionStatus, input, prompt string, state map[string]interface{}) (*sshTelnetBody, error) {
	resp, err := f.Client.Handle(f.StubID, telnetHandleRequest{
		Protocol:         "telnet",
		ConnectionStatus: connectionStatus,
		SessionID:        sessionID,
		Input:            input,
		Prompt:           prompt,
		State:            state,
	})
	if err != nil {
		return nil, err
	}
	var body sshTelnetBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		return nil, fmt.Errorf("frontend(telnet): decoding response body: %w", err)
	}
	return &body, nil
}
