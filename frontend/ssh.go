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
	"strconv"
	"sync/atomic"

	log "github.com/golang/glog"

	"github.com/netfaker/netfaker/xmltree"
)

// LineSession is the line-oriented half of a real terminal session an
// SSHFrontend drives: a login banner/prompt/read-eval loop, standing in for
// raw PTY framing per spec.md's explicit exclusion of transport-layer detail.
type LineSession interface {
	Username() string
	WriteString(s string) error
	// ReadLine blocks for the next line of client input, with the trailing
	// newline stripped. ok is false on a clean EOF.
	ReadLine() (line string, ok bool, err error)
}

// RawSession is the framed-message half of a session NetconfFrontend drives
// over an SSH "netconf" subsystem: read/write whole chunks up to the
// "]]>]]>" NETCONF 1.0 message separator, per ssh_stub_interface.py's
// _handle_netconf.
type RawSession interface {
	WriteString(s string) error
	ReadUntil(sep string) (chunk string, ok bool, err error)
}

type sshTelnetBody struct {
	Output string                 `json:"output"`
	Prompt string                 `json:"prompt"`
	State  map[string]interface{} `json:"state"`
}

type sshHandleRequest struct {
	Protocol         string                 `json:"protocol"`
	ConnectionStatus string                 `json:"connectionStatus"`
	Username         string                 `json:"username"`
	SessionID        string                 `json:"sessionId"`
	Input            string                 `json:"input"`
	Prompt           string                 `json:"prompt"`
	State            map[string]interface{} `json:"state"`
}

// SSHFrontend drives the CLI half of an SSH session, per
// ssh_stub_interface.py's Handler._handle_ssh.
type SSHFrontend struct {
	StubID string
	Client *Client

	sessionCount int64
}

// NewSSHFrontend returns an SSHFrontend posting stubID's events to client.
func NewSSHFrontend(stubID string, client *Client) *SSHFrontend {
	return &SSHFrontend{StubID: stubID, Client: client}
}

// Serve drives sess until EOF or a manager error, writing the login banner
// immediately and then one round-trip per input line.
func (f *SSHFrontend) Serve(sess LineSession) error {
	sessionID := strconv.FormatInt(atomic.AddInt64(&f.sessionCount, 1), 10)
	username := sess.Username()
	prompt := ""
	state := map[string]interface{}{}

	body, err := f.roundTrip(sessionID, username, "login", "", prompt, state)
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
		log.Infof("frontend(ssh): received %q", line)

		body, err := f.roundTrip(sessionID, username, "established", line, prompt, state)
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

func (f *SSHFrontend) roundTrip(sessionID, username, connectionStatus, input, prompt string, state map[string]interface{}) (*sshTelnetBody, error) {
	resp, err := f.Client.Handle(f.StubID, sshHandleRequest{
		Protocol:         "ssh",
		ConnectionStatus: connectionStatus,
		Username:         username,
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
		return nil, fmt.Errorf("frontend(ssh): decoding response body: %w", err)
	}
	return &body, nil
}

type netconfHandleRequest struct {
	Protocol         string `json:"protocol"`
	ConnectionStatus string `json:"connectionStatus"`
	Username         string `json:"username"`
	SessionID        int    `json:"sessionId"`
	RPC              string `json:"rpc"`
}

const netconfSeparator = "]]>]]>"

// NetconfFrontend drives the NETCONF-over-SSH "netconf" subsystem: a
// framed <hello> exchange followed by one rpc/rpc-reply round trip per
// client message, per ssh_stub_interface.py's Handler._handle_netconf.
type NetconfFrontend struct {
	StubID string
	Client *Client

	sessionCount int64
}

// NewNetconfFrontend returns a NetconfFrontend posting stubID's events to client.
func NewNetconfFrontend(stubID string, client *Client) *NetconfFrontend {
	return &NetconfFrontend{StubID: stubID, Client: client}
}

// Serve runs the login <hello> exchange and then answers rpc messages until
// the client sends <close-session/> or disconnects.
func (f *NetconfFrontend) Serve(username string, sess RawSession) error {
	sessionID := int(atomic.AddInt64(&f.sessionCount, 1))

	hello, err := f.exchange(sessionID, username, "login", "")
	if err != nil {
		return err
	}
	if _, err := xmltree.FromString(hello); err != nil {
		return fmt.Errorf("frontend(netconf): invalid hello from manager: %w", err)
	}
	if err := sess.WriteString(hello + netconfSeparator); err != nil {
		return err
	}

	// hello from client, discarded after a well-formedness check.
	clientHello, ok, err := sess.ReadUntil(netconfSeparator)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := xmltree.FromString(clientHello); err != nil {
		return fmt.Errorf("frontend(netconf): invalid hello from client: %w", err)
	}

	for {
		received, ok, err := sess.ReadUntil(netconfSeparator)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		rpc, err := xmltree.FromString(received)
		if err != nil {
			return fmt.Errorf("frontend(netconf): invalid rpc from client: %w", err)
		}
		messageID, _ := rpc.Attr("message-id")

		if _, ok := rpc.Child("close-session"); ok {
			reply := fmt.Sprintf(`<rpc-reply message-id="%s" xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><ok/></rpc-reply>`, messageID)
			return sess.WriteString(reply + netconfSeparator)
		}

		reply, err := f.exchange(sessionID, username, "established", received)
		if err != nil {
			reply = fmt.Sprintf(`<rpc-reply message-id="%s" xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><rpc-error><error-type>protocol</error-type><error-tag>operation-failed</error-tag><error-severity>error</error-severity><error-message>%s</error-message></rpc-error></rpc-reply>`, messageID, err.Error())
		}
		if err := sess.WriteString(reply + netconfSeparator); err != nil {
			return err
		}
	}
}

func (f *NetconfFrontend) exchange(sessionID int, username, connectionStatus, rpc string) (string, error) {
	resp, err := f.Client.Handle(f.StubID, netconfHandleRequest{
		Protocol:         "netconf",
		ConnectionStatus: connectionStatus,
		Username:         username,
		SessionID:        sessionID,
		RPC:              rpc,
	})
	if err != nil {
		return "", err
	}
	return resp.Body, nil
}
