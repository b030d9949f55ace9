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

// Package protocolevt holds the JSON boundary types the manager's
// POST /stubs/{id}:handle endpoint decodes a request into and encodes a
// handler's result from, per spec.md §6. Grounded on
// application/plugin.py's Request/Response/Context and their per-protocol
// subclasses.
package protocolevt

import (
	"encoding/json"
	"fmt"
)

// Protocol tags a ProtocolEvent's shape.
type Protocol string

const (
	HTTP    Protocol = "http"
	HTTPS   Protocol = "https"
	Netconf Protocol = "netconf"
	SSH     Protocol = "ssh"
	Telnet  Protocol = "telnet"
	SNMP    Protocol = "snmp"
)

// ConnectionStatus distinguishes a session's first message (before any
// login handshake response) from later established-session messages, for
// NETCONF, SSH, and TELNET events.
type ConnectionStatus string

const (
	Login       ConnectionStatus = "login"
	Established ConnectionStatus = "established"
)

// Event is one decoded ProtocolEvent. Exactly one of HTTP/Netconf/SSH/
// Telnet/SNMP is non-nil, selected by Protocol.
type Event struct {
	Protocol Protocol
	StubID   string

	HTTP    *HTTPEvent
	Netconf *NetconfEvent
	SSH     *SSHEvent
	Telnet  *TelnetEvent
	SNMP    *SNMPEvent
}

// HTTPEvent is the http/https event body.
type HTTPEvent struct {
	Method  string              `json:"method"`
	Path    string              `json:"path"`
	Query   map[string][]string `json:"query"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

// NetconfEvent is the netconf event body. RPC is the raw rpc XML string;
// the netconf package parses it once it knows the event isn't a login.
type NetconfEvent struct {
	ConnectionStatus ConnectionStatus `json:"connectionStatus"`
	Username         string           `json:"username"`
	SessionID        int              `json:"sessionId"`
	RPC              string           `json:"rpc"`
}

// SSHEvent is the ssh event body.
type SSHEvent struct {
	ConnectionStatus ConnectionStatus       `json:"connectionStatus"`
	Username         string                 `json:"username"`
	SessionID        string                 `json:"sessionId"`
	Input            string                 `json:"input"`
	Prompt           string                 `json:"prompt"`
	State            map[string]interface{} `json:"state"`
}

// TelnetEvent is the telnet event body.
type TelnetEvent struct {
	ConnectionStatus ConnectionStatus       `json:"connectionStatus"`
	SessionID        string                 `json:"sessionId"`
	Input            string                 `json:"input"`
	Prompt           string                 `json:"prompt"`
	State            map[string]interface{} `json:"state"`
}

// PDUType is an SNMP request's operation kind.
type PDUType string

const (
	PDUGet     PDUType = "GET"
	PDUGetNext PDUType = "GET_NEXT"
	PDUGetBulk PDUType = "GET_BULK"
)

// SNMPVersion is the SNMP protocol version a request was received over.
type SNMPVersion string

const (
	SNMPv1  SNMPVersion = "v1"
	SNMPv2c SNMPVersion = "v2c"
)

// SNMPObjectRequest is one requested OID in an SNMP event.
type SNMPObjectRequest struct {
	OID   string      `json:"oid"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// SNMPEvent is the snmp event body.
type SNMPEvent struct {
	PDUType        PDUType             `json:"pduType"`
	Version        SNMPVersion         `json:"version"`
	RequestID      int                 `json:"requestId"`
	Community      string              `json:"community"`
	Objects        []SNMPObjectRequest `json:"objects"`
	NonRepeaters   int                 `json:"non_repeaters"`
	MaxRepetitions int                 `json:"max_repetitions"`
}

// ParseEvent decodes a ProtocolEvent JSON body, selecting the concrete shape
// by its "protocol" tag.
func ParseEvent(body []byte) (*Event, error) {
	var tag struct {
		Protocol Protocol `json:"protocol"`
	}
	if err := json.Unmarshal(body, &tag); err != nil {
		return nil, fmt.Errorf("protocolevt: decoding protocol tag: %w", err)
	}

	ev := &Event{Protocol: tag.Protocol}
	switch tag.Protocol {
	case HTTP, HTTPS:
		var h HTTPEvent
		if err := json.Unmarshal(body, &h); err != nil {
			return nil, fmt.Errorf("protocolevt: decoding http event: %w", err)
		}
		ev.HTTP = &h
	case Netconf:
		var n NetconfEvent
		if err := json.Unmarshal(body, &n); err != nil {
			return nil, fmt.Errorf("protocolevt: decoding netconf event: %w", err)
		}
		ev.Netconf = &n
	case SSH:
		var s SSHEvent
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("protocolevt: decoding ssh event: %w", err)
		}
		ev.SSH = &s
	case Telnet:
		var te TelnetEvent
		if err := json.Unmarshal(body, &te); err != nil {
			return nil, fmt.Errorf("protocolevt: decoding telnet event: %w", err)
		}
		ev.Telnet = &te
	case SNMP:
		var sn SNMPEvent
		if err := json.Unmarshal(body, &sn); err != nil {
			return nil, fmt.Errorf("protocolevt: decoding snmp event: %w", err)
		}
		ev.SNMP = &sn
	default:
		return nil, fmt.Errorf("protocolevt: unknown protocol %q", tag.Protocol)
	}
	return ev, nil
}
