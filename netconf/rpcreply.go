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

// Package netconf runs one NETCONF rpc against a stub's configstore.Store,
// grounded on libs/netconf.py and domain/netconf_service_domain.py's
// NetconfService.
package netconf

import (
	"fmt"

	"github.com/netfaker/netfaker/xmltree"
)

const baseNamespace = "urn:ietf:params:xml:ns:netconf:base:1.0"

// ParseRPC parses a <rpc> element out of its raw XML text, as carried over
// the protocolevt.NetconfEvent.RPC field.
func ParseRPC(rpcXML string) (*xmltree.Element, error) {
	rpc, err := xmltree.FromString(rpcXML)
	if err != nil {
		return nil, fmt.Errorf("netconf: parsing rpc: %w", err)
	}
	return rpc, nil
}

// MessageID reads the message-id attribute every rpc carries.
func MessageID(rpc *xmltree.Element) (string, error) {
	id, ok := rpc.Attr("message-id")
	if !ok {
		return "", fmt.Errorf("netconf: rpc has no message-id attribute")
	}
	return id, nil
}

// ProtocolOperation is the local name of rpc's single child element, e.g.
// "get-config" or "edit-config". A device-profile handler inspects this to
// special-case a proprietary operation before delegating the rest to
// Service.ExecuteParsed.
func ProtocolOperation(rpc *xmltree.Element) (string, error) {
	if len(rpc.Children) == 0 {
		return "", fmt.Errorf("netconf: rpc has no protocol operation element")
	}
	return rpc.Children[0].Name, nil
}

func createRPCReply(messageID string, body *xmltree.Element) *xmltree.Element {
	reply := xmltree.New("rpc-reply", baseNamespace)
	reply.SetAttr("message-id", messageID, false)
	reply.Append(body)
	return reply
}

// CreateOKReply builds the `<rpc-reply><ok/></rpc-reply>` every successful
// non-query operation returns.
func CreateOKReply(messageID string) *xmltree.Element {
	return createRPCReply(messageID, xmltree.New("ok", ""))
}

// CreateErrorReply builds an `<rpc-error>` reply with error-type=protocol,
// error-tag=operation-failed, error-severity=error, matching
// libs/netconf.py's create_rpc_error_reply.
func CreateErrorReply(messageID, message string) *xmltree.Element {
	if message == "" {
		message = "syntax error"
	}
	errEl := xmltree.New("rpc-error", baseNamespace)
	addText := func(tag, text string) {
		child := xmltree.NewSub(errEl, tag, baseNamespace)
		child.Text, child.HasText = text, true
	}
	addText("error-type", "protocol")
	addText("error-tag", "operation-failed")
	addText("error-severity", "error")
	addText("error-message", message)
	xmltree.NewSub(errEl, "error-info", baseNamespace)
	return createRPCReply(messageID, errEl)
}

func createDataReply(messageID string, config *xmltree.Element) *xmltree.Element {
	data := xmltree.New("data", baseNamespace)
	if len(config.Children) > 0 {
		data.Append(config.Children[0])
	}
	return createRPCReply(messageID, data)
}
