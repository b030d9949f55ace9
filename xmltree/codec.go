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

package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// FromString parses an XML document into an Element tree, recording each
// element's resolved namespace in Namespace (xml.Decoder already resolves
// prefixes against xmlns declarations for us).
func FromString(s string) (*Element, error) {
	dec := xml.NewDecoder(strings.NewReader(s))
	var stack []*Element
	var root *Element
	for {
		tok, err := dec.Token()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("parsing xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := New(t.Name.Local, t.Name.Space)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.SetAttr(a.Name.Local, a.Value, false)
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Append(el)
			} else {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				text := strings.TrimSpace(string(t))
				if text != "" {
					stack[len(stack)-1].Text += text
					stack[len(stack)-1].HasText = true
				}
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("xml document has no root element")
	}
	return root, nil
}

// ToString serializes e (and its subtree) back to XML text.
func ToString(e *Element) string {
	var buf bytes.Buffer
	writeElement(&buf, e)
	return buf.String()
}

func writeElement(buf *bytes.Buffer, e *Element) {
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	if e.Namespace != "" {
		buf.WriteString(` xmlns="`)
		buf.WriteString(e.Namespace)
		buf.WriteByte('"')
	}
	if len(e.Attrs) > 0 {
		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteByte(' ')
			buf.WriteString(k)
			buf.WriteString(`="`)
			xml.EscapeText(buf, []byte(e.Attrs[k]))
			buf.WriteByte('"')
		}
	}
	if len(e.Children) == 0 && !e.HasText {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	if e.HasText {
		xml.EscapeText(buf, []byte(e.Text))
	}
	for _, c := range e.Children {
		writeElement(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(e.Name)
	buf.WriteByte('>')
}
