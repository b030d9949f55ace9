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

package snmp

import (
	"fmt"
	"strconv"
	"strings"
)

// OID is a dotted-decimal object identifier as a sequence of non-negative
// integer arcs. Ordering between OIDs is always by this numeric tuple, never
// by the string form: "1.2.9" sorts before "1.2.10".
type OID []uint64

// ParseOID parses a dotted-decimal string such as "1.3.6.1.2.1.2.2.1.1.1".
// A leading "." is tolerated and stripped.
func ParseOID(s string) (OID, error) {
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil, fmt.Errorf("snmp: empty OID")
	}
	parts := strings.Split(s, ".")
	oid := make(OID, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("snmp: invalid OID %q: arc %q: %w", s, p, err)
		}
		oid[i] = n
	}
	return oid, nil
}

// String renders the OID back to dotted-decimal form.
func (o OID) String() string {
	parts := make([]string, len(o))
	for i, n := range o {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(parts, ".")
}

// Compare returns -1, 0, or 1 as o is numerically less than, equal to, or
// greater than other, comparing arc by arc and treating a shorter common
// prefix as the lesser OID.
func (o OID) Compare(other OID) int {
	n := len(o)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		switch {
		case o[i] < other[i]:
			return -1
		case o[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	default:
		return 0
	}
}
