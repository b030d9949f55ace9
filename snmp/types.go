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

// Package snmp holds one stub's SNMP object table and the GET/GET-NEXT/
// GET-BULK walk logic spec.md §4.5 describes, grounded on
// stub_domain.py's SnmpObject and Entity.{get,list,set,delete}_snmp_object.
package snmp

// Type is an SNMP value type tag, including the three synthetic
// no-data markers a walk can return in place of a real object.
type Type string

const (
	OctetString      Type = "OCTET_STRING"
	Integer          Type = "INTEGER"
	Counter32        Type = "COUNTER32"
	Counter64        Type = "COUNTER64"
	Gauge32          Type = "GAUGE32"
	TimeTicks        Type = "TIMETICKS"
	ObjectIdentifier Type = "OBJECT_IDENTIFIER"
	Null             Type = "NULL"
	IPAddress        Type = "IP_ADDRESS"
	NoSuchObject     Type = "NO_SUCH_OBJECT"
	NoSuchInstance   Type = "NO_SUCH_INSTANCE"
	EndOfMibView     Type = "END_OF_MIB_VIEW"
)

// Object is one (oid, type, value) entry of a Table.
type Object struct {
	OID   string
	Type  Type
	Value interface{}
}
