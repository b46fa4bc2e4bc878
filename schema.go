// Package jtd implements an ahead-of-time compiler for RFC 8927 JSON Type
// Definition (JTD) schemas: it turns a parsed JTD schema into an immutable
// AST that the sibling codegen package walks to emit validator source code
// in a target language.
package jtd

import "github.com/goccy/go-json"

// Schema is the raw, wire-shaped representation of a JSON Type Definition
// schema, decoded directly from the schema document. It mirrors every JTD
// keyword one-to-one; Compiler.Compile walks it to produce the compiled
// Node AST.
//
// Pointer and nil-map fields distinguish "keyword absent" from "keyword
// present with its zero value" (e.g. AdditionalProperties must default to
// false per RFC 8927 while remaining distinguishable from an explicit
// "additionalProperties": false).
type Schema struct {
	Definitions          map[string]Schema      `json:"definitions,omitempty"`
	Metadata             map[string]interface{} `json:"metadata,omitempty"`
	Nullable             bool                    `json:"nullable,omitempty"`
	Ref                  *string                 `json:"ref,omitempty"`
	Type                 TypeKeyword             `json:"type,omitempty"`
	Enum                 []string                `json:"enum,omitempty"`
	Elements             *Schema                 `json:"elements,omitempty"`
	Properties           map[string]Schema       `json:"properties,omitempty"`
	OptionalProperties   map[string]Schema       `json:"optionalProperties,omitempty"`
	AdditionalProperties *bool                   `json:"additionalProperties,omitempty"`
	Values               *Schema                 `json:"values,omitempty"`
	Discriminator        string                  `json:"discriminator,omitempty"`
	Mapping              map[string]Schema       `json:"mapping,omitempty"`

	// raw holds every member actually present in the source JSON object,
	// keyed by name. Compiler.Compile consults it, not the typed fields
	// above, whenever the difference between "keyword absent" and
	// "keyword present with a value the typed field cannot represent"
	// (e.g. "nullable": "yes") matters for diagnostics.
	raw map[string]json.RawMessage
}

// Raw returns the JSON members present on s's source object. It is nil for
// a Schema built programmatically rather than decoded from JSON.
func (s Schema) Raw() map[string]json.RawMessage {
	return s.raw
}

// Has reports whether key was present as a member of s's source JSON
// object, regardless of its value.
func (s Schema) Has(key string) bool {
	_, ok := s.raw[key]
	return ok
}

// UnmarshalJSON implements json.Unmarshaler. It records every member of the
// source object in s.raw before attempting a best-effort typed decode of
// each recognized keyword, so a malformed keyword value (the wrong JSON
// type) never prevents Compiler.Compile from inspecting the rest of the
// object and reporting a precise SchemaError.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.raw = raw

	decode := func(key string, dst interface{}) {
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	decode("definitions", &s.Definitions)
	decode("metadata", &s.Metadata)
	decode("nullable", &s.Nullable)
	decode("ref", &s.Ref)
	decode("type", &s.Type)
	decode("enum", &s.Enum)
	decode("elements", &s.Elements)
	decode("properties", &s.Properties)
	decode("optionalProperties", &s.OptionalProperties)
	decode("additionalProperties", &s.AdditionalProperties)
	decode("values", &s.Values)
	decode("discriminator", &s.Discriminator)
	decode("mapping", &s.Mapping)
	return nil
}

// TypeKeyword is the closed set of values the JTD "type" keyword accepts.
type TypeKeyword string

// The eleven type keywords defined by RFC 8927 section 3.3.2.
const (
	TypeBoolean   TypeKeyword = "boolean"
	TypeString    TypeKeyword = "string"
	TypeTimestamp TypeKeyword = "timestamp"
	TypeFloat32   TypeKeyword = "float32"
	TypeFloat64   TypeKeyword = "float64"
	TypeInt8      TypeKeyword = "int8"
	TypeUint8     TypeKeyword = "uint8"
	TypeInt16     TypeKeyword = "int16"
	TypeUint16    TypeKeyword = "uint16"
	TypeInt32     TypeKeyword = "int32"
	TypeUint32    TypeKeyword = "uint32"
)

// validTypeKeywords is consulted when validating a "type" form; kept as a
// map so membership checks don't scale linearly with every compiled "type"
// node.
var validTypeKeywords = map[TypeKeyword]bool{
	TypeBoolean:   true,
	TypeString:    true,
	TypeTimestamp: true,
	TypeFloat32:   true,
	TypeFloat64:   true,
	TypeInt8:      true,
	TypeUint8:     true,
	TypeInt16:     true,
	TypeUint16:    true,
	TypeInt32:     true,
	TypeUint32:    true,
}

// IntegerRange returns the closed [min, max] range a given integer type
// keyword admits. ok is false for non-integer keywords (boolean, string,
// timestamp, float32, float64).
func (t TypeKeyword) IntegerRange() (min, max float64, ok bool) {
	switch t {
	case TypeInt8:
		return -128, 127, true
	case TypeUint8:
		return 0, 255, true
	case TypeInt16:
		return -32768, 32767, true
	case TypeUint16:
		return 0, 65535, true
	case TypeInt32:
		return -2147483648, 2147483647, true
	case TypeUint32:
		return 0, 4294967295, true
	default:
		return 0, 0, false
	}
}

// IsInteger reports whether t is one of the six integer type keywords.
func (t TypeKeyword) IsInteger() bool {
	_, _, ok := t.IntegerRange()
	return ok
}
