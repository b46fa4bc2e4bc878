package jtd

import (
	"errors"
	"fmt"

	"github.com/kaptinlin/go-i18n"
)

// === Schema Well-Formedness Errors ===
//
// These are the SchemaErrorKind sentinels a Compiler.Compile failure wraps.
// Compare against them with errors.Is; SchemaError.Kind names the same
// failure as a string value.
var (
	// ErrNotObject is returned when a schema position that must be a JSON
	// object is something else.
	ErrNotObject = errors.New("jtd: schema must be a JSON object")

	// ErrMultipleForms is returned when a schema object carries more than
	// one form-selector keyword.
	ErrMultipleForms = errors.New("jtd: schema uses more than one form")

	// ErrUnknownTypeKeyword is returned when "type" is not one of the
	// eleven recognized type keywords.
	ErrUnknownTypeKeyword = errors.New("jtd: unknown type keyword")

	// ErrEnumNotArray is returned when "enum" is present but not a JSON
	// array.
	ErrEnumNotArray = errors.New("jtd: enum must be an array")

	// ErrEnumEmpty is returned when "enum" is an empty array.
	ErrEnumEmpty = errors.New("jtd: enum must not be empty")

	// ErrEnumDuplicate is returned when "enum" contains a repeated value.
	ErrEnumDuplicate = errors.New("jtd: enum contains a duplicate value")

	// ErrEnumMemberNotString is returned when an "enum" member is not a
	// string.
	ErrEnumMemberNotString = errors.New("jtd: enum member must be a string")

	// ErrRefUnresolved is returned when "ref" names a definition that does
	// not exist.
	ErrRefUnresolved = errors.New("jtd: ref does not resolve to a definition")

	// ErrDefinitionsOnNonRoot is returned when "definitions" appears on a
	// schema object other than the document root.
	ErrDefinitionsOnNonRoot = errors.New("jtd: definitions only allowed on the root schema")

	// ErrPropertiesOverlap is returned when a property name appears in both
	// "properties" and "optionalProperties".
	ErrPropertiesOverlap = errors.New("jtd: property declared both required and optional")

	// ErrDiscriminatorMappingNotProperties is returned when a
	// "discriminator" mapping value does not compile to the properties
	// form.
	ErrDiscriminatorMappingNotProperties = errors.New("jtd: discriminator mapping value must use the properties form")

	// ErrDiscriminatorTagCollision is returned when a "discriminator"
	// mapping value's properties form declares the tag field itself.
	ErrDiscriminatorTagCollision = errors.New("jtd: discriminator mapping redeclares the tag field")

	// ErrNullableNotBoolean is returned when "nullable" is present but not
	// a JSON boolean.
	ErrNullableNotBoolean = errors.New("jtd: nullable must be a boolean")

	// ErrUnknownKeyword is returned when a schema object has a member that
	// is not a recognized JTD keyword.
	ErrUnknownKeyword = errors.New("jtd: unknown schema keyword")
)

// === Code Generation Errors ===
var (
	// ErrUnknownTarget is returned when a caller names an emission target
	// codegen does not implement.
	ErrUnknownTarget = errors.New("jtd: unknown codegen target")

	// ErrInvalidDiscrimShape names a Discrim node that violates an invariant
	// the compiler enforces, which would indicate a compiler bug rather than
	// a schema error. The codegen emitter does not check Discrim invariants
	// and does not return it.
	ErrInvalidDiscrimShape = errors.New("jtd: discriminator node violates compiled invariants")
)

// SchemaErrorKind names the taxonomy of well-formedness failures a Compiler
// can report. It's the Kind field of SchemaError, exposed for callers that
// want to branch on the flavor of failure without string-matching Error().
type SchemaErrorKind string

// The SchemaErrorKind values, one per sentinel in the "Schema
// Well-Formedness Errors" block above.
const (
	KindNotObject                       SchemaErrorKind = "NotObject"
	KindMultipleForms                   SchemaErrorKind = "MultipleForms"
	KindUnknownTypeKeyword              SchemaErrorKind = "UnknownTypeKeyword"
	KindEnumNotArray                    SchemaErrorKind = "EnumNotArray"
	KindEnumEmpty                       SchemaErrorKind = "EnumEmpty"
	KindEnumDuplicate                   SchemaErrorKind = "EnumDuplicate"
	KindEnumMemberNotString             SchemaErrorKind = "EnumMemberNotString"
	KindRefUnresolved                   SchemaErrorKind = "RefUnresolved"
	KindDefinitionsOnNonRoot            SchemaErrorKind = "DefinitionsOnNonRoot"
	KindPropertiesOverlap               SchemaErrorKind = "PropertiesOverlap"
	KindDiscriminatorMappingNotProperties SchemaErrorKind = "DiscriminatorMappingNotProperties"
	KindDiscriminatorTagCollision       SchemaErrorKind = "DiscriminatorTagCollision"
	KindNullableNotBoolean              SchemaErrorKind = "NullableNotBoolean"
	KindUnknownKeyword                  SchemaErrorKind = "UnknownKeyword"
)

var kindCauses = map[SchemaErrorKind]error{
	KindNotObject:                         ErrNotObject,
	KindMultipleForms:                     ErrMultipleForms,
	KindUnknownTypeKeyword:                ErrUnknownTypeKeyword,
	KindEnumNotArray:                      ErrEnumNotArray,
	KindEnumEmpty:                         ErrEnumEmpty,
	KindEnumDuplicate:                     ErrEnumDuplicate,
	KindEnumMemberNotString:               ErrEnumMemberNotString,
	KindRefUnresolved:                     ErrRefUnresolved,
	KindDefinitionsOnNonRoot:              ErrDefinitionsOnNonRoot,
	KindPropertiesOverlap:                 ErrPropertiesOverlap,
	KindDiscriminatorMappingNotProperties: ErrDiscriminatorMappingNotProperties,
	KindDiscriminatorTagCollision:         ErrDiscriminatorTagCollision,
	KindNullableNotBoolean:                ErrNullableNotBoolean,
	KindUnknownKeyword:                    ErrUnknownKeyword,
}

// SchemaError reports that a schema is not a valid JTD document. Pointer is
// a JSON Pointer (RFC 6901) into the offending position of the source
// schema.
type SchemaError struct {
	Kind    SchemaErrorKind
	Pointer string
}

// newSchemaError builds a SchemaError for kind at pointer. kind must be a
// key of kindCauses; passing an unregistered kind is a programmer error.
func newSchemaError(kind SchemaErrorKind, pointer string) *SchemaError {
	return &SchemaError{Kind: kind, Pointer: pointer}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pointer, e.cause())
}

func (e *SchemaError) cause() error {
	if c, ok := kindCauses[e.Kind]; ok {
		return c
	}
	return errors.New("jtd: invalid schema")
}

// Unwrap exposes the sentinel error behind e.Kind, so errors.Is(err,
// jtd.ErrRefUnresolved) works against a returned *SchemaError.
func (e *SchemaError) Unwrap() error {
	return e.cause()
}

// Localize renders e using the provided localizer, falling back to Error()
// when localizer is nil or the kind has no translated message. Message IDs
// match SchemaErrorKind values so translation catalogs can key off them
// directly.
func (e *SchemaError) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return e.Error()
	}
	msg := localizer.Get(string(e.Kind), i18n.Vars(map[string]any{
		"pointer": e.Pointer,
	}))
	if msg == "" || msg == string(e.Kind) {
		return e.Error()
	}
	return msg
}
