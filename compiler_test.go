package jtd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, schema string) *CompiledSchema {
	t.Helper()
	cs, err := NewCompiler().Compile([]byte(schema))
	require.NoError(t, err)
	return cs
}

func compileErr(t *testing.T, schema string) *SchemaError {
	t.Helper()
	cs, err := NewCompiler().Compile([]byte(schema))
	require.Error(t, err)
	require.Nil(t, cs)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	return se
}

func TestCompileEmptySchema(t *testing.T) {
	cs := compile(t, `{}`)
	assert.Equal(t, Empty{}, cs.Root)
}

func TestCompileEmptySchemaIsIdempotent(t *testing.T) {
	cs1 := compile(t, `{}`)
	cs2 := compile(t, `{}`)
	assert.Equal(t, cs1.Root, cs2.Root)
}

func TestCompileTypeForm(t *testing.T) {
	cs := compile(t, `{"type": "uint8"}`)
	assert.Equal(t, Type{Keyword: TypeUint8}, cs.Root)
}

func TestCompileUnknownTypeKeyword(t *testing.T) {
	se := compileErr(t, `{"type": "bigint"}`)
	assert.Equal(t, KindUnknownTypeKeyword, se.Kind)
	assert.Equal(t, "/type", se.Pointer)
}

func TestCompileEnumForm(t *testing.T) {
	cs := compile(t, `{"enum": ["A", "B", "C"]}`)
	assert.Equal(t, Enum{Values: []string{"A", "B", "C"}}, cs.Root)
}

func TestCompileEnumEmpty(t *testing.T) {
	se := compileErr(t, `{"enum": []}`)
	assert.Equal(t, KindEnumEmpty, se.Kind)
}

func TestCompileEnumDuplicate(t *testing.T) {
	se := compileErr(t, `{"enum": ["A", "A"]}`)
	assert.Equal(t, KindEnumDuplicate, se.Kind)
}

func TestCompileEnumMemberNotString(t *testing.T) {
	se := compileErr(t, `{"enum": ["A", 1]}`)
	assert.Equal(t, KindEnumMemberNotString, se.Kind)
}

func TestCompileEnumNotArray(t *testing.T) {
	se := compileErr(t, `{"enum": "A"}`)
	assert.Equal(t, KindEnumNotArray, se.Kind)
}

func TestCompileElementsForm(t *testing.T) {
	cs := compile(t, `{"elements": {"type": "string"}}`)
	assert.Equal(t, Elements{Inner: Type{Keyword: TypeString}}, cs.Root)
}

func TestCompileValuesForm(t *testing.T) {
	cs := compile(t, `{"values": {"type": "float64"}}`)
	assert.Equal(t, Values{Inner: Type{Keyword: TypeFloat64}}, cs.Root)
}

func TestCompilePropertiesForm(t *testing.T) {
	cs := compile(t, `{
		"properties": {"name": {"type": "string"}},
		"optionalProperties": {"nickname": {"type": "string"}}
	}`)
	props, ok := cs.Root.(Properties)
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, props.RequiredNames)
	assert.Equal(t, []string{"nickname"}, props.OptionalNames)
	assert.False(t, props.Additional)
}

func TestCompilePropertiesAdditionalTrue(t *testing.T) {
	cs := compile(t, `{"properties": {"a": {}}, "additionalProperties": true}`)
	props := cs.Root.(Properties)
	assert.True(t, props.Additional)
}

func TestCompilePropertiesOrderPreserved(t *testing.T) {
	cs := compile(t, `{"properties": {"z": {}, "a": {}, "m": {}}}`)
	props := cs.Root.(Properties)
	assert.Equal(t, []string{"z", "a", "m"}, props.RequiredNames)
}

func TestCompilePropertiesOverlap(t *testing.T) {
	se := compileErr(t, `{"properties": {"a": {}}, "optionalProperties": {"a": {}}}`)
	assert.Equal(t, KindPropertiesOverlap, se.Kind)
}

func TestCompileEmptyPropertiesIsValidForm(t *testing.T) {
	// "properties": {} is a properties form with zero required fields, not
	// the empty form.
	cs := compile(t, `{"properties": {}}`)
	_, ok := cs.Root.(Properties)
	assert.True(t, ok)
}

func TestCompileRefForm(t *testing.T) {
	cs := compile(t, `{"definitions": {"name": {"type": "string"}}, "ref": "name"}`)
	assert.Equal(t, Ref{Name: "name"}, cs.Root)
	assert.Equal(t, Type{Keyword: TypeString}, cs.Definitions["name"])
}

func TestCompileRefUnresolved(t *testing.T) {
	se := compileErr(t, `{"ref": "missing"}`)
	assert.Equal(t, KindRefUnresolved, se.Kind)
}

func TestCompileRefForwardReference(t *testing.T) {
	// "a" references "b", which is declared after it in source order; the
	// two-pass registration must make this resolve.
	cs := compile(t, `{
		"definitions": {
			"a": {"ref": "b"},
			"b": {"type": "string"}
		},
		"ref": "a"
	}`)
	assert.Equal(t, Ref{Name: "a"}, cs.Root)
	assert.Equal(t, Ref{Name: "b"}, cs.Definitions["a"])
	assert.Equal(t, Type{Keyword: TypeString}, cs.Definitions["b"])
}

func TestCompileRefMutualRecursion(t *testing.T) {
	cs := compile(t, `{
		"definitions": {
			"a": {"properties": {"next": {"ref": "b"}}},
			"b": {"properties": {"next": {"ref": "a"}}}
		},
		"ref": "a"
	}`)
	aProps := cs.Definitions["a"].(Properties)
	assert.Equal(t, Ref{Name: "b"}, aProps.Required["next"])
}

func TestCompileDefinitionsOnNonRoot(t *testing.T) {
	se := compileErr(t, `{"properties": {"a": {"definitions": {"x": {}}}}}`)
	assert.Equal(t, KindDefinitionsOnNonRoot, se.Kind)
}

func TestCompileDefinitionOrderPreserved(t *testing.T) {
	cs := compile(t, `{"definitions": {"z": {}, "a": {}, "m": {}}, "ref": "z"}`)
	assert.Equal(t, []string{"z", "a", "m"}, cs.DefinitionNames)
}

func TestCompileNullableWrapsNode(t *testing.T) {
	cs := compile(t, `{"type": "string", "nullable": true}`)
	assert.Equal(t, Nullable{Inner: Type{Keyword: TypeString}}, cs.Root)
}

func TestCompileNullableOnEmptyStaysEmpty(t *testing.T) {
	// Nullable law: nullable wrapping an Empty node is still Empty, since
	// Empty already matches null.
	cs := compile(t, `{"nullable": true}`)
	assert.Equal(t, Empty{}, cs.Root)
}

func TestCompileNullableFalseDoesNotWrap(t *testing.T) {
	cs := compile(t, `{"type": "string", "nullable": false}`)
	assert.Equal(t, Type{Keyword: TypeString}, cs.Root)
}

func TestCompileNullableNotBoolean(t *testing.T) {
	se := compileErr(t, `{"type": "string", "nullable": "yes"}`)
	assert.Equal(t, KindNullableNotBoolean, se.Kind)
}

func TestCompileMultipleForms(t *testing.T) {
	se := compileErr(t, `{"type": "string", "enum": ["a"]}`)
	assert.Equal(t, KindMultipleForms, se.Kind)
}

func TestCompileUnknownKeyword(t *testing.T) {
	se := compileErr(t, `{"typo": true}`)
	assert.Equal(t, KindUnknownKeyword, se.Kind)
	assert.Equal(t, "/typo", se.Pointer)
}

func TestCompileNotObject(t *testing.T) {
	se := compileErr(t, `"not an object"`)
	assert.Equal(t, KindNotObject, se.Kind)
}

func TestCompileDiscriminatorForm(t *testing.T) {
	cs := compile(t, `{
		"discriminator": "kind",
		"mapping": {
			"circle": {"properties": {"radius": {"type": "float64"}}},
			"square": {"properties": {"side": {"type": "float64"}}}
		}
	}`)
	discrim, ok := cs.Root.(Discrim)
	require.True(t, ok)
	assert.Equal(t, "kind", discrim.Tag)
	assert.Equal(t, []string{"circle", "square"}, discrim.MappingNames)
	assert.Contains(t, discrim.Mapping, "circle")
	assert.Contains(t, discrim.Mapping, "square")
}

func TestCompileDiscriminatorMappingNotProperties(t *testing.T) {
	se := compileErr(t, `{
		"discriminator": "kind",
		"mapping": {"a": {"type": "string"}}
	}`)
	assert.Equal(t, KindDiscriminatorMappingNotProperties, se.Kind)
}

func TestCompileDiscriminatorTagCollision(t *testing.T) {
	se := compileErr(t, `{
		"discriminator": "kind",
		"mapping": {
			"a": {"properties": {"kind": {"type": "string"}}}
		}
	}`)
	assert.Equal(t, KindDiscriminatorTagCollision, se.Kind)
}

func TestCompileDiscriminatorMissingMapping(t *testing.T) {
	se := compileErr(t, `{"discriminator": "kind"}`)
	assert.Equal(t, KindMultipleForms, se.Kind)
}

func TestCompileDiscriminatorMissingDiscriminator(t *testing.T) {
	se := compileErr(t, `{"mapping": {"a": {"properties": {}}}}`)
	assert.Equal(t, KindMultipleForms, se.Kind)
}

func TestCompileIsDeterministicAcrossRuns(t *testing.T) {
	schema := `{
		"definitions": {"addr": {"properties": {"city": {"type": "string"}}}},
		"properties": {
			"name": {"type": "string"},
			"home": {"ref": "addr"},
			"tags": {"elements": {"type": "string"}}
		}
	}`
	cs1 := compile(t, schema)
	cs2 := compile(t, schema)
	assert.Equal(t, cs1, cs2)
}

func TestCompileMinimalAST(t *testing.T) {
	// A schema with no nullable, no definitions, and a single keyword
	// compiles to exactly the matching node with no incidental wrapping.
	cs := compile(t, `{"type": "boolean"}`)
	assert.Equal(t, Type{Keyword: TypeBoolean}, cs.Root)
	assert.Empty(t, cs.Definitions)
	assert.Empty(t, cs.DefinitionNames)
}

func TestCompileRejectThenNoPartialResult(t *testing.T) {
	cs, err := NewCompiler().Compile([]byte(`{"properties": {"a": {"type": "nope"}}}`))
	require.Error(t, err)
	assert.Nil(t, cs)
}

func TestCompileSchemaConvenienceWrapper(t *testing.T) {
	s := Schema{Type: TypeString}
	cs, err := NewCompiler().CompileSchema(s)
	require.NoError(t, err)
	assert.Equal(t, Type{Keyword: TypeString}, cs.Root)
}
