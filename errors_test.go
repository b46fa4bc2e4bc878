package jtd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaErrorUnwrapMatchesSentinel(t *testing.T) {
	err := newSchemaError(KindRefUnresolved, "/properties/a/ref")
	assert.True(t, errors.Is(err, ErrRefUnresolved))
	assert.False(t, errors.Is(err, ErrEnumEmpty))
}

func TestSchemaErrorMessageIncludesPointerAndKind(t *testing.T) {
	err := newSchemaError(KindEnumEmpty, "/definitions/x/enum")
	msg := err.Error()
	assert.Contains(t, msg, "EnumEmpty")
	assert.Contains(t, msg, "/definitions/x/enum")
}

func TestSchemaErrorLocalizeFallsBackWhenLocalizerNil(t *testing.T) {
	err := newSchemaError(KindUnknownKeyword, "/typo")
	assert.Equal(t, err.Error(), err.Localize(nil))
}

func TestKindCausesCoversEveryDeclaredKind(t *testing.T) {
	kinds := []SchemaErrorKind{
		KindNotObject, KindMultipleForms, KindUnknownTypeKeyword,
		KindEnumNotArray, KindEnumEmpty, KindEnumDuplicate, KindEnumMemberNotString,
		KindRefUnresolved, KindDefinitionsOnNonRoot, KindPropertiesOverlap,
		KindDiscriminatorMappingNotProperties, KindDiscriminatorTagCollision,
		KindNullableNotBoolean, KindUnknownKeyword,
	}
	for _, k := range kinds {
		_, ok := kindCauses[k]
		assert.True(t, ok, "kind %s has no registered cause", k)
	}
}
