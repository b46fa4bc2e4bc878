package jtd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaUnmarshalRecordsRawMembers(t *testing.T) {
	var s Schema
	err := s.UnmarshalJSON([]byte(`{"type": "string", "nullable": true}`))
	require.NoError(t, err)

	assert.True(t, s.Has("type"))
	assert.True(t, s.Has("nullable"))
	assert.False(t, s.Has("enum"))
	assert.Equal(t, TypeString, s.Type)
	assert.True(t, s.Nullable)
}

func TestSchemaHasDistinguishesAbsentFromZeroValue(t *testing.T) {
	var s Schema
	err := s.UnmarshalJSON([]byte(`{"additionalProperties": false}`))
	require.NoError(t, err)

	assert.True(t, s.Has("additionalProperties"))
	require.NotNil(t, s.AdditionalProperties)
	assert.False(t, *s.AdditionalProperties)

	var absent Schema
	err = absent.UnmarshalJSON([]byte(`{}`))
	require.NoError(t, err)
	assert.False(t, absent.Has("additionalProperties"))
	assert.Nil(t, absent.AdditionalProperties)
}

func TestSchemaUnmarshalToleratesWrongKeywordShape(t *testing.T) {
	// "nullable" holding a string rather than a bool must not prevent
	// decoding the rest of the object; the compiler is responsible for
	// rejecting it with a precise SchemaError.
	var s Schema
	err := s.UnmarshalJSON([]byte(`{"nullable": "yes", "type": "string"}`))
	require.NoError(t, err)
	assert.True(t, s.Has("nullable"))
	assert.Equal(t, TypeString, s.Type)
}

func TestTypeKeywordIntegerRange(t *testing.T) {
	cases := []struct {
		kw      TypeKeyword
		wantOK  bool
		wantMin float64
		wantMax float64
	}{
		{TypeInt8, true, -128, 127},
		{TypeUint8, true, 0, 255},
		{TypeInt16, true, -32768, 32767},
		{TypeUint16, true, 0, 65535},
		{TypeInt32, true, -2147483648, 2147483647},
		{TypeUint32, true, 0, 4294967295},
		{TypeBoolean, false, 0, 0},
		{TypeString, false, 0, 0},
		{TypeFloat32, false, 0, 0},
		{TypeFloat64, false, 0, 0},
		{TypeTimestamp, false, 0, 0},
	}
	for _, tc := range cases {
		t.Run(string(tc.kw), func(t *testing.T) {
			min, max, ok := tc.kw.IntegerRange()
			assert.Equal(t, tc.wantOK, ok)
			if ok {
				assert.Equal(t, tc.wantMin, min)
				assert.Equal(t, tc.wantMax, max)
			}
		})
	}
}

func TestTypeKeywordIsInteger(t *testing.T) {
	assert.True(t, TypeUint8.IsInteger())
	assert.True(t, TypeInt32.IsInteger())
	assert.False(t, TypeFloat32.IsInteger())
	assert.False(t, TypeBoolean.IsInteger())
	assert.False(t, TypeTimestamp.IsInteger())
}
