package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaptinlin/jtdgen/codegen"
	"github.com/kaptinlin/jtdgen/jtd"
)

func TestTypeCheckInteger(t *testing.T) {
	got := target{}.TypeCheck("v", jtd.TypeUint16)
	assert.Equal(t, "is_integer(v, 0, 65535)", got)
}

func TestTypeCheckTimestamp(t *testing.T) {
	got := target{}.TypeCheck("v", jtd.TypeTimestamp)
	assert.Equal(t, "is_timestamp(v)", got)
}

func TestBlockEndIsEnd(t *testing.T) {
	assert.Equal(t, "end", target{}.BlockEnd())
}

func TestForRangeIndexIsOneBased(t *testing.T) {
	got := target{}.ForRangeIndex("i0", "v")
	assert.Equal(t, "for i0 = 1, #v do", got)
}

func TestConcatUsesDoubleDot(t *testing.T) {
	got := target{}.Concat("a", `"/"`, "i0")
	assert.Equal(t, `a .. "/" .. i0`, got)
}

func TestEnumMemberNeverHoists(t *testing.T) {
	// Lua has no native set literal in this target's design; even large
	// enums stay an inline equality chain.
	values := make([]string, codegen.EnumHoistThreshold+5)
	for i := range values {
		values[i] = string(rune('a' + i))
	}
	got := target{}.EnumMember("v", values)
	assert.NotContains(t, got, "Set")
	assert.Contains(t, got, " or ")
}

func TestKnownKeyEmptySetIsFalse(t *testing.T) {
	assert.Equal(t, "false", target{}.KnownKey("k", nil))
}

func TestPushErrorUsesTableInsert(t *testing.T) {
	got := target{}.PushError("errors", "ip", "sp")
	assert.Equal(t, "table.insert(errors, { instancePath = ip, schemaPath = sp })", got)
}

func TestNewRegistersUnderLua(t *testing.T) {
	factory, ok := codegen.Lookup("lua")
	assert.True(t, ok)
	assert.Equal(t, "lua", factory().Name())
}
