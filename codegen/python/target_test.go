package python

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaptinlin/jtdgen/codegen"
	"github.com/kaptinlin/jtdgen/jtd"
)

func TestTypeCheckInteger(t *testing.T) {
	got := target{}.TypeCheck("v", jtd.TypeInt32)
	assert.Equal(t, "_is_integer(v, -2147483648, 2147483647)", got)
}

func TestTypeCheckBooleanExcludedFromFloat(t *testing.T) {
	got := target{}.TypeCheck("v", jtd.TypeFloat64)
	assert.Contains(t, got, "not isinstance(v, bool)")
}

func TestBlockEndIsEmpty(t *testing.T) {
	assert.Equal(t, "", target{}.BlockEnd())
}

func TestConcatWrapsEveryFragmentInStr(t *testing.T) {
	got := target{}.Concat("a", `"/"`, "i0")
	assert.Equal(t, `str(a) + str("/") + str(i0)`, got)
}

func TestBoolLitUsesPythonCasing(t *testing.T) {
	assert.Equal(t, "True", target{}.BoolLit(true))
	assert.Equal(t, "False", target{}.BoolLit(false))
}

func TestAndOrEmptyIdentities(t *testing.T) {
	assert.Equal(t, "True", target{}.And())
	assert.Equal(t, "False", target{}.Or())
}

func TestEnumMemberSmallUsesTuple(t *testing.T) {
	got := target{}.EnumMember("v", []string{"a", "b"})
	assert.Equal(t, `v in ("a", "b",)`, got)
}

func TestEnumMemberLargeUsesSet(t *testing.T) {
	values := make([]string, codegen.EnumHoistThreshold+1)
	for i := range values {
		values[i] = string(rune('a' + i))
	}
	got := target{}.EnumMember("v", values)
	assert.Contains(t, got, "v in {")
}

func TestHasPropUsesInOperator(t *testing.T) {
	assert.Equal(t, `"k" in obj`, target{}.HasProp("obj", "k"))
}

func TestFuncNameHasLeadingUnderscore(t *testing.T) {
	assert.Equal(t, "_validate_foo", target{}.FuncName("foo"))
}

func TestNewRegistersUnderPythonAndPy(t *testing.T) {
	for _, name := range []string{"python", "py"} {
		factory, ok := codegen.Lookup(name)
		assert.True(t, ok)
		assert.Equal(t, "python", factory().Name())
	}
}
