package rust

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaptinlin/jtdgen/codegen"
	"github.com/kaptinlin/jtdgen/jtd"
)

func TestTypeCheckInteger(t *testing.T) {
	got := target{}.TypeCheck("v", jtd.TypeInt8)
	assert.Contains(t, got, "n.fract() == 0.0")
	assert.Contains(t, got, "n >= -128")
	assert.Contains(t, got, "n <= 127")
}

func TestErrorsArgAddsMutBorrow(t *testing.T) {
	assert.Equal(t, "&mut errors", target{}.ErrorsArg("errors"))
}

func TestConcatProducesBorrowableFormat(t *testing.T) {
	got := target{}.Concat("a", `"/"`, "i0")
	assert.True(t, strings.HasPrefix(got, "&format!("))
	assert.Contains(t, got, `"{}{}{}"`)
	assert.Contains(t, got, `a, "/", i0`)
}

func TestIndexReturnsReference(t *testing.T) {
	got := target{}.Index("v", "i0")
	assert.Equal(t, "&v.as_array().unwrap()[i0]", got)
}

func TestPropGetUsesGetUnwrap(t *testing.T) {
	assert.Equal(t, `v.get("name").unwrap()`, target{}.PropGet("v", "name"))
}

func TestDynGetUsesAsStr(t *testing.T) {
	assert.Equal(t, "v.get(k.as_str()).unwrap()", target{}.DynGet("v", "k"))
}

func TestEnumMemberHoistsLargeSets(t *testing.T) {
	values := make([]string, codegen.EnumHoistThreshold+1)
	for i := range values {
		values[i] = string(rune('a' + i))
	}
	got := target{}.EnumMember("v", values)
	assert.Contains(t, got, ".contains(&v)")
}

func TestEnumMemberInlinesSmallSets(t *testing.T) {
	got := target{}.EnumMember("v", []string{"a", "b"})
	assert.Equal(t, `(v == "a" || v == "b")`, got)
}

func TestFuncSignatureUsesReferenceParams(t *testing.T) {
	got := target{}.FuncSignature("validate_x")
	assert.Contains(t, got, "value: &Value")
	assert.Contains(t, got, "errors: &mut Vec<ValidationError>")
	assert.Contains(t, got, "instance_path: &str")
}

func TestNewRegistersUnderRust(t *testing.T) {
	factory, ok := codegen.Lookup("rust")
	assert.True(t, ok)
	assert.Equal(t, "rust", factory().Name())
}
