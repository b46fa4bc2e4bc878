// Package lua implements codegen.Target for Lua 5.1+, emitting a single
// module returning a validate(instance) function. Objects are assumed
// decoded the way dkjson/cjson decode them: Lua tables with string keys,
// arrays as tables with sequential integer keys starting at 1.
package lua

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jtdgen/codegen"
	"github.com/kaptinlin/jtdgen/jtd"
)

func init() {
	codegen.Register("lua", New)
}

type target struct{}

// New returns a fresh Lua codegen.Target.
func New() codegen.Target { return target{} }

func (target) Name() string          { return "lua" }
func (target) FileExtension() string { return "lua" }

func (target) FuncName(raw string) string { return "validate_" + raw }

const timestampPattern = `^(%d%d%d%d)%-(%d%d)%-(%d%d)T(%d%d):(%d%d):(%d%d)(%.%d+)?([Zz]?[%+%-]?%d?%d?:?%d?%d?)$`

func (target) Prelude() []string {
	return []string{
		"-- Generated by jtdgen. DO NOT EDIT.",
		"local M = {}",
		"",
		fmt.Sprintf("local TIMESTAMP_PATTERN = %q", timestampPattern),
		"",
		"local function is_timestamp(s)",
		"  if type(s) ~= \"string\" then return false end",
		"  local sec = s:match(\"T%d%d:%d%d:(%d%d)\")",
		"  if not s:match(TIMESTAMP_PATTERN) then return false end",
		"  local secn = tonumber(sec)",
		"  return secn ~= nil and secn <= 60",
		"end",
		"",
		"local function is_array(t)",
		"  if type(t) ~= \"table\" then return false end",
		"  local n = 0",
		"  for _ in pairs(t) do n = n + 1 end",
		"  return n == 0 or t[n] ~= nil",
		"end",
		"",
		"local function is_integer(n, lo, hi)",
		"  return type(n) == \"number\" and n == math.floor(n) and n >= lo and n <= hi",
		"end",
	}
}

func (target) Epilogue() []string { return []string{"return M"} }

func (target) FuncSignature(name string) string {
	return fmt.Sprintf("local function %s(value, errors, instancePath, schemaPath)", name)
}

func (target) EntrySignature() string { return "function M.validate(instance)" }
func (target) BlockEnd() string       { return "end" }

func (target) EntryPrologue(errorsVar string) []string {
	return []string{fmt.Sprintf("local %s = {}", errorsVar)}
}

func (target) EntryEpilogue(errorsVar string) []string {
	return []string{fmt.Sprintf("return %s", errorsVar)}
}

func (target) ErrorsArg(errorsVar string) string { return errorsVar }

func (target) If(cond string) string { return fmt.Sprintf("if %s then", cond) }

func (target) ForRangeIndex(idxVar, arrExpr string) string {
	return fmt.Sprintf("for %s = 1, #%s do", idxVar, arrExpr)
}

func (target) ForRangeKeys(keyVar, objExpr string) string {
	return fmt.Sprintf("for %s, _ in pairs(%s) do", keyVar, objExpr)
}

func (target) TypeCheck(value string, kw jtd.TypeKeyword) string {
	switch kw {
	case jtd.TypeBoolean:
		return fmt.Sprintf("type(%s) == \"boolean\"", value)
	case jtd.TypeString:
		return fmt.Sprintf("type(%s) == \"string\"", value)
	case jtd.TypeTimestamp:
		return fmt.Sprintf("is_timestamp(%s)", value)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf("(type(%s) == \"number\" and %s == %s)", value, value, value)
	default:
		min, max, _ := kw.IntegerRange()
		return fmt.Sprintf("is_integer(%s, %s, %s)", value, formatNum(min), formatNum(max))
	}
}

func formatNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (target) Not(expr string) string { return fmt.Sprintf("not (%s)", expr) }

func (target) And(exprs ...string) string {
	if len(exprs) == 0 {
		return "true"
	}
	return "(" + strings.Join(exprs, " and ") + ")"
}

func (target) Or(exprs ...string) string {
	if len(exprs) == 0 {
		return "false"
	}
	return "(" + strings.Join(exprs, " or ") + ")"
}

func (target) BoolLit(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (target) IsObject(value string) string {
	return fmt.Sprintf("(type(%s) == \"table\" and not is_array(%s))", value, value)
}
func (target) IsArray(value string) string  { return fmt.Sprintf("is_array(%s)", value) }
func (target) IsString(value string) string { return fmt.Sprintf("type(%s) == \"string\"", value) }
func (target) IsNull(value string) string   { return fmt.Sprintf("%s == nil", value) }

func (target) Len(value string) string { return "#" + value }

func (target) Index(arrExpr, idxVar string) string {
	return fmt.Sprintf("%s[%s]", arrExpr, idxVar)
}

func (target) PropGet(objExpr, key string) string {
	return fmt.Sprintf("%s[%s]", objExpr, luaStringLit(key))
}

func (target) DynGet(objExpr, keyVar string) string {
	return fmt.Sprintf("%s[%s]", objExpr, keyVar)
}

func (target) HasProp(objExpr, key string) string {
	return fmt.Sprintf("%s[%s] ~= nil", objExpr, luaStringLit(key))
}

func (target) EnumMember(value string, values []string) string {
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = fmt.Sprintf("%s == %s", value, luaStringLit(v))
	}
	return "(" + strings.Join(lits, " or ") + ")"
}

func (target) KnownKey(keyExpr string, knownKeys []string) string {
	lits := make([]string, len(knownKeys))
	for i, k := range knownKeys {
		lits[i] = fmt.Sprintf("%s == %s", keyExpr, luaStringLit(k))
	}
	if len(lits) == 0 {
		return "false"
	}
	return "(" + strings.Join(lits, " or ") + ")"
}

func (target) StrLit(s string) string { return luaStringLit(s) }

func (target) Concat(parts ...string) string {
	return strings.Join(parts, " .. ")
}

func (target) DeclLocal(name, expr string) string {
	return fmt.Sprintf("local %s = %s", name, expr)
}

func (target) CallDef(funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit string) string {
	return fmt.Sprintf("%s(%s, %s, %s, %s)", funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit)
}

func (target) PushError(errorsVar, instancePathExpr, schemaPathExpr string) string {
	return fmt.Sprintf("table.insert(%s, { instancePath = %s, schemaPath = %s })", errorsVar, instancePathExpr, schemaPathExpr)
}

func luaStringLit(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
