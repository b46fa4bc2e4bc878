// Package js implements codegen.Target for JavaScript (CommonJS),
// emitting a single dependency-free .js file.
package js

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jtdgen/codegen"
	"github.com/kaptinlin/jtdgen/jtd"
)

func init() {
	codegen.Register("js", New)
}

type target struct{}

// New returns a fresh JavaScript codegen.Target.
func New() codegen.Target { return target{} }

func (target) Name() string          { return "js" }
func (target) FileExtension() string { return "js" }

func (target) FuncName(raw string) string { return "validate_" + raw }

const timestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:([0-5]\d|60)(\.\d+)?(Z|[+-]\d{2}:\d{2})$`

func (target) Prelude() []string {
	return []string{
		"// Generated by jtdgen. DO NOT EDIT.",
		"\"use strict\";",
		"",
		fmt.Sprintf("const TIMESTAMP_RE = /%s/;", timestampPattern),
	}
}

func (target) Epilogue() []string {
	return []string{"module.exports = { validate };"}
}

func (target) FuncSignature(name string) string {
	return fmt.Sprintf("function %s(value, errors, instancePath, schemaPath) {", name)
}

func (target) EntrySignature() string { return "function validate(instance) {" }
func (target) BlockEnd() string       { return "}" }

func (target) EntryPrologue(errorsVar string) []string {
	return []string{fmt.Sprintf("const %s = [];", errorsVar)}
}

func (target) EntryEpilogue(errorsVar string) []string {
	return []string{fmt.Sprintf("return %s;", errorsVar)}
}

func (target) ErrorsArg(errorsVar string) string { return errorsVar }

func (target) If(cond string) string { return fmt.Sprintf("if (%s) {", cond) }

func (target) ForRangeIndex(idxVar, arrExpr string) string {
	return fmt.Sprintf("for (let %s = 0; %s < %s.length; %s++) {", idxVar, idxVar, arrExpr, idxVar)
}

func (target) ForRangeKeys(keyVar, objExpr string) string {
	return fmt.Sprintf("for (const %s of Object.keys(%s)) {", keyVar, objExpr)
}

func (target) TypeCheck(value string, kw jtd.TypeKeyword) string {
	switch kw {
	case jtd.TypeBoolean:
		return fmt.Sprintf("typeof %s === \"boolean\"", value)
	case jtd.TypeString:
		return fmt.Sprintf("typeof %s === \"string\"", value)
	case jtd.TypeTimestamp:
		return fmt.Sprintf("(typeof %s === \"string\" && TIMESTAMP_RE.test(%s))", value, value)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf("(typeof %s === \"number\" && Number.isFinite(%s))", value, value)
	default:
		min, max, _ := kw.IntegerRange()
		return fmt.Sprintf(
			"(typeof %s === \"number\" && Number.isFinite(%s) && Number.isInteger(%s) && %s >= %s && %s <= %s)",
			value, value, value, value, formatNum(min), value, formatNum(max))
	}
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (target) Not(expr string) string { return fmt.Sprintf("!(%s)", expr) }

func (target) And(exprs ...string) string {
	if len(exprs) == 0 {
		return "true"
	}
	return "(" + strings.Join(exprs, " && ") + ")"
}

func (target) Or(exprs ...string) string {
	if len(exprs) == 0 {
		return "false"
	}
	return "(" + strings.Join(exprs, " || ") + ")"
}

func (target) BoolLit(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (target) IsObject(value string) string {
	return fmt.Sprintf("(typeof %s === \"object\" && %s !== null && !Array.isArray(%s))", value, value, value)
}

func (target) IsArray(value string) string { return fmt.Sprintf("Array.isArray(%s)", value) }
func (target) IsString(value string) string {
	return fmt.Sprintf("typeof %s === \"string\"", value)
}
func (target) IsNull(value string) string { return fmt.Sprintf("%s === null", value) }

func (target) Len(value string) string { return value + ".length" }

func (target) Index(arrExpr, idxVar string) string {
	return fmt.Sprintf("%s[%s]", arrExpr, idxVar)
}

func (target) PropGet(objExpr, key string) string {
	return fmt.Sprintf("%s[%s]", objExpr, jsStringLit(key))
}

func (target) DynGet(objExpr, keyVar string) string {
	return fmt.Sprintf("%s[%s]", objExpr, keyVar)
}

func (target) HasProp(objExpr, key string) string {
	return fmt.Sprintf("Object.prototype.hasOwnProperty.call(%s, %s)", objExpr, jsStringLit(key))
}

// EnumMember tests set membership via an inline Set literal once the
// candidate count passes codegen.EnumHoistThreshold, instead of an
// O(n) chain of equality checks.
func (target) EnumMember(value string, values []string) string {
	if len(values) > codegen.EnumHoistThreshold {
		lits := make([]string, len(values))
		for i, v := range values {
			lits[i] = jsStringLit(v)
		}
		return fmt.Sprintf("new Set([%s]).has(%s)", strings.Join(lits, ", "), value)
	}
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = fmt.Sprintf("%s === %s", value, jsStringLit(v))
	}
	return "(" + strings.Join(lits, " || ") + ")"
}

func (target) KnownKey(keyExpr string, knownKeys []string) string {
	lits := make([]string, len(knownKeys))
	for i, k := range knownKeys {
		lits[i] = jsStringLit(k)
	}
	return fmt.Sprintf("[%s].includes(%s)", strings.Join(lits, ", "), keyExpr)
}

func (target) StrLit(s string) string { return jsStringLit(s) }

func (target) Concat(parts ...string) string {
	return strings.Join(parts, " + ")
}

func (target) DeclLocal(name, expr string) string {
	return fmt.Sprintf("const %s = %s;", name, expr)
}

func (target) CallDef(funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit string) string {
	return fmt.Sprintf("%s(%s, %s, %s, %s);", funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit)
}

func (target) PushError(errorsVar, instancePathExpr, schemaPathExpr string) string {
	return fmt.Sprintf("%s.push({ instancePath: %s, schemaPath: %s });", errorsVar, instancePathExpr, schemaPathExpr)
}

func jsStringLit(s string) string {
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
