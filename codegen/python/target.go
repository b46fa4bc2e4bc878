// Package python implements codegen.Target for Python 3.8+, emitting a
// single dependency-free module exposing validate(instance).
package python

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jtdgen/codegen"
	"github.com/kaptinlin/jtdgen/jtd"
)

func init() {
	codegen.Register("python", New)
	codegen.Register("py", New)
}

type target struct{}

// New returns a fresh Python codegen.Target.
func New() codegen.Target { return target{} }

func (target) Name() string          { return "python" }
func (target) FileExtension() string { return "py" }

func (target) FuncName(raw string) string { return "_validate_" + raw }

const timestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:([0-5]\d|60)(\.\d+)?(Z|[+-]\d{2}:\d{2})$`

func (target) Prelude() []string {
	return []string{
		"# Generated by jtdgen. DO NOT EDIT.",
		"import re",
		"",
		fmt.Sprintf("_TIMESTAMP_RE = re.compile(r%q)", timestampPattern),
		"",
		"",
		"def _is_timestamp(value):",
		"    return isinstance(value, str) and _TIMESTAMP_RE.match(value) is not None",
		"",
		"",
		"def _is_integer(value, lo, hi):",
		"    return (",
		"        isinstance(value, (int, float))",
		"        and not isinstance(value, bool)",
		"        and float(value) == int(value)",
		"        and lo <= value <= hi",
		"    )",
	}
}

func (target) Epilogue() []string { return nil }

func (target) FuncSignature(name string) string {
	return fmt.Sprintf("def %s(value, errors, instance_path, schema_path):", name)
}

func (target) EntrySignature() string { return "def validate(instance):" }
func (target) BlockEnd() string       { return "" }

func (target) EntryPrologue(errorsVar string) []string {
	return []string{fmt.Sprintf("%s = []", errorsVar)}
}

func (target) EntryEpilogue(errorsVar string) []string {
	return []string{fmt.Sprintf("return %s", errorsVar)}
}

func (target) ErrorsArg(errorsVar string) string { return errorsVar }

func (target) If(cond string) string { return fmt.Sprintf("if %s:", cond) }

func (target) ForRangeIndex(idxVar, arrExpr string) string {
	return fmt.Sprintf("for %s in range(len(%s)):", idxVar, arrExpr)
}

func (target) ForRangeKeys(keyVar, objExpr string) string {
	return fmt.Sprintf("for %s in %s.keys():", keyVar, objExpr)
}

func (target) TypeCheck(value string, kw jtd.TypeKeyword) string {
	switch kw {
	case jtd.TypeBoolean:
		return fmt.Sprintf("isinstance(%s, bool)", value)
	case jtd.TypeString:
		return fmt.Sprintf("isinstance(%s, str)", value)
	case jtd.TypeTimestamp:
		return fmt.Sprintf("_is_timestamp(%s)", value)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf("(isinstance(%s, (int, float)) and not isinstance(%s, bool))", value, value)
	default:
		min, max, _ := kw.IntegerRange()
		return fmt.Sprintf("_is_integer(%s, %s, %s)", value, formatNum(min), formatNum(max))
	}
}

func formatNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (target) Not(expr string) string { return fmt.Sprintf("not (%s)", expr) }

func (target) And(exprs ...string) string {
	if len(exprs) == 0 {
		return "True"
	}
	return "(" + strings.Join(exprs, " and ") + ")"
}

func (target) Or(exprs ...string) string {
	if len(exprs) == 0 {
		return "False"
	}
	return "(" + strings.Join(exprs, " or ") + ")"
}

func (target) BoolLit(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func (target) IsObject(value string) string { return fmt.Sprintf("isinstance(%s, dict)", value) }
func (target) IsArray(value string) string  { return fmt.Sprintf("isinstance(%s, list)", value) }
func (target) IsString(value string) string { return fmt.Sprintf("isinstance(%s, str)", value) }
func (target) IsNull(value string) string   { return fmt.Sprintf("%s is None", value) }

func (target) Len(value string) string { return fmt.Sprintf("len(%s)", value) }

func (target) Index(arrExpr, idxVar string) string {
	return fmt.Sprintf("%s[%s]", arrExpr, idxVar)
}

func (target) PropGet(objExpr, key string) string {
	return fmt.Sprintf("%s[%s]", objExpr, pyStringLit(key))
}

func (target) DynGet(objExpr, keyVar string) string {
	return fmt.Sprintf("%s[%s]", objExpr, keyVar)
}

func (target) HasProp(objExpr, key string) string {
	return fmt.Sprintf("%s in %s", pyStringLit(key), objExpr)
}

func (target) EnumMember(value string, values []string) string {
	if len(values) > codegen.EnumHoistThreshold {
		lits := make([]string, len(values))
		for i, v := range values {
			lits[i] = pyStringLit(v)
		}
		return fmt.Sprintf("%s in {%s}", value, strings.Join(lits, ", "))
	}
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = pyStringLit(v)
	}
	return fmt.Sprintf("%s in (%s,)", value, strings.Join(lits, ", "))
}

func (target) KnownKey(keyExpr string, knownKeys []string) string {
	lits := make([]string, len(knownKeys))
	for i, k := range knownKeys {
		lits[i] = pyStringLit(k)
	}
	return fmt.Sprintf("%s in {%s}", keyExpr, strings.Join(lits, ", "))
}

func (target) StrLit(s string) string { return pyStringLit(s) }

// Concat wraps every fragment in str(...): unlike JS, Rust's format!, or
// Lua's .., Python's + operator does not coerce an int loop index into a
// string, and an Elements loop index is exactly such a fragment.
func (target) Concat(parts ...string) string {
	wrapped := make([]string, len(parts))
	for i, p := range parts {
		wrapped[i] = fmt.Sprintf("str(%s)", p)
	}
	return strings.Join(wrapped, " + ")
}

func (target) DeclLocal(name, expr string) string {
	return fmt.Sprintf("%s = %s", name, expr)
}

func (target) CallDef(funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit string) string {
	return fmt.Sprintf("%s(%s, %s, %s, %s)", funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit)
}

func (target) PushError(errorsVar, instancePathExpr, schemaPathExpr string) string {
	return fmt.Sprintf("%s.append({\"instancePath\": %s, \"schemaPath\": %s})", errorsVar, instancePathExpr, schemaPathExpr)
}

func pyStringLit(s string) string {
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
