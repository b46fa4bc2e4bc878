// Package rust implements codegen.Target for Rust, emitting a single
// module that depends on the serde_json crate (for Value) and the regex
// crate (for the timestamp check).
package rust

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jtdgen/codegen"
	"github.com/kaptinlin/jtdgen/jtd"
)

func init() {
	codegen.Register("rust", New)
}

type target struct{}

// New returns a fresh Rust codegen.Target.
func New() codegen.Target { return target{} }

func (target) Name() string          { return "rust" }
func (target) FileExtension() string { return "rs" }

func (target) FuncName(raw string) string { return "validate_" + raw }

const timestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:([0-5]\d|60)(\.\d+)?(Z|[+-]\d{2}:\d{2})$`

func (target) Prelude() []string {
	return []string{
		"// Generated by jtdgen. DO NOT EDIT.",
		"use serde_json::Value;",
		"",
		"#[derive(Debug, Clone)]",
		"pub struct ValidationError {",
		"  pub instance_path: String,",
		"  pub schema_path: String,",
		"}",
		"",
		"fn push_error(errors: &mut Vec<ValidationError>, instance_path: &str, schema_path: &str) {",
		"  errors.push(ValidationError { instance_path: instance_path.to_string(), schema_path: schema_path.to_string() });",
		"}",
		"",
		"fn is_timestamp(s: &str) -> bool {",
		fmt.Sprintf("  let re = regex::Regex::new(r%q).unwrap();", timestampPattern),
		"  re.is_match(s)",
		"}",
	}
}

func (target) Epilogue() []string { return nil }

func (target) FuncSignature(name string) string {
	return fmt.Sprintf("fn %s(value: &Value, errors: &mut Vec<ValidationError>, instance_path: &str, schema_path: &str) {", name)
}

func (target) EntrySignature() string {
	return "pub fn validate(instance: &Value) -> Vec<ValidationError> {"
}
func (target) BlockEnd() string { return "}" }

func (target) EntryPrologue(errorsVar string) []string {
	return []string{fmt.Sprintf("let mut %s: Vec<ValidationError> = Vec::new();", errorsVar)}
}

func (target) EntryEpilogue(errorsVar string) []string {
	return []string{errorsVar}
}

func (target) ErrorsArg(errorsVar string) string { return "&mut " + errorsVar }

func (target) If(cond string) string { return fmt.Sprintf("if %s {", cond) }

func (target) ForRangeIndex(idxVar, arrExpr string) string {
	return fmt.Sprintf("for %s in 0..%s.as_array().unwrap().len() {", idxVar, arrExpr)
}

func (target) ForRangeKeys(keyVar, objExpr string) string {
	return fmt.Sprintf("for %s in %s.as_object().unwrap().keys() {", keyVar, objExpr)
}

func (target) TypeCheck(value string, kw jtd.TypeKeyword) string {
	switch kw {
	case jtd.TypeBoolean:
		return fmt.Sprintf("%s.is_boolean()", value)
	case jtd.TypeString:
		return fmt.Sprintf("%s.is_string()", value)
	case jtd.TypeTimestamp:
		return fmt.Sprintf("(%s.is_string() && is_timestamp(%s.as_str().unwrap()))", value, value)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf("%s.is_number()", value)
	default:
		min, max, _ := kw.IntegerRange()
		return fmt.Sprintf(
			"(%s.is_number() && %s.as_f64().map_or(false, |n| n.fract() == 0.0 && n >= %s && n <= %s))",
			value, value, formatNum(min), formatNum(max))
	}
}

func formatNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

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

func (target) IsObject(value string) string { return fmt.Sprintf("%s.is_object()", value) }
func (target) IsArray(value string) string  { return fmt.Sprintf("%s.is_array()", value) }
func (target) IsString(value string) string { return fmt.Sprintf("%s.is_string()", value) }
func (target) IsNull(value string) string   { return fmt.Sprintf("%s.is_null()", value) }

func (target) Len(value string) string {
	return fmt.Sprintf("%s.as_array().unwrap().len()", value)
}

func (target) Index(arrExpr, idxVar string) string {
	return fmt.Sprintf("&%s.as_array().unwrap()[%s]", arrExpr, idxVar)
}

func (target) PropGet(objExpr, key string) string {
	return fmt.Sprintf("%s.get(%s).unwrap()", objExpr, rustStringLit(key))
}

func (target) DynGet(objExpr, keyVar string) string {
	return fmt.Sprintf("%s.get(%s.as_str()).unwrap()", objExpr, keyVar)
}

func (target) HasProp(objExpr, key string) string {
	return fmt.Sprintf("%s.get(%s).is_some()", objExpr, rustStringLit(key))
}

func (target) EnumMember(value string, values []string) string {
	if len(values) > codegen.EnumHoistThreshold {
		lits := make([]string, len(values))
		for i, v := range values {
			lits[i] = rustStringLit(v)
		}
		return fmt.Sprintf("[%s].contains(&%s)", strings.Join(lits, ", "), value)
	}
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = fmt.Sprintf("%s == %s", value, rustStringLit(v))
	}
	return "(" + strings.Join(lits, " || ") + ")"
}

func (target) KnownKey(keyExpr string, knownKeys []string) string {
	lits := make([]string, len(knownKeys))
	for i, k := range knownKeys {
		lits[i] = rustStringLit(k)
	}
	return fmt.Sprintf("[%s].contains(&%s.as_str())", strings.Join(lits, ", "), keyExpr)
}

func (target) StrLit(s string) string { return rustStringLit(s) }

// Concat renders a &str-coercible expression: &format!(...) auto-derefs
// to &str at every call site that expects one, and the temporary String
// it borrows from lives for the full enclosing statement.
func (target) Concat(parts ...string) string {
	return fmt.Sprintf("&format!(\"%s\", %s)", strings.Repeat("{}", len(parts)), strings.Join(parts, ", "))
}

func (target) DeclLocal(name, expr string) string {
	return fmt.Sprintf("let %s = %s;", name, expr)
}

func (target) CallDef(funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit string) string {
	return fmt.Sprintf("%s(%s, %s, %s, %s);", funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit)
}

func (target) PushError(errorsVar, instancePathExpr, schemaPathExpr string) string {
	return fmt.Sprintf("push_error(%s, %s, %s);", errorsVar, instancePathExpr, schemaPathExpr)
}

func rustStringLit(s string) string {
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
