// Package codegen walks a compiled JTD AST (package jtd) and emits
// standalone validator source code in a target language. The walk itself
// (emit.go) is target-agnostic; each target package (codegen/js,
// codegen/rust, codegen/lua, codegen/python) supplies the Target
// implementation that supplies that language's syntax for every construct
// the walk needs.
package codegen

import "github.com/kaptinlin/jtdgen/jtd"

// Target is the capability set a target language must provide: a
// type-keyword oracle, identifier/naming conventions, and the control-flow
// and expression templates the shared node emitter composes into a
// complete file. Adding a new emission target means implementing this
// interface once; neither the compiler nor the emitter change.
type Target interface {
	// Name is the canonical target identifier (e.g. "js").
	Name() string

	// FileExtension is the suffix (without dot) generated source should
	// carry, e.g. "js", "rs", "lua", "py".
	FileExtension() string

	// FuncName returns the identifier for the generated function backing
	// a named definition or a synthetic container position. It must be a
	// safe, collision-free identifier in the target language.
	FuncName(rawName string) string

	// --- File assembly ---

	// Prelude returns the lines written before any function declaration
	// (module doc comment, imports, an `export` marker's supporting
	// boilerplate).
	Prelude() []string

	// Epilogue returns the lines written after every function
	// declaration (e.g. a trailing module-exports table). The Python and
	// Rust targets return nil.
	Epilogue() []string

	// FuncSignature returns the header line opening a definition/
	// container function body, e.g.
	// "function validate_foo(value, errors, instancePath, schemaPath) {".
	FuncSignature(name string) string

	// EntrySignature returns the header line opening the public entry
	// point, e.g. "export function validate(instance) {".
	EntrySignature() string

	// BlockEnd returns the line(s) that close a block opened by
	// FuncSignature, EntrySignature, If, ForRangeIndex, or ForRangeKeys.
	// Python returns "" (dedent alone closes a block); brace languages
	// return "}"; Lua returns "end".
	BlockEnd() string

	// EntryPrologue returns the statements that open the entry function
	// body: declaring the error list local.
	EntryPrologue(errorsVar string) []string

	// EntryEpilogue returns the statements that close the entry function
	// body: returning the error list.
	EntryEpilogue(errorsVar string) []string

	// --- Control flow headers (body is emitted separately, indented one
	// level by the caller) ---

	If(cond string) string
	ForRangeIndex(idxVar, arrExpr string) string
	ForRangeKeys(keyVar, objExpr string) string

	// --- Expressions ---

	// TypeCheck returns a boolean expression that is true iff valueExpr
	// satisfies kw, per spec.md section 4.2.
	TypeCheck(valueExpr string, kw jtd.TypeKeyword) string

	Not(expr string) string
	And(exprs ...string) string
	Or(exprs ...string) string
	// BoolLit renders a boolean literal in the target's own syntax
	// ("true"/"false" for JS, Rust, Lua; "True"/"False" for Python).
	BoolLit(b bool) string

	IsObject(valueExpr string) string
	IsArray(valueExpr string) string
	IsString(valueExpr string) string
	IsNull(valueExpr string) string

	Len(valueExpr string) string
	// Index returns an expression reading the element of arrExpr at the
	// runtime index held by idxVar.
	Index(arrExpr, idxVar string) string
	// PropGet returns an expression reading the literal property name key
	// off objExpr.
	PropGet(objExpr, key string) string
	// DynGet returns an expression reading the property named by the
	// runtime string held in keyVar off objExpr (used inside a Values
	// loop, where the key is only known at runtime).
	DynGet(objExpr, keyVar string) string
	HasProp(objExpr, key string) string

	// EnumMember returns a boolean expression testing whether valueExpr
	// is a string member of values. Implementations MAY switch from a
	// chain of equality checks to a native set/hash lookup once len(values)
	// exceeds EnumHoistThreshold.
	EnumMember(valueExpr string, values []string) string

	// KnownKey returns a boolean expression testing whether keyExpr
	// (a string-valued local, not a literal) is one of knownKeys. The
	// JavaScript and Rust targets test membership in an inline array
	// literal, Lua uses a chain of equality checks, and Python uses a set
	// literal.
	KnownKey(keyExpr string, knownKeys []string) string

	StrLit(s string) string
	// Concat joins parts (a mix of string-literal and string-expression
	// fragments, already rendered) into a single string-concatenation
	// expression.
	Concat(parts ...string) string

	// --- Statements ---

	// DeclLocal declares a new local identifier bound to expr.
	DeclLocal(name, expr string) string

	// CallDef emits a call into a generated function, passing value,
	// the error-collector, the current runtime instance-path expression,
	// and the literal compile-time schema-path string the callee was
	// generated with.
	CallDef(funcName, valueExpr, errorsVar, instancePathExpr, schemaPathLit string) string

	// PushError appends one (instancePath, schemaPath) error indicator.
	PushError(errorsVar, instancePathExpr, schemaPathExpr string) string

	// ErrorsArg renders errorsVar (the identifier declared by
	// EntryPrologue) as the argument expression passed to CallDef and
	// PushError, letting targets like Rust add the borrow a function
	// signature requires ("&mut errors") while others pass it bare.
	ErrorsArg(errorsVar string) string
}

// EnumHoistThreshold is the enum size above which a target's EnumMember MAY
// switch from a chain of equality checks to a set or array literal lookup.
// The literal stays inline at each use; no target moves it into a
// module-scope constant. Fixed so output stays deterministic.
const EnumHoistThreshold = 8

// ElementsInlineDepth is a nesting bound for Elements loops. The emitter
// does not consult it: nested Elements loops are always inlined, at any
// depth.
const ElementsInlineDepth = 3
