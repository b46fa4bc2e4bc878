package jtd

import (
	"strconv"

	"github.com/kaptinlin/jsonpointer"
)

// PathContext tracks the compile-time schema pointer prefix the emitter is
// currently under and hands out fresh, collision-free local identifiers for
// the generated program. Creating a child context never mutates the
// parent, so sibling emissions (e.g. two properties of the same object)
// never observe each other's path or identifier state.
type PathContext struct {
	schemaTokens []string
	depth        int
}

// NewPathContext returns the root path context, with an empty schema path
// and a fresh identifier pool.
func NewPathContext() *PathContext {
	return &PathContext{}
}

// SchemaPath renders the current schema pointer as an RFC 6901 JSON
// Pointer, to be baked into the emitted code as a string literal.
func (p *PathContext) SchemaPath() string {
	return jsonpointer.Format(p.schemaTokens...)
}

// Push returns a child context with tokens appended to the schema path,
// e.g. Push("properties", "name") for a required property named "name".
// The receiver is left unmodified.
func (p *PathContext) Push(tokens ...string) *PathContext {
	child := make([]string, 0, len(p.schemaTokens)+len(tokens))
	child = append(child, p.schemaTokens...)
	child = append(child, tokens...)
	return &PathContext{schemaTokens: child, depth: p.depth}
}

// Descend returns a child context one container level deeper, used to scope
// fresh identifiers to the nesting level of an Elements loop or Values loop
// so identifiers at sibling depths never collide even when two loops share
// a parent.
func (p *PathContext) Descend() *PathContext {
	return &PathContext{schemaTokens: p.schemaTokens, depth: p.depth + 1}
}

// ValueIdent returns the deterministic local identifier a target should use
// for "the current value" at this context's depth: "v" at the root, "v0",
// "v1", ... for each successive Descend. Determinism here is what keeps
// generator output byte-identical across runs on the same schema.
func (p *PathContext) ValueIdent() string {
	if p.depth == 0 {
		return "v"
	}
	return "v" + strconv.Itoa(p.depth-1)
}

// IndexIdent returns the deterministic loop-index or loop-key identifier
// for an Elements or Values container body at this context's depth: "i" at
// the root, "i0", "i1", ... for each successive Descend, matching
// ValueIdent's numbering.
func (p *PathContext) IndexIdent() string {
	if p.depth == 0 {
		return "i"
	}
	return "i" + strconv.Itoa(p.depth-1)
}

// ParsePointer splits an RFC 6901 JSON Pointer into its unescaped segments,
// exposed for tooling (e.g. diagnostics) that needs to walk a schema
// pointer back down into the source document.
func ParsePointer(pointer string) []string {
	return jsonpointer.Parse(pointer)
}
