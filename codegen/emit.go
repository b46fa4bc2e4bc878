package codegen

import (
	"regexp"
	"strings"

	"github.com/kaptinlin/jtdgen/jtd"
)

// Emit walks cs and renders a complete, standalone validator source file for
// t. The file declares one function per named definition, one function per
// Properties/Discrim node that is the child of a container (Elements,
// Values, or a Discrim mapping), and a public entry function that validates
// a top-level instance and returns the collected error indicators.
func Emit(cs *jtd.CompiledSchema, t Target) (string, error) {
	e := &emitter{cs: cs, t: t, errorsVar: "errors", funcs: map[string]*namedFunc{}}

	for _, name := range cs.DefinitionNames {
		e.addFunc(t.FuncName(sanitizeIdent(name)), cs.Definitions[name], jtd.NewPathContext().Push("definitions", name))
	}
	for _, name := range cs.DefinitionNames {
		e.collectChildren(cs.Definitions[name], jtd.NewPathContext().Push("definitions", name))
	}
	e.collectChildren(cs.Root, jtd.NewPathContext())

	buf := newBuffer()
	buf.writeLines(t.Prelude())
	buf.writeLine("")

	for _, name := range cs.DefinitionNames {
		fn := e.funcs[t.FuncName(sanitizeIdent(name))]
		e.emitFunc(buf, fn)
		buf.writeLine("")
	}
	for _, fn := range e.orderedExtraFuncs {
		e.emitFunc(buf, fn)
		buf.writeLine("")
	}

	e.emitEntry(buf)

	if epi := t.Epilogue(); len(epi) > 0 {
		buf.writeLine("")
		buf.writeLines(epi)
	}
	return buf.String(), nil
}

type namedFunc struct {
	name       string
	node       jtd.Node
	schemaPath string
}

type emitter struct {
	cs        *jtd.CompiledSchema
	t         Target
	errorsVar string

	funcs             map[string]*namedFunc
	orderedExtraFuncs []*namedFunc
	seenPaths         map[string]bool
}

func (e *emitter) addFunc(name string, node jtd.Node, path *jtd.PathContext) *namedFunc {
	fn := &namedFunc{name: name, node: node, schemaPath: path.SchemaPath()}
	e.funcs[name] = fn
	return fn
}

// addChildFunc registers a synthetic function for a container child
// (Elements/Values inner, or a Discrim mapping variant) the first time its
// schema path is seen, keyed so repeat traversal (a Discrim variant visited
// once to register, once while walking for nested children) never double
// emits.
func (e *emitter) addChildFunc(node jtd.Node, path *jtd.PathContext) {
	if e.seenPaths == nil {
		e.seenPaths = map[string]bool{}
	}
	sp := path.SchemaPath()
	if e.seenPaths[sp] {
		return
	}
	e.seenPaths[sp] = true
	name := e.t.FuncName(syntheticName(sp))
	fn := e.addFunc(name, node, path)
	e.orderedExtraFuncs = append(e.orderedExtraFuncs, fn)
}

func (e *emitter) errArg() string {
	return e.t.ErrorsArg(e.errorsVar)
}

func (e *emitter) funcFor(path *jtd.PathContext) (*namedFunc, bool) {
	for _, fn := range e.funcs {
		if fn.schemaPath == path.SchemaPath() {
			return fn, true
		}
	}
	return nil, false
}

// collectChildren walks node looking for Properties/Discrim nodes that sit
// as the child of a container (Elements, Values, Discrim mapping) and
// registers a dedicated function for each. Properties nested directly
// inside another Properties (an object property whose own value is an
// object) is NOT a container child by this definition and stays inlined.
func (e *emitter) collectChildren(node jtd.Node, path *jtd.PathContext) {
	switch n := node.(type) {
	case jtd.Properties:
		for _, name := range n.RequiredNames {
			e.collectChildren(n.Required[name], path.Push("properties", name))
		}
		for _, name := range n.OptionalNames {
			e.collectChildren(n.Optional[name], path.Push("optionalProperties", name))
		}
	case jtd.Elements:
		e.collectContainerChild(n.Inner, path.Push("elements"))
	case jtd.Values:
		e.collectContainerChild(n.Inner, path.Push("values"))
	case jtd.Discrim:
		for _, name := range n.MappingNames {
			variant := n.Mapping[name]
			childPath := path.Push("mapping", name)
			e.addChildFunc(variant, childPath)
			e.collectChildren(variant, childPath)
		}
	case jtd.Nullable:
		e.collectChildren(n.Inner, path)
	}
}

func (e *emitter) collectContainerChild(inner jtd.Node, childPath *jtd.PathContext) {
	base := inner
	if nb, ok := inner.(jtd.Nullable); ok {
		base = nb.Inner
	}
	switch base.(type) {
	case jtd.Properties, jtd.Discrim:
		e.addChildFunc(base, childPath)
	}
	e.collectChildren(inner, childPath)
}

func (e *emitter) emitFunc(buf *buffer, fn *namedFunc) {
	buf.openBlock(e.t.FuncSignature(fn.name))
	ctx := emitCtx{value: "value", instancePath: "instancePath", path: jtd.NewPathContext().Push(jtd.ParsePointer(fn.schemaPath)...)}
	e.emitNode(buf, fn.node, ctx, fn.schemaPath)
	buf.closeBlock(e.t.BlockEnd())
}

func (e *emitter) emitEntry(buf *buffer) {
	buf.openBlock(e.t.EntrySignature())
	buf.writeLines(e.t.EntryPrologue(e.errorsVar))

	switch root := e.cs.Root.(type) {
	case jtd.Ref:
		funcName := e.t.FuncName(sanitizeIdent(root.Name))
		path := jtd.NewPathContext().Push("definitions", root.Name)
		buf.writeLine(e.t.CallDef(funcName, "instance", e.errArg(), e.t.StrLit(""), e.t.StrLit(path.SchemaPath())))
	default:
		ctx := emitCtx{value: "instance", instancePath: e.t.StrLit(""), path: jtd.NewPathContext()}
		e.emitNode(buf, e.cs.Root, ctx, "")
	}

	buf.writeLines(e.t.EntryEpilogue(e.errorsVar))
	buf.closeBlock(e.t.BlockEnd())
}

// emitCtx carries the runtime identifiers and compile-time path state
// needed to emit one Node. value and instancePath are runtime
// expressions; path tracks the compile-time schema pointer so nested
// emissions can compute their own schemaPath literal and fresh
// identifiers.
type emitCtx struct {
	value        string
	instancePath string
	path         *jtd.PathContext
}

func (e *emitter) emitNode(buf *buffer, node jtd.Node, ctx emitCtx, schemaPathOverride string) {
	t := e.t
	schemaPath := ctx.path.SchemaPath()
	if schemaPathOverride != "" {
		schemaPath = schemaPathOverride
	}

	switch n := node.(type) {
	case jtd.Empty:
		// matches anything; nothing to check

	case jtd.Ref:
		funcName := t.FuncName(sanitizeIdent(n.Name))
		refPath := jtd.NewPathContext().Push("definitions", n.Name)
		buf.writeLine(t.CallDef(funcName, ctx.value, e.errArg(), ctx.instancePath, t.StrLit(refPath.SchemaPath())))

	case jtd.Type:
		cond := t.Not(t.TypeCheck(ctx.value, n.Keyword))
		buf.openBlock(t.If(cond))
		buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(joinPointer(schemaPath, "type"))))
		buf.closeBlock(t.BlockEnd())

	case jtd.Enum:
		cond := t.And(t.IsString(ctx.value), t.EnumMember(ctx.value, n.Values))
		buf.openBlock(t.If(t.Not(cond)))
		buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(joinPointer(schemaPath, "enum"))))
		buf.closeBlock(t.BlockEnd())

	case jtd.Elements:
		buf.openBlock(t.If(t.Not(t.IsArray(ctx.value))))
		buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(joinPointer(schemaPath, "elements"))))
		buf.closeBlock(t.BlockEnd())
		buf.openBlock(t.If(t.IsArray(ctx.value)))
		e.emitElementsLoop(buf, n, ctx, schemaPath)
		buf.closeBlock(t.BlockEnd())

	case jtd.Values:
		buf.openBlock(t.If(t.Not(t.IsObject(ctx.value))))
		buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(joinPointer(schemaPath, "values"))))
		buf.closeBlock(t.BlockEnd())
		buf.openBlock(t.If(t.IsObject(ctx.value)))
		e.emitValuesLoop(buf, n, ctx, schemaPath)
		buf.closeBlock(t.BlockEnd())

	case jtd.Properties:
		e.emitProperties(buf, n, ctx, schemaPath)

	case jtd.Discrim:
		e.emitDiscrim(buf, n, ctx, schemaPath)

	case jtd.Nullable:
		buf.openBlock(t.If(t.Not(t.IsNull(ctx.value))))
		e.emitNode(buf, n.Inner, ctx, schemaPathOverride)
		buf.closeBlock(t.BlockEnd())
	}
}

func (e *emitter) emitElementsLoop(buf *buffer, n jtd.Elements, ctx emitCtx, schemaPath string) {
	t := e.t
	childPath := ctx.path.Push("elements").Descend()
	idx := childPath.IndexIdent()
	elemVal := childPath.ValueIdent()

	buf.openBlock(t.ForRangeIndex(idx, ctx.value))
	buf.writeLine(t.DeclLocal(elemVal, t.Index(ctx.value, idx)))
	childInstancePath := t.Concat(ctx.instancePath, t.StrLit("/"), idx)
	childCtx := emitCtx{value: elemVal, instancePath: childInstancePath, path: childPath}

	inner := n.Inner
	base := inner
	if nb, ok := inner.(jtd.Nullable); ok {
		base = nb.Inner
	}
	if fn, ok := e.funcFor(childPath); ok {
		if _, isProps := base.(jtd.Properties); isProps {
			e.emitCallOrNullGuard(buf, inner, fn, childCtx)
			buf.closeBlock(t.BlockEnd())
			return
		}
		if _, isDiscrim := base.(jtd.Discrim); isDiscrim {
			e.emitCallOrNullGuard(buf, inner, fn, childCtx)
			buf.closeBlock(t.BlockEnd())
			return
		}
	}
	e.emitNode(buf, inner, childCtx, "")
	buf.closeBlock(t.BlockEnd())
}

func (e *emitter) emitValuesLoop(buf *buffer, n jtd.Values, ctx emitCtx, schemaPath string) {
	t := e.t
	childPath := ctx.path.Push("values").Descend()
	key := "k" + childPath.IndexIdent()[1:]
	elemVal := childPath.ValueIdent()

	buf.openBlock(t.ForRangeKeys(key, ctx.value))
	buf.writeLine(t.DeclLocal(elemVal, t.DynGet(ctx.value, key)))
	childInstancePath := t.Concat(ctx.instancePath, t.StrLit("/"), key)
	childCtx := emitCtx{value: elemVal, instancePath: childInstancePath, path: childPath}

	inner := n.Inner
	base := inner
	if nb, ok := inner.(jtd.Nullable); ok {
		base = nb.Inner
	}
	if fn, ok := e.funcFor(childPath); ok {
		switch base.(type) {
		case jtd.Properties, jtd.Discrim:
			e.emitCallOrNullGuard(buf, inner, fn, childCtx)
			buf.closeBlock(t.BlockEnd())
			return
		}
	}
	e.emitNode(buf, inner, childCtx, "")
	buf.closeBlock(t.BlockEnd())
}

// emitCallOrNullGuard emits a call to fn for the non-null case, guarding
// with an explicit null check when the container child was declared
// nullable. node is the (possibly Nullable-wrapping) child node as compiled.
func (e *emitter) emitCallOrNullGuard(buf *buffer, node jtd.Node, fn *namedFunc, ctx emitCtx) {
	t := e.t
	if _, nullable := node.(jtd.Nullable); nullable {
		buf.openBlock(t.If(t.Not(t.IsNull(ctx.value))))
		buf.writeLine(t.CallDef(fn.name, ctx.value, e.errArg(), ctx.instancePath, t.StrLit(fn.schemaPath)))
		buf.closeBlock(t.BlockEnd())
		return
	}
	buf.writeLine(t.CallDef(fn.name, ctx.value, e.errArg(), ctx.instancePath, t.StrLit(fn.schemaPath)))
}

func (e *emitter) emitProperties(buf *buffer, n jtd.Properties, ctx emitCtx, schemaPath string) {
	t := e.t
	notObjectPath := schemaPath + "/optionalProperties"
	if len(n.RequiredNames) > 0 {
		notObjectPath = schemaPath + "/properties"
	}
	buf.openBlock(t.If(t.Not(t.IsObject(ctx.value))))
	buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(notObjectPath)))
	buf.closeBlock(t.BlockEnd())
	buf.openBlock(t.If(t.IsObject(ctx.value)))

	for _, name := range n.RequiredNames {
		buf.openBlock(t.If(t.Not(t.HasProp(ctx.value, name))))
		buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(joinPointer(schemaPath, "properties", name))))
		buf.closeBlock(t.BlockEnd())
		buf.openBlock(t.If(t.HasProp(ctx.value, name)))
		e.emitPropertyValue(buf, n.Required[name], ctx, schemaPath, "properties", name)
		buf.closeBlock(t.BlockEnd())
	}
	for _, name := range n.OptionalNames {
		buf.openBlock(t.If(t.HasProp(ctx.value, name)))
		e.emitPropertyValue(buf, n.Optional[name], ctx, schemaPath, "optionalProperties", name)
		buf.closeBlock(t.BlockEnd())
	}

	if !n.Additional {
		known := append(append([]string{}, n.RequiredNames...), n.OptionalNames...)
		keyVar := "pk" + ctx.path.IndexIdent()
		buf.openBlock(t.ForRangeKeys(keyVar, ctx.value))
		buf.openBlock(t.If(t.Not(t.KnownKey(keyVar, known))))
		buf.writeLine(t.PushError(e.errArg(), t.Concat(ctx.instancePath, t.StrLit("/"), keyVar), t.StrLit(schemaPath)))
		buf.closeBlock(t.BlockEnd())
		buf.closeBlock(t.BlockEnd())
	}

	buf.closeBlock(t.BlockEnd())
}

func (e *emitter) emitPropertyValue(buf *buffer, node jtd.Node, ctx emitCtx, schemaPath, keyword, name string) {
	t := e.t
	childPath := ctx.path.Push(keyword, name)
	propIdent := childPath.ValueIdent() + "_" + sanitizeIdent(name)
	buf.writeLine(t.DeclLocal(propIdent, t.PropGet(ctx.value, name)))
	childCtx := emitCtx{
		value:        propIdent,
		instancePath: t.Concat(ctx.instancePath, t.StrLit("/"+jsonPointerEscape(name))),
		path:         childPath,
	}
	e.emitNode(buf, node, childCtx, joinPointer(schemaPath, keyword, name))
}

func (e *emitter) emitDiscrim(buf *buffer, n jtd.Discrim, ctx emitCtx, schemaPath string) {
	t := e.t
	buf.openBlock(t.If(t.Not(t.IsObject(ctx.value))))
	buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(joinPointer(schemaPath, "discriminator"))))
	buf.closeBlock(t.BlockEnd())
	buf.openBlock(t.If(t.IsObject(ctx.value)))

	tagIdent := "tag" + ctx.path.IndexIdent()
	buf.openBlock(t.If(t.Not(t.HasProp(ctx.value, n.Tag))))
	buf.writeLine(t.PushError(e.errArg(), ctx.instancePath, t.StrLit(joinPointer(schemaPath, "discriminator"))))
	buf.closeBlock(t.BlockEnd())

	buf.openBlock(t.If(t.HasProp(ctx.value, n.Tag)))
	buf.writeLine(t.DeclLocal(tagIdent, t.PropGet(ctx.value, n.Tag)))
	buf.openBlock(t.If(t.Not(t.IsString(tagIdent))))
	buf.writeLine(t.PushError(e.errArg(), t.Concat(ctx.instancePath, t.StrLit("/"+jsonPointerEscape(n.Tag))), t.StrLit(joinPointer(schemaPath, "discriminator"))))
	buf.closeBlock(t.BlockEnd())

	buf.openBlock(t.If(t.IsString(tagIdent)))
	first := true
	for _, name := range n.MappingNames {
		cond := t.EnumMember(tagIdent, []string{name})
		if first {
			buf.openBlock(t.If(cond))
			first = false
		} else {
			buf.closeBlock(t.BlockEnd())
			buf.openBlock(t.If(cond))
		}
		childPath := ctx.path.Push("mapping", name)
		fn, ok := e.funcFor(childPath)
		if ok {
			buf.writeLine(t.CallDef(fn.name, ctx.value, e.errArg(), ctx.instancePath, t.StrLit(fn.schemaPath)))
		}
	}
	if !first {
		buf.closeBlock(t.BlockEnd())
		buf.openBlock(t.If(t.Not(t.Or(discrimMemberConds(t, tagIdent, n.MappingNames)...))))
	} else {
		buf.openBlock(t.If(t.BoolLit(true)))
	}
	buf.writeLine(t.PushError(e.errArg(), t.Concat(ctx.instancePath, t.StrLit("/"+jsonPointerEscape(n.Tag))), t.StrLit(joinPointer(schemaPath, "mapping"))))
	buf.closeBlock(t.BlockEnd())

	buf.closeBlock(t.BlockEnd()) // is string
	buf.closeBlock(t.BlockEnd()) // has tag
	buf.closeBlock(t.BlockEnd()) // is object
}

func discrimMemberConds(t Target, tagIdent string, names []string) []string {
	conds := make([]string, len(names))
	for i, name := range names {
		conds[i] = t.EnumMember(tagIdent, []string{name})
	}
	return conds
}

func joinPointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, tok := range tokens {
		b.WriteString("/")
		b.WriteString(jsonPointerEscape(tok))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func jsonPointerEscape(s string) string {
	return pointerEscaper.Replace(s)
}

var identSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// sanitizeIdent turns an arbitrary definition or property name into a safe
// identifier fragment. It is not collision-proof across adversarial inputs
// that differ only in stripped characters; schemas in practice use
// identifier-safe definition names.
func sanitizeIdent(s string) string {
	s = identSanitizer.ReplaceAllString(s, "_")
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// syntheticName derives a deterministic, path-unique identifier fragment
// for a container-child function from its compile-time schema pointer.
func syntheticName(schemaPath string) string {
	tokens := strings.FieldsFunc(schemaPath, func(r rune) bool { return r == '/' })
	parts := make([]string, 0, len(tokens)+1)
	parts = append(parts, "at")
	for _, tok := range tokens {
		parts = append(parts, sanitizeIdent(tok))
	}
	return strings.Join(parts, "_")
}
