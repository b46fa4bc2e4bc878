package jtd

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// schemaKeywords is the complete set of member names a JTD schema object
// may carry. Anything else trips ErrUnknownKeyword.
var schemaKeywords = map[string]bool{
	"definitions":          true,
	"metadata":             true,
	"nullable":             true,
	"ref":                  true,
	"type":                 true,
	"enum":                 true,
	"elements":             true,
	"properties":           true,
	"optionalProperties":   true,
	"additionalProperties": true,
	"values":               true,
	"discriminator":        true,
	"mapping":              true,
}

// Compiler compiles JTD schemas into CompiledSchema ASTs. It holds no
// mutable state across calls; a single Compiler value is safe to reuse (and
// share across goroutines) for any number of independent compilations.
type Compiler struct{}

// NewCompiler returns a ready-to-use Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile parses schemaJSON and compiles it into a CompiledSchema, or
// returns a *SchemaError describing the first well-formedness violation
// found. Compile never partially succeeds: on error, the returned
// CompiledSchema is nil.
func (c *Compiler) Compile(schemaJSON []byte) (*CompiledSchema, error) {
	var root Schema
	if err := json.Unmarshal(schemaJSON, &root); err != nil {
		return nil, newSchemaError(KindNotObject, "")
	}

	cs := &CompiledSchema{Definitions: map[string]Node{}}

	defNames, defRaws, err := orderedDefinitions(root)
	if err != nil {
		return nil, err
	}

	// Pass 1: register every definition name before compiling any body, so
	// forward references and mutual recursion between definitions resolve.
	for _, name := range defNames {
		cs.Definitions[name] = Empty{}
	}
	cs.DefinitionNames = defNames

	// Pass 2: compile each definition's body for real, then the root.
	for _, name := range defNames {
		node, err := c.compileNode(defRaws[name], pointerJoin("definitions", name), false, cs)
		if err != nil {
			return nil, err
		}
		cs.Definitions[name] = node
	}

	rootNode, err := c.compileNode(schemaJSON, "", true, cs)
	if err != nil {
		return nil, err
	}
	cs.Root = rootNode

	return cs, nil
}

// CompileSchema is a convenience wrapper for callers that already hold a
// decoded Schema value (e.g. library embedders building schemas
// programmatically with the Keyword-style helpers other example compilers
// in this corpus expose) rather than raw JSON bytes.
func (c *Compiler) CompileSchema(s Schema) (*CompiledSchema, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("jtd: re-encoding schema: %w", err)
	}
	return c.Compile(encoded)
}

// orderedDefinitions extracts the root's "definitions" member, preserving
// source order, and returns an error if "definitions" appears with the
// wrong JSON shape. root.raw reflects presence; the order itself must be
// read back off the original bytes since Go maps don't preserve it.
func orderedDefinitions(root Schema) ([]string, map[string][]byte, error) {
	raw, ok := root.raw["definitions"]
	if !ok {
		return nil, nil, nil
	}
	if !isJSONObject(raw) {
		return nil, nil, newSchemaError(KindNotObject, "/definitions")
	}

	names, err := orderedObjectKeys(raw)
	if err != nil {
		return nil, nil, newSchemaError(KindNotObject, "/definitions")
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, nil, newSchemaError(KindNotObject, "/definitions")
	}

	result := make(map[string][]byte, len(members))
	for name, body := range members {
		result[name] = body
	}
	return names, result, nil
}

// compileNode compiles the schema object in raw at the given schema
// pointer. isRoot gates whether "definitions" is permitted on this object.
func (c *Compiler) compileNode(raw []byte, pointer string, isRoot bool, cs *CompiledSchema) (Node, error) {
	if !isJSONObject(raw) {
		return nil, newSchemaError(KindNotObject, pointer)
	}

	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, newSchemaError(KindNotObject, pointer)
	}

	for key := range s.raw {
		if !schemaKeywords[key] {
			return nil, newSchemaError(KindUnknownKeyword, pointerJoin(pointer, key))
		}
	}

	if s.Has("definitions") && !isRoot {
		return nil, newSchemaError(KindDefinitionsOnNonRoot, pointerJoin(pointer, "definitions"))
	}

	node, err := c.compileForm(s, pointer, cs)
	if err != nil {
		return nil, err
	}

	if s.Has("nullable") {
		if sniffKind(s.raw["nullable"]) != "bool" {
			return nil, newSchemaError(KindNullableNotBoolean, pointerJoin(pointer, "nullable"))
		}
		if s.Nullable {
			if _, empty := node.(Empty); empty {
				return Empty{}, nil
			}
			node = Nullable{Inner: node}
		}
	}

	return node, nil
}

// compileForm dispatches on the at-most-one form selector present on s,
// per spec.md section 4.1 step 2.
func (c *Compiler) compileForm(s Schema, pointer string, cs *CompiledSchema) (Node, error) {
	hasProperties := s.Has("properties") || s.Has("optionalProperties")

	selectors := 0
	for _, present := range []bool{
		s.Has("ref"), s.Has("type"), s.Has("enum"), s.Has("elements"),
		hasProperties, s.Has("values"), s.Has("discriminator") || s.Has("mapping"),
	} {
		if present {
			selectors++
		}
	}
	if selectors > 1 {
		return nil, newSchemaError(KindMultipleForms, pointer)
	}

	switch {
	case s.Has("ref"):
		return c.compileRef(s, pointer, cs)
	case s.Has("type"):
		return c.compileType(s, pointer)
	case s.Has("enum"):
		return c.compileEnum(s, pointer)
	case s.Has("elements"):
		return c.compileElements(s, pointer, cs)
	case hasProperties:
		return c.compileProperties(s, pointer, cs)
	case s.Has("values"):
		return c.compileValues(s, pointer, cs)
	case s.Has("discriminator") || s.Has("mapping"):
		return c.compileDiscriminator(s, pointer, cs)
	default:
		return Empty{}, nil
	}
}

func (c *Compiler) compileRef(s Schema, pointer string, cs *CompiledSchema) (Node, error) {
	if sniffKind(s.raw["ref"]) != "string" || s.Ref == nil {
		return nil, newSchemaError(KindRefUnresolved, pointerJoin(pointer, "ref"))
	}
	if _, ok := cs.Definitions[*s.Ref]; !ok {
		return nil, newSchemaError(KindRefUnresolved, pointerJoin(pointer, "ref"))
	}
	return Ref{Name: *s.Ref}, nil
}

func (c *Compiler) compileType(s Schema, pointer string) (Node, error) {
	if sniffKind(s.raw["type"]) != "string" || !validTypeKeywords[s.Type] {
		return nil, newSchemaError(KindUnknownTypeKeyword, pointerJoin(pointer, "type"))
	}
	return Type{Keyword: s.Type}, nil
}

func (c *Compiler) compileEnum(s Schema, pointer string) (Node, error) {
	if sniffKind(s.raw["enum"]) != "array" {
		return nil, newSchemaError(KindEnumNotArray, pointerJoin(pointer, "enum"))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(s.raw["enum"], &raw); err != nil {
		return nil, newSchemaError(KindEnumNotArray, pointerJoin(pointer, "enum"))
	}
	if len(raw) == 0 {
		return nil, newSchemaError(KindEnumEmpty, pointerJoin(pointer, "enum"))
	}

	seen := map[string]bool{}
	values := make([]string, 0, len(raw))
	for _, member := range raw {
		if sniffKind(member) != "string" {
			return nil, newSchemaError(KindEnumMemberNotString, pointerJoin(pointer, "enum"))
		}
		var v string
		if err := json.Unmarshal(member, &v); err != nil {
			return nil, newSchemaError(KindEnumMemberNotString, pointerJoin(pointer, "enum"))
		}
		if seen[v] {
			return nil, newSchemaError(KindEnumDuplicate, pointerJoin(pointer, "enum"))
		}
		seen[v] = true
		values = append(values, v)
	}

	return Enum{Values: values}, nil
}

func (c *Compiler) compileElements(s Schema, pointer string, cs *CompiledSchema) (Node, error) {
	childPointer := pointerJoin(pointer, "elements")
	inner, err := c.compileNode(s.raw["elements"], childPointer, false, cs)
	if err != nil {
		return nil, err
	}
	return Elements{Inner: inner}, nil
}

func (c *Compiler) compileProperties(s Schema, pointer string, cs *CompiledSchema) (Node, error) {
	required := map[string]Node{}
	optional := map[string]Node{}

	requiredNames, err := c.compilePropertyMap(s, "properties", pointer, cs, required)
	if err != nil {
		return nil, err
	}
	optionalNames, err := c.compilePropertyMap(s, "optionalProperties", pointer, cs, optional)
	if err != nil {
		return nil, err
	}

	for _, name := range requiredNames {
		if _, ok := optional[name]; ok {
			return nil, newSchemaError(KindPropertiesOverlap, pointerJoin(pointer, "optionalProperties", name))
		}
	}

	// additionalProperties has no dedicated SchemaErrorKind in the fixed
	// taxonomy; a non-boolean value is treated as absent (defaulting to
	// false) rather than rejected.
	additional := s.Has("additionalProperties") &&
		sniffKind(s.raw["additionalProperties"]) == "bool" &&
		s.AdditionalProperties != nil && *s.AdditionalProperties

	return Properties{
		RequiredNames: requiredNames,
		OptionalNames: optionalNames,
		Required:      required,
		Optional:      optional,
		Additional:    additional,
	}, nil
}

// compilePropertyMap compiles a single "properties" or "optionalProperties"
// object, returning its member names in source order and filling dst.
func (c *Compiler) compilePropertyMap(s Schema, member, pointer string, cs *CompiledSchema, dst map[string]Node) ([]string, error) {
	raw, ok := s.raw[member]
	if !ok {
		return nil, nil
	}
	if !isJSONObject(raw) {
		return nil, newSchemaError(KindNotObject, pointerJoin(pointer, member))
	}

	names, err := orderedObjectKeys(raw)
	if err != nil {
		return nil, newSchemaError(KindNotObject, pointerJoin(pointer, member))
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, newSchemaError(KindNotObject, pointerJoin(pointer, member))
	}

	for _, name := range names {
		node, err := c.compileNode(members[name], pointerJoin(pointer, member, name), false, cs)
		if err != nil {
			return nil, err
		}
		dst[name] = node
	}
	return names, nil
}

func (c *Compiler) compileValues(s Schema, pointer string, cs *CompiledSchema) (Node, error) {
	childPointer := pointerJoin(pointer, "values")
	inner, err := c.compileNode(s.raw["values"], childPointer, false, cs)
	if err != nil {
		return nil, err
	}
	return Values{Inner: inner}, nil
}

func (c *Compiler) compileDiscriminator(s Schema, pointer string, cs *CompiledSchema) (Node, error) {
	if !s.Has("discriminator") || !s.Has("mapping") {
		// RFC 8927 requires the two keywords together; the fixed
		// diagnostic taxonomy has no dedicated kind for "only one of the
		// pair present", so this is reported the same way as any other
		// malformed combination of form keywords.
		return nil, newSchemaError(KindMultipleForms, pointer)
	}
	if sniffKind(s.raw["discriminator"]) != "string" {
		return nil, newSchemaError(KindDiscriminatorMappingNotProperties, pointerJoin(pointer, "discriminator"))
	}
	if !isJSONObject(s.raw["mapping"]) {
		return nil, newSchemaError(KindDiscriminatorMappingNotProperties, pointerJoin(pointer, "mapping"))
	}

	names, err := orderedObjectKeys(s.raw["mapping"])
	if err != nil {
		return nil, newSchemaError(KindDiscriminatorMappingNotProperties, pointerJoin(pointer, "mapping"))
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(s.raw["mapping"], &members); err != nil {
		return nil, newSchemaError(KindDiscriminatorMappingNotProperties, pointerJoin(pointer, "mapping"))
	}

	mapping := make(map[string]Properties, len(names))
	for _, name := range names {
		mappingPointer := pointerJoin(pointer, "mapping", name)
		node, err := c.compileNode(members[name], mappingPointer, false, cs)
		if err != nil {
			return nil, err
		}
		props, ok := node.(Properties)
		if !ok {
			return nil, newSchemaError(KindDiscriminatorMappingNotProperties, mappingPointer)
		}
		if _, collide := props.Required[s.Discriminator]; collide {
			return nil, newSchemaError(KindDiscriminatorTagCollision, mappingPointer)
		}
		if _, collide := props.Optional[s.Discriminator]; collide {
			return nil, newSchemaError(KindDiscriminatorTagCollision, mappingPointer)
		}
		mapping[name] = props
	}

	return Discrim{Tag: s.Discriminator, MappingNames: names, Mapping: mapping}, nil
}

// --- raw JSON helpers -------------------------------------------------

// sniffKind classifies a json.RawMessage by its leading byte, without
// fully decoding it, so the compiler can report "wrong JSON type" errors
// for keywords whose Go field type can't represent the mismatch (e.g. a
// string where "enum" needed an array).
func sniffKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "invalid"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func isJSONObject(raw json.RawMessage) bool {
	return sniffKind(raw) == "object"
}

// orderedObjectKeys returns the member names of a JSON object in source
// order, by re-scanning raw with a streaming decoder rather than relying on
// map iteration order.
func orderedObjectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("jtd: expected object")
	}

	var names []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("jtd: expected object key")
		}
		names = append(names, key)

		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// pointerJoin builds an RFC 6901 JSON Pointer by appending tokens to an
// existing pointer string, escaping each token.
func pointerJoin(base string, tokens ...string) string {
	pc := NewPathContext()
	if base != "" {
		pc = pc.Push(ParsePointer(base)...)
	}
	return pc.Push(tokens...).SchemaPath()
}

