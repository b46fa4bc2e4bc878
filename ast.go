package jtd

// Node is one of the nine compiled schema shapes. It is a closed interface:
// every implementation lives in this file, constructed only by Compiler and
// never mutated after construction.
type Node interface {
	isNode()
}

// Empty matches any JSON value. It is the compiled form of "{}" and of a
// schema whose only keyword is "nullable".
type Empty struct{}

func (Empty) isNode() {}

// Ref is a logical reference to a named definition, resolved via the
// compiling CompiledSchema's Definitions map. It never carries a
// back-pointer to the resolved Node; cycles are broken by looking the name
// up again at emission time.
type Ref struct {
	Name string
}

func (Ref) isNode() {}

// Type is a leaf type check against one of the eleven TypeKeyword values.
type Type struct {
	Keyword TypeKeyword
}

func (Type) isNode() {}

// Enum requires the value to be a string drawn from Values. Values is
// non-empty and contains no duplicates; order is preserved from the source
// schema for reproducible emission.
type Enum struct {
	Values []string
}

func (Enum) isNode() {}

// Elements requires the value to be an array whose every element matches
// Inner.
type Elements struct {
	Inner Node
}

func (Elements) isNode() {}

// Properties is the object form: Required and Optional map property names
// to the Node each must satisfy, and Additional controls whether unknown
// keys are rejected.
type Properties struct {
	// RequiredNames and OptionalNames preserve source order so emitted
	// presence checks and unknown-key rejection are reproducible.
	RequiredNames []string
	OptionalNames []string
	Required      map[string]Node
	Optional      map[string]Node
	Additional    bool
}

func (Properties) isNode() {}

// Values requires the value to be an object whose every property value
// matches Inner.
type Values struct {
	Inner Node
}

func (Values) isNode() {}

// Discrim is a tagged union: Tag names the object field whose string value
// selects which Properties in Mapping applies. MappingNames preserves
// source order; the chosen Properties never declares Tag among its own
// known properties (enforced at compile time).
type Discrim struct {
	Tag          string
	MappingNames []string
	Mapping      map[string]Properties
}

func (Discrim) isNode() {}

// Nullable passes null through unconditionally; any other value must match
// Inner. A schema object may only be wrapped in Nullable once (RFC 8927
// forbids "nullable" stacking), so Inner is never itself a Nullable.
type Nullable struct {
	Inner Node
}

func (Nullable) isNode() {}

// CompiledSchema is the output of Compiler.Compile: an ordered map of named
// definitions plus the root node. Definitions preserves the source schema
// object's insertion order so emitted function order is reproducible across
// runs.
type CompiledSchema struct {
	DefinitionNames []string
	Definitions     map[string]Node
	Root            Node
}
