package codegen

import "strings"

// buffer accumulates emitted source lines with automatic indentation
// tracking. Each target indents with two spaces regardless of its native
// convention; brace languages, Lua, and Python all read fine this way, and
// a single indent width keeps emitted output comparable across targets.
type buffer struct {
	lines  []string
	indent int
}

func newBuffer() *buffer {
	return &buffer{}
}

func (b *buffer) writeLine(line string) {
	if line == "" {
		b.lines = append(b.lines, "")
		return
	}
	b.lines = append(b.lines, strings.Repeat("  ", b.indent)+line)
}

func (b *buffer) writeLines(lines []string) {
	for _, l := range lines {
		b.writeLine(l)
	}
}

func (b *buffer) openBlock(header string) {
	b.writeLine(header)
	b.indent++
}

// closeBlock dedents and, if footer is non-empty, writes the closing line
// (python's Target.BlockEnd returns "" since dedent alone closes a block).
func (b *buffer) closeBlock(footer string) {
	b.indent--
	if footer != "" {
		b.writeLine(footer)
	}
}

func (b *buffer) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}
