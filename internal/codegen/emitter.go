// Package codegen serializes admissible declarations into per-namespace
// C# source units whose members forward into the Il2CppRuntime invocation
// facility.
package codegen

import (
	"fmt"
	"strings"
)

// Emitter builds C# source text with proper indentation.
type Emitter struct {
	buf    strings.Builder
	indent int
}

// NewEmitter creates a new C# code emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Line writes a single line of code at the current indentation level.
func (e *Emitter) Line(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line == "" {
		e.buf.WriteByte('\n')
		return
	}
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("    ")
	}
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Blank writes an empty line.
func (e *Emitter) Blank() {
	e.buf.WriteByte('\n')
}

// Block opens a brace block: the header line, then "{" on its own line,
// C# style, then increased indent.
func (e *Emitter) Block(format string, args ...any) {
	e.Line(format, args...)
	e.Line("{")
	e.indent++
}

// EndBlock closes a brace block.
func (e *Emitter) EndBlock() {
	e.indent--
	e.Line("}")
}

// String returns the emitted source.
func (e *Emitter) String() string {
	return e.buf.String()
}
