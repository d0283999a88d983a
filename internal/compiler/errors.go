package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var ErrCompile = errors.New("compilation failed")

// Diagnostic is a single message produced while compiling a unit. Every
// diagnostic is treated as an error.
type Diagnostic struct {
	Pos     Position
	Message string
}

func (d Diagnostic) String() string {
	if d.Pos.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// CompileError reports the diagnostics that aborted a compilation.
type CompileError struct {
	Source      string
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = e.Source + ":" + d.String()
	}
	return fmt.Sprintf("%s: %s", ErrCompile, strings.Join(msgs, "; "))
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}
