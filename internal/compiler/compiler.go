// Package compiler turns compilation units into binary artifacts.
//
// Two implementations are provided. Builtin parses and checks the unit
// in-process and writes an artifact encoded with an artifact.Codec. Exec hands
// the unit to an external toolchain command. Both treat any diagnostic as a
// failed compilation and both write the artifact to a temporary sibling path
// first, replacing the canonical artifact only on success, so a failed
// compile never disturbs the previous artifact.
//
// A compilation cannot be cancelled once started.
package compiler

import "context"

// Compiler compiles the unit at source into the artifact at target.
type Compiler interface {
	Compile(ctx context.Context, source, target string) error
}
