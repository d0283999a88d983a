package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/typekeeper/internal/artifact"
	"github.com/dmitrijs2005/typekeeper/internal/filex"
	"github.com/dmitrijs2005/typekeeper/internal/logging"
	"github.com/dmitrijs2005/typekeeper/internal/namespace"
)

// Builtin compiles units in-process.
type Builtin struct {
	ns     namespace.Namespace
	codec  artifact.Codec
	logger logging.Logger
}

// NewBuiltin returns a compiler that accepts units declared in ns and encodes
// artifacts with codec.
func NewBuiltin(ns namespace.Namespace, codec artifact.Codec, logger logging.Logger) *Builtin {
	return &Builtin{ns: ns, codec: codec, logger: logger}
}

func (b *Builtin) Compile(ctx context.Context, source, target string) error {
	src, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read unit: %w", err)
	}

	class, diags := b.check(source, string(src))
	if len(diags) > 0 {
		return &CompileError{Source: source, Diagnostics: diags}
	}

	data, err := artifact.Marshal(b.codec, class)
	if err != nil {
		return err
	}
	if err := filex.WriteAtomic(target, data, 0o600); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	b.logger.Debug(ctx, "unit compiled", "source", source, "artifact", target, "codec", b.codec.Name())
	return nil
}

// check parses src and applies the semantic rules a unit must satisfy:
// it declares the configured namespace, exactly one type, named after the
// file, with uniquely named members.
func (b *Builtin) check(source, src string) (*artifact.Class, []Diagnostic) {
	f, diags := Parse(src)
	if len(diags) > 0 {
		return nil, diags
	}

	if f.Package != b.ns.String() {
		diags = append(diags, Diagnostic{Pos: f.PackagePos,
			Message: fmt.Sprintf("package %s does not match namespace %s", f.Package, b.ns)})
	}

	switch len(f.Types) {
	case 0:
		diags = append(diags, Diagnostic{Message: "no type declared"})
		return nil, diags
	case 1:
	default:
		diags = append(diags, Diagnostic{Pos: f.Types[1].Pos, Message: "only one type may be declared per unit"})
	}

	td := f.Types[0]
	// type names never contain '.', so everything from the first dot on is
	// the extension, however many segments it has
	base, ext, _ := strings.Cut(filepath.Base(source), ".")
	if td.Name != base {
		diags = append(diags, Diagnostic{Pos: td.Pos,
			Message: fmt.Sprintf("type %s must be declared in a unit named %s.%s", td.Name, td.Name, ext)})
	}

	class := &artifact.Class{Package: f.Package, Name: td.Name, Modifiers: td.Modifiers}
	seen := make(map[string]bool, len(td.Members))
	for _, md := range td.Members {
		if seen[md.Name] {
			diags = append(diags, Diagnostic{Pos: md.Pos,
				Message: fmt.Sprintf("member %s is already declared in type %s", md.Name, td.Name)})
			continue
		}
		seen[md.Name] = true
		class.Members = append(class.Members, artifact.Method{Name: md.Name, Modifiers: md.Modifiers, Result: md.Result})
	}

	if len(diags) > 0 {
		return nil, diags
	}
	return class, nil
}
