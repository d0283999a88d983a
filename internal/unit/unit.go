// Package unit renders records as compilation units and writes them into the
// namespace directory.
package unit

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/typekeeper/internal/filex"
	"github.com/dmitrijs2005/typekeeper/internal/models"
	"github.com/dmitrijs2005/typekeeper/internal/namespace"
)

const indent = "  "

// Render returns the source text of the unit for rec: one type named after
// the username that declares one no-op member named after the password.
func Render(ns namespace.Namespace, rec models.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s;\n\n", ns)
	fmt.Fprintf(&b, "public final class %s {\n", rec.Username)
	fmt.Fprintf(&b, "%spublic static final void %s() {\n", indent, rec.Password)
	fmt.Fprintf(&b, "%s}\n", indent)
	b.WriteString("}\n")
	return b.String()
}

// Encoder writes compilation units under a namespace.Store.
type Encoder struct {
	store *namespace.Store
}

func NewEncoder(store *namespace.Store) *Encoder {
	return &Encoder{store: store}
}

// Encode writes the unit for rec, replacing any unit with the same username,
// and returns its path. rec must already be validated.
func (e *Encoder) Encode(rec models.Record) (string, error) {
	path := e.store.SourcePath(rec.Username)
	src := Render(e.store.Namespace(), rec)

	if err := filex.WriteAtomic(path, []byte(src), 0o600); err != nil {
		return "", fmt.Errorf("write unit for %s: %w", rec.Username, err)
	}
	return path, nil
}
