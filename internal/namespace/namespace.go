// Package namespace maps the store's fixed dotted namespace onto the
// filesystem and enumerates the artifacts stored beneath it.
package namespace

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/typekeeper/internal/filex"
	"github.com/dmitrijs2005/typekeeper/internal/identifier"
)

var ErrInvalidNamespace = errors.New("invalid namespace")

// Namespace is a dotted identifier path such as "typekeeper.vault.credentials".
type Namespace string

// Parse checks that every dot-separated segment of s is a valid identifier.
func Parse(s string) (Namespace, error) {
	for _, seg := range strings.Split(s, ".") {
		if !identifier.Valid(seg) {
			return "", fmt.Errorf("%w: %q", ErrInvalidNamespace, s)
		}
	}
	return Namespace(s), nil
}

func (n Namespace) String() string { return string(n) }

// Segments returns the dot-separated parts of n.
func (n Namespace) Segments() []string {
	return strings.Split(string(n), ".")
}

// Path returns n with dots replaced by the platform path separator.
func (n Namespace) Path() string {
	return filepath.Join(n.Segments()...)
}

// Store locates compilation units and artifacts for one namespace under a
// source root. The namespace never changes for the lifetime of a Store.
type Store struct {
	root        string
	ns          Namespace
	sourceExt   string
	artifactExt string
}

// NewStore returns a Store rooted at root. Extensions are given without the
// leading dot.
func NewStore(root string, ns Namespace, sourceExt, artifactExt string) *Store {
	return &Store{
		root:        root,
		ns:          ns,
		sourceExt:   strings.TrimPrefix(sourceExt, "."),
		artifactExt: strings.TrimPrefix(artifactExt, "."),
	}
}

// Root is the source root the namespace directory hangs off.
func (s *Store) Root() string { return s.root }

// Namespace returns the store's namespace.
func (s *Store) Namespace() Namespace { return s.ns }

// Dir is the directory that holds units and artifacts.
func (s *Store) Dir() string { return filepath.Join(s.root, s.ns.Path()) }

// ArtifactExt returns the artifact extension without the leading dot.
func (s *Store) ArtifactExt() string { return s.artifactExt }

// EnsureDirectories creates the source root and the namespace directory.
// Safe to call any number of times.
func (s *Store) EnsureDirectories() error {
	if err := filex.EnsureDir(s.root); err != nil {
		return err
	}
	return filex.EnsureDir(s.Dir())
}

// SourcePath is where the compilation unit for typeName lives.
func (s *Store) SourcePath(typeName string) string {
	return filepath.Join(s.Dir(), typeName+"."+s.sourceExt)
}

// ArtifactPath is where the compiled artifact for typeName lives.
func (s *Store) ArtifactPath(typeName string) string {
	return filepath.Join(s.Dir(), typeName+"."+s.artifactExt)
}

// ListArtifacts walks the whole namespace subtree and returns every regular
// file with the artifact extension. The order follows the filesystem walk and
// callers must not depend on it.
func (s *Store) ListArtifacts() ([]string, error) {
	var paths []string
	suffix := "." + s.artifactExt

	err := filepath.WalkDir(s.Dir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) && !strings.HasPrefix(d.Name(), ".") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Dir(), err)
	}
	return paths, nil
}

// Symbol derives the fully qualified symbol name of the artifact at path from
// its location relative to the namespace directory.
func (s *Store) Symbol(path string) (string, error) {
	rel, err := filepath.Rel(s.Dir(), path)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", path, err)
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside namespace %s", path, s.ns)
	}
	rel = strings.TrimSuffix(rel, "."+s.artifactExt)
	return s.ns.String() + "." + strings.ReplaceAll(rel, string(filepath.Separator), "."), nil
}

// PathForSymbol maps a fully qualified symbol back to its artifact path under
// the source root.
func (s *Store) PathForSymbol(symbol string) string {
	parts := strings.Split(symbol, ".")
	parts[len(parts)-1] += "." + s.artifactExt
	return filepath.Join(append([]string{s.root}, parts...)...)
}
