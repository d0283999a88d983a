// Package loader reads compiled artifacts back into records.
//
// A Loader resolves fully qualified symbols to artifact files under a source
// root, the way a class loader resolves class names. Loaders are short-lived:
// the Decoder builds a fresh one for every pass over the namespace and closes
// it when the pass ends, so no decoded class outlives the pass that loaded it.
package loader

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/typekeeper/internal/artifact"
	"github.com/dmitrijs2005/typekeeper/internal/namespace"
)

var (
	ErrClosed    = errors.New("loader is closed")
	ErrWrongName = errors.New("artifact declares a different symbol")
)

// LoadError reports a symbol that could not be loaded or introspected.
type LoadError struct {
	Symbol string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Symbol, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader loads classes for one namespace.Store.
type Loader struct {
	store *namespace.Store

	mu     sync.Mutex
	loaded map[string]*artifact.Class
	closed bool
}

func New(store *namespace.Store) *Loader {
	return &Loader{store: store, loaded: make(map[string]*artifact.Class)}
}

// Load materializes the class named by symbol. Repeated loads of the same
// symbol return the same class until the loader is closed.
func (l *Loader) Load(symbol string) (*artifact.Class, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if c, ok := l.loaded[symbol]; ok {
		return c, nil
	}

	path := l.store.PathForSymbol(symbol)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Symbol: symbol, Path: path, Err: err}
	}
	class, err := artifact.Unmarshal(data)
	if err != nil {
		return nil, &LoadError{Symbol: symbol, Path: path, Err: err}
	}
	if class.QualifiedName() != symbol {
		return nil, &LoadError{Symbol: symbol, Path: path,
			Err: fmt.Errorf("%w: %s", ErrWrongName, class.QualifiedName())}
	}

	l.loaded[symbol] = class
	return class, nil
}

// Close releases every loaded class. Further loads fail with ErrClosed.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.loaded = nil
	l.closed = true
	return nil
}
