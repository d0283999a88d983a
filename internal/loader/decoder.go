package loader

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/typekeeper/internal/logging"
	"github.com/dmitrijs2005/typekeeper/internal/models"
	"github.com/dmitrijs2005/typekeeper/internal/namespace"
)

// Decoder turns every artifact in a namespace back into a Record.
type Decoder struct {
	store  *namespace.Store
	logger logging.Logger
}

func NewDecoder(store *namespace.Store, logger logging.Logger) *Decoder {
	return &Decoder{store: store, logger: logger}
}

// DecodeAll returns a lazy sequence over the records stored in the namespace.
//
// Each iteration rescans the directory with a new Loader, closed when the
// iteration finishes, breaks early or fails. The first error ends the
// sequence. Record order follows the directory walk and is not stable.
func (d *Decoder) DecodeAll(ctx context.Context) iter.Seq2[models.Record, error] {
	return func(yield func(models.Record, error) bool) {
		l := New(d.store)
		defer l.Close()

		paths, err := d.store.ListArtifacts()
		if err != nil {
			yield(models.Record{}, err)
			return
		}

		for _, path := range paths {
			rec, err := d.decode(l, path)
			if !yield(rec, err) || err != nil {
				return
			}
		}
		d.logger.Debug(ctx, "namespace decoded", "namespace", d.store.Namespace(), "artifacts", len(paths))
	}
}

func (d *Decoder) decode(l *Loader, path string) (models.Record, error) {
	symbol, err := d.store.Symbol(path)
	if err != nil {
		return models.Record{}, &LoadError{Path: path, Err: err}
	}
	class, err := l.Load(symbol)
	if err != nil {
		return models.Record{}, err
	}
	member, err := class.FirstMember()
	if err != nil {
		return models.Record{}, &LoadError{Symbol: symbol, Path: path, Err: err}
	}
	return models.Record{Username: class.Name, Password: member.Name}, nil
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[models.Record, error]) ([]models.Record, error) {
	records := []models.Record{}
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
