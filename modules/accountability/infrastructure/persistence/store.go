package persistence

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/rendiciones/rendiciones/modules/accountability/graph"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

// Record is one JSON-encoded entity in the table of its kind.
type Record struct {
	Kind graph.Kind
	ID   string
	Data json.RawMessage
}

// Store is a key-value-by-identifier table per entity kind. Calls made with
// the context passed to an InTx callback join that transaction. Every failure
// is a *serrors.StorageError.
type Store interface {
	LoadAll(ctx context.Context, kind graph.Kind) ([]Record, error)
	// LoadByID returns nil when the record does not exist.
	LoadByID(ctx context.Context, kind graph.Kind, id string) (*Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, kind graph.Kind, id string) error
	UpdateField(ctx context.Context, kind graph.Kind, id, field string, value any) error
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	Close() error
}

const (
	opLoadAll     = "load_all"
	opLoadByID    = "load_by_id"
	opSave        = "save"
	opDelete      = "delete"
	opUpdateField = "update_field"
	opTx          = "tx"
	opDecode      = "decode"
	opEncode      = "encode"
)

func storageError(op string, kind graph.Kind, err error) error {
	if err == nil {
		return nil
	}
	var se *serrors.StorageError
	if errors.As(err, &se) {
		return err
	}
	return serrors.NewStorageError(op, string(kind), err)
}

func validKind(kind graph.Kind) error {
	for _, k := range graph.Kinds {
		if k == kind {
			return nil
		}
	}
	return errors.Errorf("unknown kind %q", kind)
}

// setField rewrites one top-level JSON field of data.
func setField(data []byte, field string, value any) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, "encode field")
	}
	doc[field] = raw
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	return out, nil
}

func notFound(kind graph.Kind, id string) error {
	return serrors.NewNotFoundError(string(kind), id)
}
