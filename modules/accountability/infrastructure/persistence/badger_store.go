package persistence

import (
	"context"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/rendiciones/rendiciones/modules/accountability/graph"
)

type badgerTxKey struct{}

type badgerTx struct {
	store *BadgerStore
	txn   *badger.Txn
}

// BadgerStore keeps records in an embedded Badger database under
// "<kind>/<id>" keys. An empty directory opens an in-memory database.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string, logger *logrus.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		opts = opts.WithLogger(logger.WithField("component", "badger"))
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, storageError("open", "", errors.Wrap(err, "badger open"))
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) InTx(ctx context.Context, fn func(context.Context) error) error {
	if s.tx(ctx) != nil {
		return fn(ctx)
	}
	txn := s.db.NewTransaction(true)
	defer txn.Discard()
	if err := fn(context.WithValue(ctx, badgerTxKey{}, &badgerTx{store: s, txn: txn})); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return storageError(opTx, "", errors.Wrap(err, "badger commit"))
	}
	return nil
}

func (s *BadgerStore) LoadAll(ctx context.Context, kind graph.Kind) ([]Record, error) {
	if err := validKind(kind); err != nil {
		return nil, storageError(opLoadAll, kind, err)
	}
	var out []Record
	err := s.view(ctx, func(txn *badger.Txn) error {
		prefix := []byte(string(kind) + "/")
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			id := strings.TrimPrefix(string(item.Key()), string(prefix))
			out = append(out, Record{Kind: kind, ID: id, Data: data})
		}
		return nil
	})
	if err != nil {
		return nil, storageError(opLoadAll, kind, errors.Wrap(err, "badger iterate"))
	}
	return out, nil
}

func (s *BadgerStore) LoadByID(ctx context.Context, kind graph.Kind, id string) (*Record, error) {
	if err := validKind(kind); err != nil {
		return nil, storageError(opLoadByID, kind, err)
	}
	var rec *Record
	err := s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(key(kind, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		rec = &Record{Kind: kind, ID: id, Data: data}
		return nil
	})
	if err != nil {
		return nil, storageError(opLoadByID, kind, errors.Wrap(err, "badger get"))
	}
	return rec, nil
}

func (s *BadgerStore) Save(ctx context.Context, rec Record) error {
	if err := validKind(rec.Kind); err != nil {
		return storageError(opSave, rec.Kind, err)
	}
	err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Set(key(rec.Kind, rec.ID), rec.Data)
	})
	return storageError(opSave, rec.Kind, wrapBadger(err, "badger set"))
}

func (s *BadgerStore) Delete(ctx context.Context, kind graph.Kind, id string) error {
	if err := validKind(kind); err != nil {
		return storageError(opDelete, kind, err)
	}
	err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Delete(key(kind, id))
	})
	return storageError(opDelete, kind, wrapBadger(err, "badger delete"))
}

func (s *BadgerStore) UpdateField(ctx context.Context, kind graph.Kind, id, field string, value any) error {
	if err := validKind(kind); err != nil {
		return storageError(opUpdateField, kind, err)
	}
	err := s.update(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(key(kind, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound(kind, id)
		}
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if data, err = setField(data, field, value); err != nil {
			return err
		}
		return txn.Set(key(kind, id), data)
	})
	return storageError(opUpdateField, kind, err)
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) view(ctx context.Context, fn func(*badger.Txn) error) error {
	if tx := s.tx(ctx); tx != nil {
		return fn(tx.txn)
	}
	return s.db.View(fn)
}

func (s *BadgerStore) update(ctx context.Context, fn func(*badger.Txn) error) error {
	if tx := s.tx(ctx); tx != nil {
		return fn(tx.txn)
	}
	return s.db.Update(fn)
}

func (s *BadgerStore) tx(ctx context.Context) *badgerTx {
	if tx, ok := ctx.Value(badgerTxKey{}).(*badgerTx); ok && tx.store == s {
		return tx
	}
	return nil
}

func key(kind graph.Kind, id string) []byte {
	return []byte(string(kind) + "/" + id)
}

func wrapBadger(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
