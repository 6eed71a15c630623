package persistence

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/rendiciones/rendiciones/modules/accountability/graph"
)

type memoryTables map[graph.Kind]map[string][]byte

func (t memoryTables) clone() memoryTables {
	out := make(memoryTables, len(t))
	for kind, rows := range t {
		out[kind] = maps.Clone(rows)
	}
	return out
}

type memoryTxKey struct{}

type memoryTx struct {
	store  *MemoryStore
	tables memoryTables
}

// MemoryStore keeps records in process memory. A transaction works on a copy
// of every table that replaces the live tables when it commits.
type MemoryStore struct {
	mu     sync.RWMutex
	tables memoryTables
}

func NewMemoryStore() *MemoryStore {
	tables := memoryTables{}
	for _, k := range graph.Kinds {
		tables[k] = map[string][]byte{}
	}
	return &MemoryStore{tables: tables}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(context.Context) error) error {
	if s.tx(ctx) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memoryTx{store: s, tables: s.tables.clone()}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		return err
	}
	s.tables = tx.tables
	return nil
}

func (s *MemoryStore) LoadAll(ctx context.Context, kind graph.Kind) ([]Record, error) {
	if err := validKind(kind); err != nil {
		return nil, storageError(opLoadAll, kind, err)
	}
	var out []Record
	s.read(ctx, func(t memoryTables) {
		for _, id := range slices.Sorted(maps.Keys(t[kind])) {
			out = append(out, Record{Kind: kind, ID: id, Data: slices.Clone(t[kind][id])})
		}
	})
	return out, nil
}

func (s *MemoryStore) LoadByID(ctx context.Context, kind graph.Kind, id string) (*Record, error) {
	if err := validKind(kind); err != nil {
		return nil, storageError(opLoadByID, kind, err)
	}
	var rec *Record
	s.read(ctx, func(t memoryTables) {
		if data, ok := t[kind][id]; ok {
			rec = &Record{Kind: kind, ID: id, Data: slices.Clone(data)}
		}
	})
	return rec, nil
}

func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	if err := validKind(rec.Kind); err != nil {
		return storageError(opSave, rec.Kind, err)
	}
	s.write(ctx, func(t memoryTables) {
		t[rec.Kind][rec.ID] = slices.Clone(rec.Data)
	})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, kind graph.Kind, id string) error {
	if err := validKind(kind); err != nil {
		return storageError(opDelete, kind, err)
	}
	s.write(ctx, func(t memoryTables) {
		delete(t[kind], id)
	})
	return nil
}

func (s *MemoryStore) UpdateField(ctx context.Context, kind graph.Kind, id, field string, value any) error {
	if err := validKind(kind); err != nil {
		return storageError(opUpdateField, kind, err)
	}
	var err error
	s.write(ctx, func(t memoryTables) {
		data, ok := t[kind][id]
		if !ok {
			err = notFound(kind, id)
			return
		}
		var out []byte
		if out, err = setField(data, field, value); err == nil {
			t[kind][id] = out
		}
	})
	return storageError(opUpdateField, kind, err)
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) read(ctx context.Context, fn func(memoryTables)) {
	if tx := s.tx(ctx); tx != nil {
		fn(tx.tables)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.tables)
}

func (s *MemoryStore) write(ctx context.Context, fn func(memoryTables)) {
	if tx := s.tx(ctx); tx != nil {
		fn(tx.tables)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tables)
}

func (s *MemoryStore) tx(ctx context.Context) *memoryTx {
	if tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok && tx.store == s {
		return tx
	}
	return nil
}
