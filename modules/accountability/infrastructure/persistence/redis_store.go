package persistence

import (
	"context"
	"maps"
	"slices"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/rendiciones/rendiciones/modules/accountability/graph"
)

type redisTxKey struct{}

// redisTx buffers writes and replays them in one MULTI/EXEC on commit.
// Reads inside the transaction see the buffered writes.
type redisTx struct {
	store   *RedisStore
	ops     []Record
	pending map[graph.Kind]map[string][]byte
}

func (tx *redisTx) put(rec Record) {
	if tx.pending[rec.Kind] == nil {
		tx.pending[rec.Kind] = map[string][]byte{}
	}
	tx.pending[rec.Kind][rec.ID] = rec.Data
	tx.ops = append(tx.ops, rec)
}

func (tx *redisTx) lookup(kind graph.Kind, id string) (data []byte, deleted, ok bool) {
	data, ok = tx.pending[kind][id]
	return data, ok && data == nil, ok
}

// RedisStore keeps one hash per entity kind, field = identifier, value = JSON
// record.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "rendiciones"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) InTx(ctx context.Context, fn func(context.Context) error) error {
	if s.tx(ctx) != nil {
		return fn(ctx)
	}
	tx := &redisTx{store: s, pending: map[graph.Kind]map[string][]byte{}}
	if err := fn(context.WithValue(ctx, redisTxKey{}, tx)); err != nil {
		return err
	}
	if len(tx.ops) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range tx.ops {
			if op.Data == nil {
				pipe.HDel(ctx, s.hashKey(op.Kind), op.ID)
				continue
			}
			pipe.HSet(ctx, s.hashKey(op.Kind), op.ID, []byte(op.Data))
		}
		return nil
	})
	if err != nil {
		return storageError(opTx, "", errors.Wrap(err, "exec"))
	}
	return nil
}

func (s *RedisStore) LoadAll(ctx context.Context, kind graph.Kind) ([]Record, error) {
	if err := validKind(kind); err != nil {
		return nil, storageError(opLoadAll, kind, err)
	}
	rows, err := s.client.HGetAll(ctx, s.hashKey(kind)).Result()
	if err != nil {
		return nil, storageError(opLoadAll, kind, errors.Wrap(err, "hgetall"))
	}
	data := make(map[string][]byte, len(rows))
	for id, v := range rows {
		data[id] = []byte(v)
	}
	if tx := s.tx(ctx); tx != nil {
		for id, v := range tx.pending[kind] {
			if v == nil {
				delete(data, id)
				continue
			}
			data[id] = v
		}
	}
	out := make([]Record, 0, len(data))
	for _, id := range slices.Sorted(maps.Keys(data)) {
		out = append(out, Record{Kind: kind, ID: id, Data: data[id]})
	}
	return out, nil
}

func (s *RedisStore) LoadByID(ctx context.Context, kind graph.Kind, id string) (*Record, error) {
	if err := validKind(kind); err != nil {
		return nil, storageError(opLoadByID, kind, err)
	}
	if tx := s.tx(ctx); tx != nil {
		if data, deleted, ok := tx.lookup(kind, id); ok {
			if deleted {
				return nil, nil
			}
			return &Record{Kind: kind, ID: id, Data: slices.Clone(data)}, nil
		}
	}
	v, err := s.client.HGet(ctx, s.hashKey(kind), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(opLoadByID, kind, errors.Wrap(err, "hget"))
	}
	return &Record{Kind: kind, ID: id, Data: []byte(v)}, nil
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	if err := validKind(rec.Kind); err != nil {
		return storageError(opSave, rec.Kind, err)
	}
	if rec.Data == nil {
		rec.Data = []byte("null")
	}
	if tx := s.tx(ctx); tx != nil {
		tx.put(rec)
		return nil
	}
	if err := s.client.HSet(ctx, s.hashKey(rec.Kind), rec.ID, []byte(rec.Data)).Err(); err != nil {
		return storageError(opSave, rec.Kind, errors.Wrap(err, "hset"))
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, kind graph.Kind, id string) error {
	if err := validKind(kind); err != nil {
		return storageError(opDelete, kind, err)
	}
	if tx := s.tx(ctx); tx != nil {
		tx.put(Record{Kind: kind, ID: id})
		return nil
	}
	if err := s.client.HDel(ctx, s.hashKey(kind), id).Err(); err != nil {
		return storageError(opDelete, kind, errors.Wrap(err, "hdel"))
	}
	return nil
}

func (s *RedisStore) UpdateField(ctx context.Context, kind graph.Kind, id, field string, value any) error {
	rec, err := s.LoadByID(ctx, kind, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return storageError(opUpdateField, kind, notFound(kind, id))
	}
	data, err := setField(rec.Data, field, value)
	if err != nil {
		return storageError(opUpdateField, kind, err)
	}
	return s.Save(ctx, Record{Kind: kind, ID: id, Data: data})
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) hashKey(kind graph.Kind) string {
	return s.prefix + ":" + string(kind)
}

func (s *RedisStore) tx(ctx context.Context) *redisTx {
	if tx, ok := ctx.Value(redisTxKey{}).(*redisTx); ok && tx.store == s {
		return tx
	}
	return nil
}
