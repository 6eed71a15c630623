package persistence

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rendiciones/rendiciones/modules/accountability/graph"
	"github.com/rendiciones/rendiciones/modules/accountability/infrastructure/persistence/migrations"
	"github.com/rendiciones/rendiciones/pkg/composables"
)

var tables = map[graph.Kind]string{
	graph.KindUser:         "accountability_users",
	graph.KindMunicipality: "accountability_municipalities",
	graph.KindConvocation:  "accountability_convocations",
	graph.KindPresentation: "accountability_presentations",
}

// PostgresStore keeps one (id, jsonb) table per entity kind.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose dialect")
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "goose up")
	}
	return nil
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(context.Context) error) error {
	if composables.HasTx(ctx) {
		return fn(ctx)
	}
	var fnErr error
	err := composables.InTx(composables.WithPool(ctx, s.pool), func(txCtx context.Context) error {
		fnErr = fn(txCtx)
		return fnErr
	})
	if err == nil || fnErr != nil {
		return err
	}
	return storageError(opTx, "", err)
}

func (s *PostgresStore) LoadAll(ctx context.Context, kind graph.Kind) ([]Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, storageError(opLoadAll, kind, err)
	}
	rows, err := s.conn(ctx).Query(ctx, "SELECT id, data FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, storageError(opLoadAll, kind, errors.Wrap(err, "query"))
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		rec := Record{Kind: kind}
		var data []byte
		if err := row.Scan(&rec.ID, &data); err != nil {
			return Record{}, err
		}
		rec.Data = data
		return rec, nil
	})
	if err != nil {
		return nil, storageError(opLoadAll, kind, errors.Wrap(err, "scan"))
	}
	return out, nil
}

func (s *PostgresStore) LoadByID(ctx context.Context, kind graph.Kind, id string) (*Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, storageError(opLoadByID, kind, err)
	}
	var data []byte
	err = s.conn(ctx).QueryRow(ctx, "SELECT data FROM "+table+" WHERE id = $1", id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(opLoadByID, kind, errors.Wrap(err, "query row"))
	}
	return &Record{Kind: kind, ID: id, Data: data}, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	table, err := tableFor(rec.Kind)
	if err != nil {
		return storageError(opSave, rec.Kind, err)
	}
	_, err = s.conn(ctx).Exec(ctx,
		"INSERT INTO "+table+" (id, data) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data",
		rec.ID, []byte(rec.Data),
	)
	if err != nil {
		return storageError(opSave, rec.Kind, errors.Wrap(err, "upsert"))
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, kind graph.Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return storageError(opDelete, kind, err)
	}
	if _, err := s.conn(ctx).Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id); err != nil {
		return storageError(opDelete, kind, errors.Wrap(err, "delete"))
	}
	return nil
}

func (s *PostgresStore) UpdateField(ctx context.Context, kind graph.Kind, id, field string, value any) error {
	table, err := tableFor(kind)
	if err != nil {
		return storageError(opUpdateField, kind, err)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return storageError(opUpdateField, kind, errors.Wrap(err, "encode field"))
	}
	tag, err := s.conn(ctx).Exec(ctx,
		"UPDATE "+table+" SET data = jsonb_set(data, ARRAY[$2::text], $3::jsonb, true) WHERE id = $1",
		id, field, raw,
	)
	if err != nil {
		return storageError(opUpdateField, kind, errors.Wrap(err, "update"))
	}
	if tag.RowsAffected() == 0 {
		return storageError(opUpdateField, kind, notFound(kind, id))
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) conn(ctx context.Context) composables.Tx {
	tx, err := composables.UseTx(composables.WithPool(ctx, s.pool))
	if err != nil {
		return s.pool
	}
	return tx
}

func tableFor(kind graph.Kind) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", errors.Errorf("unknown kind %q", kind)
	}
	return table, nil
}
