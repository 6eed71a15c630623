package persistence

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/rendiciones/rendiciones/modules/accountability/graph"
)

// GraphRepository loads an entity graph from a Store and writes back the
// changes recorded on it.
type GraphRepository struct {
	store Store
}

func NewGraphRepository(store Store) *GraphRepository {
	return &GraphRepository{store: store}
}

func (r *GraphRepository) Store() Store { return r.store }

func (r *GraphRepository) Load(ctx context.Context) (*graph.Graph, error) {
	users, err := loadKind(ctx, r.store, graph.KindUser, ToDomainUser)
	if err != nil {
		return nil, err
	}
	municipalities, err := loadKind(ctx, r.store, graph.KindMunicipality, ToDomainMunicipality)
	if err != nil {
		return nil, err
	}
	convocations, err := loadKind(ctx, r.store, graph.KindConvocation, ToDomainConvocation)
	if err != nil {
		return nil, err
	}
	presentations, err := loadKind(ctx, r.store, graph.KindPresentation, ToDomainPresentation)
	if err != nil {
		return nil, err
	}
	g, err := graph.Load(users, municipalities, convocations, presentations)
	if err != nil {
		return nil, storageError(opDecode, "", err)
	}
	return g, nil
}

// Flush applies the graph's change set in a single store transaction.
func (r *GraphRepository) Flush(ctx context.Context, g *graph.Graph) error {
	changes := g.Changes()
	if len(changes) == 0 {
		return nil
	}
	return r.store.InTx(ctx, func(txCtx context.Context) error {
		for _, c := range changes {
			if err := r.apply(txCtx, g, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GraphRepository) apply(ctx context.Context, g *graph.Graph, c graph.Change) error {
	switch c.Op {
	case graph.OpSave:
		rec, err := encode(g, c.Kind, c.ID)
		if err != nil {
			return err
		}
		return r.store.Save(ctx, rec)
	case graph.OpUpdateField:
		return r.store.UpdateField(ctx, c.Kind, c.ID, c.Field, c.Value)
	case graph.OpDelete:
		return r.store.Delete(ctx, c.Kind, c.ID)
	}
	return storageError(opTx, c.Kind, errors.Errorf("unknown change op %q", c.Op))
}

func encode(g *graph.Graph, kind graph.Kind, id string) (Record, error) {
	var model any
	switch kind {
	case graph.KindUser:
		u, err := g.User(id)
		if err != nil {
			return Record{}, err
		}
		model = ToDBUser(u)
	case graph.KindMunicipality:
		m, err := g.Municipality(id)
		if err != nil {
			return Record{}, err
		}
		model = ToDBMunicipality(m)
	case graph.KindConvocation:
		c, err := g.Convocation(id)
		if err != nil {
			return Record{}, err
		}
		model = ToDBConvocation(c)
	case graph.KindPresentation:
		p, err := g.Presentation(id)
		if err != nil {
			return Record{}, err
		}
		model = ToDBPresentation(p)
	default:
		return Record{}, storageError(opEncode, kind, errors.Errorf("unknown kind %q", kind))
	}
	data, err := json.Marshal(model)
	if err != nil {
		return Record{}, storageError(opEncode, kind, errors.Wrap(err, "marshal"))
	}
	return Record{Kind: kind, ID: id, Data: data}, nil
}

func loadKind[M any, E any](ctx context.Context, store Store, kind graph.Kind, toDomain func(M) (E, error)) ([]E, error) {
	records, err := store.LoadAll(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, len(records))
	for _, rec := range records {
		var model M
		if err := json.Unmarshal(rec.Data, &model); err != nil {
			return nil, storageError(opDecode, kind, errors.Wrapf(err, "record %s", rec.ID))
		}
		entity, err := toDomain(model)
		if err != nil {
			return nil, storageError(opDecode, kind, errors.Wrapf(err, "record %s", rec.ID))
		}
		out = append(out, entity)
	}
	return out, nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*BadgerStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
