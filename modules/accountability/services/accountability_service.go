// Package services is the access-controlled entry point to the accountability
// graph. Every operation resolves the acting user, checks the permission
// matrix and the operation's business predicates, and only then mutates a
// clone of the graph that replaces the live one once the store commits.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/events"
	"github.com/rendiciones/rendiciones/modules/accountability/graph"
	"github.com/rendiciones/rendiciones/modules/accountability/infrastructure/persistence"
	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
	"github.com/rendiciones/rendiciones/pkg/composables"
	"github.com/rendiciones/rendiciones/pkg/eventbus"
	"github.com/rendiciones/rendiciones/pkg/lock"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

const DefaultLockKey = "accountability:graph"

var tracer = otel.Tracer("rendiciones-accountability")

type Config struct {
	Repository  *persistence.GraphRepository
	Permissions *permissions.Model
	// Locker defaults to an in-process lock.
	Locker   lock.Locker
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
	// Now defaults to time.Now; tests pin it to make convocation windows
	// deterministic.
	Now     func() time.Time
	LockKey string
}

type AccountabilityService struct {
	repo    *persistence.GraphRepository
	perms   *permissions.Model
	locker  lock.Locker
	bus     eventbus.EventBus
	log     *logrus.Entry
	now     func() time.Time
	lockKey string

	mu    sync.RWMutex
	graph *graph.Graph
}

// NewAccountabilityService loads the graph from the repository's store.
func NewAccountabilityService(ctx context.Context, cfg Config) (*AccountabilityService, error) {
	if cfg.Repository == nil {
		return nil, errors.New("accountability: repository is required")
	}
	if cfg.Permissions == nil {
		return nil, errors.New("accountability: permission model is required")
	}
	if cfg.Locker == nil {
		cfg.Locker = lock.NewLocalLocker()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LockKey == "" {
		cfg.LockKey = DefaultLockKey
	}
	g, err := cfg.Repository.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &AccountabilityService{
		repo:    cfg.Repository,
		perms:   cfg.Permissions,
		locker:  cfg.Locker,
		bus:     cfg.EventBus,
		log:     cfg.Logger.WithField("component", "accountability"),
		now:     cfg.Now,
		lockKey: cfg.LockKey,
		graph:   g,
	}, nil
}

func (s *AccountabilityService) Permissions() *permissions.Model { return s.perms }

// Snapshot returns a copy of the live graph.
func (s *AccountabilityService) Snapshot(ctx context.Context) (*graph.Graph, error) {
	g, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// mutate runs fn against a clone of the graph on behalf of actorID. The
// clone's changes are flushed in one store transaction and the clone becomes
// the live graph only when the flush succeeds.
func (s *AccountabilityService) mutate(
	ctx context.Context,
	op, actorID string,
	fn func(g *graph.Graph, actor *user.User) error,
) error {
	return s.commit(ctx, op, actorID, func(g *graph.Graph) error {
		actor, err := g.User(actorID)
		if err != nil {
			return err
		}
		return fn(g, actor)
	})
}

func (s *AccountabilityService) commit(ctx context.Context, op, actorID string, fn func(g *graph.Graph) error) (err error) {
	ctx, span := s.start(ctx, op, actorID)
	started := time.Now()
	defer func() {
		s.finish(span, op, started, err)
	}()

	lease, err := s.locker.Acquire(ctx, s.lockKey)
	if err != nil {
		return err
	}
	defer s.release(ctx, lease)

	live, err := s.current(ctx)
	if err != nil {
		return err
	}
	work := live.Clone()
	if err := fn(work); err != nil {
		return err
	}
	changes := work.Changes()
	if err := s.repo.Flush(ctx, work); err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"actor":     actorID,
			"operation": op,
			"changes":   len(changes),
		}).WithError(err).Error("accountability: flush failed, graph left unchanged")
		return err
	}
	work.ResetChanges()
	s.swap(work)
	s.publish(ctx, op, actorID, changes)
	return nil
}

// query runs fn against the live graph on behalf of actorID.
func (s *AccountabilityService) query(
	ctx context.Context,
	op, actorID string,
	fn func(g *graph.Graph, actor *user.User) error,
) (err error) {
	ctx, span := s.start(ctx, op, actorID)
	started := time.Now()
	defer func() {
		s.finish(span, op, started, err)
	}()

	g, err := s.view(ctx)
	if err != nil {
		return err
	}
	actor, err := g.User(actorID)
	if err != nil {
		return err
	}
	return fn(g, actor)
}

// view returns the live graph. With a shared lock the graph is reloaded
// under the lock so that writes from other processes are seen.
func (s *AccountabilityService) view(ctx context.Context) (*graph.Graph, error) {
	if !s.locker.Shared() {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.graph, nil
	}
	lease, err := s.locker.Acquire(ctx, s.lockKey)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)
	return s.current(ctx)
}

// current must be called with the graph lock held.
func (s *AccountabilityService) current(ctx context.Context) (*graph.Graph, error) {
	if s.locker.Shared() {
		g, err := s.repo.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.swap(g)
		return g, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, nil
}

func (s *AccountabilityService) swap(g *graph.Graph) {
	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()
}

func (s *AccountabilityService) release(ctx context.Context, lease lock.Lease) {
	if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
		s.logger(ctx).WithError(err).Warn("accountability: releasing graph lock")
	}
}

func (s *AccountabilityService) start(ctx context.Context, op, actorID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "accountability."+op, trace.WithAttributes(
		attribute.String("accountability.operation", op),
		attribute.String("accountability.actor", actorID),
		attribute.String("request.id", composables.UseRequestID(ctx)),
	))
}

func (s *AccountabilityService) finish(span trace.Span, op string, started time.Time, err error) {
	recordOperation(op, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, serrors.Code(err))
	}
	span.End()
}

// can reports whether actor's role holds act on obj.
func (s *AccountabilityService) can(ctx context.Context, actor *user.User, obj permissions.Object, act permissions.Action) bool {
	return s.perms.Allowed(ctx, actor.Role(), obj, act)
}

// authorize fails with a PermissionDeniedError unless the actor holds act on
// obj.
func (s *AccountabilityService) authorize(ctx context.Context, actor *user.User, obj permissions.Object, act permissions.Action) error {
	if s.can(ctx, actor, obj, act) {
		return nil
	}
	return s.deny(ctx, actor, obj, act, "")
}

// deny builds the error for a missing capability or a failed predicate.
func (s *AccountabilityService) deny(
	ctx context.Context,
	actor *user.User,
	obj permissions.Object,
	act permissions.Action,
	reason string,
) error {
	recordDenial(string(obj), string(act))
	s.logger(ctx).WithFields(logrus.Fields{
		"actor":  actor.ID(),
		"role":   actor.Role().String(),
		"object": string(obj),
		"action": string(act),
		"reason": reason,
	}).Warn("accountability: operation denied")
	return serrors.NewPermissionDeniedError(actor.Role().String(), string(obj), string(act), reason)
}

func (s *AccountabilityService) logger(ctx context.Context) *logrus.Entry {
	l := composables.UseLogger(ctx, s.log)
	if id := composables.UseRequestID(ctx); id != "" {
		l = l.WithField("request_id", id)
	}
	return l
}

func (s *AccountabilityService) publish(ctx context.Context, op, actorID string, changes []graph.Change) {
	if s.bus == nil {
		return
	}
	requestID := composables.UseRequestID(ctx)
	for _, c := range changes {
		s.bus.Publish(changeEvent(requestID, actorID, op, c))
	}
}

func changeEvent(requestID, actorID, op string, c graph.Change) *events.EntityChangedV1 {
	changeType := events.ChangeSaved
	switch c.Op {
	case graph.OpUpdateField:
		changeType = events.ChangeUpdated
	case graph.OpDelete:
		changeType = events.ChangeDeleted
	}
	ev := events.NewEntityChangedV1(requestID, actorID, op, changeType, string(c.Kind), c.ID)
	ev.Field = c.Field
	return ev
}

func (s *AccountabilityService) today() time.Time {
	return s.now().UTC()
}
