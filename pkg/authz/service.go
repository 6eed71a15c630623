package authz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"github.com/sirupsen/logrus"
)

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	cfg      Config
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

// NewService constructs a Service with the provided config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	m, err := model.NewModelFromString(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to parse model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(cfg.Policy))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	return &Service{
		cfg:      cfg,
		enforcer: enf,
		logger:   logger,
	}, nil
}

// Authorize returns a permission error if the request is denied.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	allowed, err := s.Check(ctx, req)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.WithContext(ctx).WithFields(logrus.Fields{
			"subject": req.Subject,
			"object":  req.Object,
			"action":  req.Action,
		}).Warn("authz denied request")
		return forbiddenError(req, "")
	}
	return nil
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(ctx context.Context, req Request) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	res, err := s.enforcer.Enforce(req.Subject, req.Object, req.Action)
	if err != nil {
		recordDecision(req, decisionError, time.Since(start))
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	if res {
		recordDecision(req, decisionAllowed, time.Since(start))
	} else {
		recordDecision(req, decisionDenied, time.Since(start))
	}
	return res, nil
}

// Allowed is Check failing closed: enforcement errors count as a denial.
func (s *Service) Allowed(ctx context.Context, req Request) bool {
	allowed, err := s.Check(ctx, req)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("authz check failed, denying")
		return false
	}
	return allowed
}

// Enforcer exposes the underlying casbin enforcer (read-only usage only).
func (s *Service) Enforcer() *casbin.Enforcer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enforcer
}
