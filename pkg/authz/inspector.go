package authz

import (
	"context"
	"fmt"
	"time"
)

// InspectionResult captures the full outcome of an authorization evaluation.
type InspectionResult struct {
	Allowed         bool
	Trace           []string
	Latency         time.Duration
	OriginalRequest Request
}

// Inspect evaluates a request and returns the matched policy for debugging.
func (s *Service) Inspect(ctx context.Context, req Request) (InspectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	allowed, trace, err := s.enforcer.EnforceEx(req.Subject, req.Object, req.Action)
	latency := time.Since(start)
	if err != nil {
		return InspectionResult{}, fmt.Errorf("authz: inspect failed: %w", err)
	}

	return InspectionResult{
		Allowed:         allowed,
		Trace:           append([]string{}, trace...),
		Latency:         latency,
		OriginalRequest: req,
	}, nil
}
