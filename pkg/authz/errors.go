package authz

import (
	"fmt"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

// forbiddenError builds a standardized error for denied policies.
func forbiddenError(req Request, reason string) *serrors.PermissionDeniedError {
	return serrors.NewPermissionDeniedError(RoleFromSubject(req.Subject), req.Object, req.Action, reason)
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
