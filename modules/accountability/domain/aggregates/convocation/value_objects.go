package convocation

import (
	"strings"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

func NewStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", serrors.NewValidationError(EntityName, "status", "oneof=open closed")
	}
	return status, nil
}

func (s Status) IsValid() bool {
	return s == StatusOpen || s == StatusClosed
}

func (s Status) String() string { return string(s) }
