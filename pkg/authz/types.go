package authz

import (
	"strings"
)

const (
	rolePrefix            = "role"
	subjectSeparator      = ":"
	defaultActionWildcard = "*"
)

// Request encapsulates all parameters required to evaluate a Casbin rule.
type Request struct {
	Subject string
	Object  string
	Action  string
}

// NewRequest constructs a normalized Request.
func NewRequest(subject, object, action string) Request {
	return Request{
		Subject: subject,
		Object:  NormalizeObject(object),
		Action:  NormalizeAction(action),
	}
}

// SubjectForRole returns the canonical identifier for a role-based subject.
func SubjectForRole(roleSlug string) string {
	roleSlug = strings.TrimSpace(roleSlug)
	if roleSlug == "" {
		roleSlug = "unnamed"
	}
	if strings.HasPrefix(roleSlug, rolePrefix+subjectSeparator) {
		return roleSlug
	}
	return rolePrefix + subjectSeparator + strings.ToLower(roleSlug)
}

// RoleFromSubject strips the role prefix added by SubjectForRole.
func RoleFromSubject(subject string) string {
	return strings.TrimPrefix(subject, rolePrefix+subjectSeparator)
}

// NormalizeObject returns the lowercased object name.
func NormalizeObject(object string) string {
	object = strings.ToLower(strings.TrimSpace(object))
	if object == "" {
		return "resource"
	}
	return object
}

// NormalizeAction returns a normalized action string.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return defaultActionWildcard
	}
	return action
}
