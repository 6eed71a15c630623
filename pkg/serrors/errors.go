// Package serrors holds the structured error taxonomy shared by the domain,
// the services and the persistence adapters.
package serrors

import (
	"errors"
	"fmt"
)

const (
	CodeValidation       = "VALIDATION_FAILED"
	CodeInvalidDocument  = "INVALID_DOCUMENT"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidAssignee  = "INVALID_ASSIGNEE"
	CodeStorage          = "STORAGE_FAILED"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidAssignee  = errors.New("invalid assignee")
	ErrStorage          = errors.New("storage failure")
)

// BaseError carries the machine readable part of every error in the taxonomy.
type BaseError struct {
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	LocaleKey    string            `json:"locale_key,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	e.TemplateData = data
	return e
}

// ValidationError reports a broken structural constraint.
type ValidationError struct {
	BaseError
	Entity     string
	Field      string
	Constraint string
}

func NewValidationError(entity, field, constraint string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{
			Code:      CodeValidation,
			Message:   fmt.Sprintf("%s.%s: %s", entity, field, constraint),
			LocaleKey: "Errors.Validation",
			TemplateData: map[string]string{
				"entity":     entity,
				"field":      field,
				"constraint": constraint,
			},
		},
		Entity:     entity,
		Field:      field,
		Constraint: constraint,
	}
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidDocumentError is the validation failure raised for a document name
// outside a restricted catalog.
type InvalidDocumentError struct {
	BaseError
	Document string
}

func NewInvalidDocumentError(document string) *InvalidDocumentError {
	return &InvalidDocumentError{
		BaseError: BaseError{
			Code:         CodeInvalidDocument,
			Message:      fmt.Sprintf("document %q is not part of the catalog", document),
			LocaleKey:    "Errors.InvalidDocument",
			TemplateData: map[string]string{"document": document},
		},
		Document: document,
	}
}

func (e *InvalidDocumentError) Unwrap() error { return ErrValidation }

// PermissionDeniedError is returned when the role lacks the capability or a
// business predicate rejects the operation.
type PermissionDeniedError struct {
	BaseError
	Role   string
	Object string
	Action string
	Reason string
}

func NewPermissionDeniedError(role, object, action, reason string) *PermissionDeniedError {
	msg := fmt.Sprintf("permission denied: %s cannot %s %s", role, action, object)
	if reason != "" {
		msg += ": " + reason
	}
	return &PermissionDeniedError{
		BaseError: BaseError{
			Code:      CodePermissionDenied,
			Message:   msg,
			LocaleKey: "Errors.PermissionDenied",
			TemplateData: map[string]string{
				"role":   role,
				"object": object,
				"action": action,
				"reason": reason,
			},
		},
		Role:   role,
		Object: object,
		Action: action,
		Reason: reason,
	}
}

func (e *PermissionDeniedError) Unwrap() error { return ErrPermissionDenied }

type NotFoundError struct {
	BaseError
	Object string
	ID     string
}

func NewNotFoundError(object, id string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Code:      CodeNotFound,
			Message:   fmt.Sprintf("%s %q not found", object, id),
			LocaleKey: "Errors.NotFound",
			TemplateData: map[string]string{
				"object": object,
				"id":     id,
			},
		},
		Object: object,
		ID:     id,
	}
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidAssigneeError means the target user lacks the capability required by
// the relationship being assigned.
type InvalidAssigneeError struct {
	BaseError
	UserID     string
	Capability string
}

func NewInvalidAssigneeError(userID, capability string) *InvalidAssigneeError {
	return &InvalidAssigneeError{
		BaseError: BaseError{
			Code:      CodeInvalidAssignee,
			Message:   fmt.Sprintf("user %q cannot %s", userID, capability),
			LocaleKey: "Errors.InvalidAssignee",
			TemplateData: map[string]string{
				"user":       userID,
				"capability": capability,
			},
		},
		UserID:     userID,
		Capability: capability,
	}
}

func (e *InvalidAssigneeError) Unwrap() error { return ErrInvalidAssignee }

// StorageError wraps an opaque failure of the persistence collaborator.
type StorageError struct {
	BaseError
	Op    string
	Kind  string
	Cause error
}

func NewStorageError(op, kind string, cause error) *StorageError {
	msg := fmt.Sprintf("storage %s %s failed", op, kind)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &StorageError{
		BaseError: BaseError{
			Code:      CodeStorage,
			Message:   msg,
			LocaleKey: "Errors.Storage",
		},
		Op:    op,
		Kind:  kind,
		Cause: cause,
	}
}

func (e *StorageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStorage}
	}
	return []error{ErrStorage, e.Cause}
}

// Code returns the taxonomy code of err, or an empty string.
func Code(err error) string {
	var coded interface{ code() string }
	if errors.As(err, &coded) {
		return coded.code()
	}
	return ""
}

func (e *BaseError) code() string { return e.Code }
