// Package apperrors defines the stable error kinds surfaced by the
// domain services. Controllers map kinds to HTTP statuses; the kinds
// themselves carry no transport concepts.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind string

const (
	// KindUnauthorized: the actor's role cannot perform this action at all.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden: the role can perform this class of action, but not
	// on this target (e.g. a BDE outside the actor's branch).
	KindForbidden Kind = "forbidden"
	// KindInvalidTarget: the referenced entity has the wrong role for the
	// requested relationship.
	KindInvalidTarget Kind = "invalid_target"
	// KindOrphanSupervisor: the target BDM has no manager of its own.
	KindOrphanSupervisor Kind = "orphan_supervisor"
	KindNotFound         Kind = "not_found"
	KindNotPending       Kind = "not_pending"
	KindNotRejected      Kind = "not_rejected"
	KindNotOwner         Kind = "not_owner"
	KindProductNotFound  Kind = "product_not_found"
	KindConflict         Kind = "conflict"
	KindValidation       Kind = "validation"
	KindInternal         Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of err, or KindInternal for errors that did
// not originate in the domain layer.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code the transport
// layer should respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden, KindNotOwner:
		return http.StatusForbidden
	case KindNotFound, KindProductNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidTarget, KindOrphanSupervisor, KindNotPending, KindNotRejected, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
