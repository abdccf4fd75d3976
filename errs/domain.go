package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Domain error sentinels for the content lifecycle.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateSlug      = errors.New("slug already in use")
	ErrAttachmentRejected = errors.New("attachment rejected")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Attachment rejection reasons. Rejection always happens before any write, so
// a rejected batch is never partially applied.
const (
	AttachmentRejectedSize = "size"
	AttachmentRejectedType = "type"
)

// NewValidationError is a client-correctable per-field failure.
func NewValidationError(field, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    reason,
		Field:      field,
	}
}

// NewDuplicateSlugError surfaces a unique-index collision on a slug. There is
// no automatic retry with a fresh suffix; the caller may resubmit.
func NewDuplicateSlugError(slug string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrDuplicateSlug,
		Details:    fmt.Sprintf("slug %q is already taken", slug),
		Field:      "slug",
	}
}

// NewAttachmentRejectedError reports a local file-validation failure
// (reason is AttachmentRejectedSize or AttachmentRejectedType).
func NewAttachmentRejectedError(reason, detail string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrAttachmentRejected,
		Details:    detail,
		Field:      reason,
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsDuplicateSlug(err error) bool {
	return errors.Is(err, ErrDuplicateSlug)
}

func IsAttachmentRejected(err error) bool {
	return errors.Is(err, ErrAttachmentRejected)
}

// NewDatabaseError wraps a storage failure with context about the operation.
// Common database errors are sniffed out of the cause to pick a better status.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s already exists", entity),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "foreign key constraint"):
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        fmt.Errorf("invalid reference in %s", entity),
				Details:    "The referenced resource does not exist or cannot be linked",
				Cause:      cause,
			}
		case strings.Contains(errStr, "not found"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        ErrNotFound,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

// IsUnknownColumn reports whether err looks like a write rejected because the
// named column is missing from the backing schema. Used by the post lifecycle's
// one-shot showAttachments compatibility retry.
func IsUnknownColumn(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, column) && strings.Contains(msg, "does not exist")
}
