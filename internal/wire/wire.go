// Package wire holds the JSON shapes and error codes shared by the catalog
// data service and its HTTP client.
package wire

import (
	"errors"
	"net/http"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// Response is the envelope of every reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes carried in Error.Code.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeTableNotFound = "TABLE_NOT_FOUND"
	CodeInvalidID     = "INVALID_ID"
	CodeInvalidData   = "INVALID_DATA"
	CodeInvalidField  = "INVALID_FIELD"
	CodeInvalidFilter = "INVALID_FILTER"
	CodeInvalidName   = "INVALID_NAME"
	CodeTypeMismatch  = "TYPE_MISMATCH"
	CodeUnavailable   = "UNAVAILABLE"
	CodeInternal      = "INTERNAL_SERVER_ERROR"
)

// storeErrors maps each store sentinel to its status and code. Order matters
// only for errors wrapping more than one sentinel.
var storeErrors = []struct {
	err    error
	status int
	code   string
}{
	{types.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{types.ErrTableNotFound, http.StatusNotFound, CodeTableNotFound},
	{types.ErrInvalidID, http.StatusBadRequest, CodeInvalidID},
	{types.ErrInvalidName, http.StatusBadRequest, CodeInvalidName},
	{types.ErrInvalidField, http.StatusBadRequest, CodeInvalidField},
	{types.ErrInvalidFilter, http.StatusBadRequest, CodeInvalidFilter},
	{types.ErrTypeMismatch, http.StatusBadRequest, CodeTypeMismatch},
	{types.ErrInvalidData, http.StatusBadRequest, CodeInvalidData},
	{types.ErrCupboardDetached, http.StatusServiceUnavailable, CodeUnavailable},
}

// CreatedData is the payload of a successful create or upsert.
type CreatedData struct {
	ID string `json:"id"`
}

// PatchRequest is the body of PATCH /v1/:table/:id.
type PatchRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// StatusFor maps a store error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	for _, e := range storeErrors {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// ErrorForCode returns the store sentinel behind code, or nil when code does
// not name one.
func ErrorForCode(code string) error {
	for _, e := range storeErrors {
		if e.code == code {
			return e.err
		}
	}
	return nil
}
