package apperrors

import (
	"net/http"
)

// Factories and predefined errors for domain failures.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Attachment lifecycle ---
//
// The four failure kinds the lifecycle manager can surface. The compensating
// delete after a failed metadata write has no error of its own here: its
// failure is logged, never propagated, and the original MetadataWriteFailed
// is what the caller sees.

// ErrUploadFailed: the blob never reached the object store. No metadata row
// exists, the system is consistent.
func ErrUploadFailed(err error) *AppError {
	return Wrap(err, CodeUploadFailed, "attachments", "Failed to upload file to object storage", http.StatusBadGateway)
}

// ErrMetadataWriteFailed: the blob was stored but the metadata row was not.
// A best-effort compensating blob delete has already been attempted by the
// time this is returned.
func ErrMetadataWriteFailed(err error) *AppError {
	return Wrap(err, CodeMetadataWriteFailed, "attachments", "Failed to record attachment metadata", http.StatusInternalServerError)
}

// ErrMetadataDeleteFailed: the metadata row could not be removed. The blob
// is left untouched, so both stores still agree.
func ErrMetadataDeleteFailed(err error) *AppError {
	return Wrap(err, CodeMetadataDeleteFailed, "attachments", "Failed to delete attachment metadata", http.StatusInternalServerError)
}

// ErrResolveFailed: a public URL could not be derived for a stored key.
func ErrResolveFailed(err error) *AppError {
	return Wrap(err, CodeResolveFailed, "attachments", "Failed to resolve attachment URL", http.StatusInternalServerError)
}

// ErrObjectDeleteFailed: a single-slot blob could not be removed. Only the
// single-slot path surfaces this; for metadata-backed attachments a failed
// blob delete after a successful metadata delete is logged and swallowed.
func ErrObjectDeleteFailed(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "attachments", "Failed to delete file from object storage", http.StatusBadGateway)
}

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrEmptyFile = New(
	CodeValidationFailed,
	"validation",
	"Uploaded file is empty",
	http.StatusBadRequest,
)

var ErrUnknownOwnerKind = New(
	CodeValidationFailed,
	"attachments",
	"Unknown attachment owner kind",
	http.StatusBadRequest,
)

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Service orders ---

var ErrInvalidOrderStatus = New(
	CodeInvalidOperation,
	"service_orders",
	"Operation not allowed for the current order status",
	http.StatusConflict,
)
