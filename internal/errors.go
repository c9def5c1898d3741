package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeUnauthenticated  ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden        ErrorType = "FORBIDDEN"
	ErrorTypeInvalidOperation ErrorType = "INVALID_OPERATION"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeRateLimited      ErrorType = "RATE_LIMITED"
	ErrorTypeTooSoon          ErrorType = "TOO_SOON"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"

	ErrCodeSessionMissing ErrorCode = "SESSION_MISSING"
	ErrCodeSessionExpired ErrorCode = "SESSION_EXPIRED"
	ErrCodeBadCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive   ErrorCode = "USER_INACTIVE"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodePageNotFound       ErrorCode = "PAGE_NOT_FOUND"
	ErrCodePermissionNotFound ErrorCode = "PERMISSION_NOT_FOUND"
	ErrCodeDepartmentNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodePositionNotFound   ErrorCode = "POSITION_NOT_FOUND"
	ErrCodeAbsenceNotFound    ErrorCode = "ABSENCE_NOT_FOUND"
	ErrCodePointageNotFound   ErrorCode = "POINTAGE_NOT_FOUND"

	ErrCodeRoleMismatch      ErrorCode = "ROLE_MISMATCH"
	ErrCodeMissingPermission ErrorCode = "MISSING_PERMISSION"
	ErrCodeAdminNotScoped    ErrorCode = "ADMIN_NOT_PERMISSION_SCOPED"
	ErrCodeDepartmentInUse   ErrorCode = "DEPARTMENT_IN_USE"
	ErrCodeAlreadyClockedIn  ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeNotClockedIn      ErrorCode = "NOT_CLOCKED_IN"
	ErrCodeBreakAlreadyOpen  ErrorCode = "BREAK_ALREADY_OPEN"
	ErrCodeNoOpenBreak       ErrorCode = "NO_OPEN_BREAK"
	ErrCodeSyncDisabled      ErrorCode = "LDAP_SYNC_DISABLED"
	ErrCodeSyncCooldown      ErrorCode = "LDAP_SYNC_COOLDOWN"
	ErrCodeTooManyRequests   ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeAbsenceDecided    ErrorCode = "ABSENCE_ALREADY_DECIDED"
	ErrCodeDownloadTokenBad  ErrorCode = "INVALID_DOWNLOAD_TOKEN"
	ErrCodeDuplicateResource ErrorCode = "DUPLICATE_RESOURCE"
	ErrCodeUnexpectedFailure ErrorCode = "UNEXPECTED_FAILURE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy so sentinel errors are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthenticatedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInvalidOperationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidOperation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeTooManyRequests,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewTooSoonError reports a cooldown that has not elapsed. The remaining
// wait is carried in Details so API callers can surface a retry hint.
func NewTooSoonError(message string, remainingMinutes int) *AppError {
	return &AppError{
		Type:       ErrorTypeTooSoon,
		Code:       ErrCodeSyncCooldown,
		Message:    message,
		Details:    map[string]int{"remaining_minutes": remainingMinutes},
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeUnexpectedFailure,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrSessionMissing = NewUnauthenticatedError("No active session", ErrCodeSessionMissing)
	ErrSessionExpired = NewUnauthenticatedError("Session has expired", ErrCodeSessionExpired)
	ErrBadCredentials = NewUnauthenticatedError("Invalid email or password", ErrCodeBadCredentials)
	ErrUserInactive   = NewForbiddenError("User account is inactive", ErrCodeUserInactive)

	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrPageNotFound       = NewNotFoundError("Page not registered", ErrCodePageNotFound)
	ErrPermissionNotFound = NewNotFoundError("Permission not found", ErrCodePermissionNotFound)
	ErrDepartmentNotFound = NewNotFoundError("Department not found", ErrCodeDepartmentNotFound)
	ErrPositionNotFound   = NewNotFoundError("Position not found", ErrCodePositionNotFound)
	ErrAbsenceNotFound    = NewNotFoundError("Absence request not found", ErrCodeAbsenceNotFound)

	ErrRoleMismatch      = NewForbiddenError("Role not allowed for this page", ErrCodeRoleMismatch)
	ErrMissingPermission = NewForbiddenError("Missing required permission", ErrCodeMissingPermission)
	ErrAdminNotScoped    = NewInvalidOperationError("Admin permissions cannot be reset", ErrCodeAdminNotScoped)
	ErrDepartmentInUse   = NewInvalidOperationError("Department still has active employees", ErrCodeDepartmentInUse)
	ErrAlreadyClockedIn  = NewInvalidOperationError("Already clocked in", ErrCodeAlreadyClockedIn)
	ErrNotClockedIn      = NewInvalidOperationError("No open clock-in to close", ErrCodeNotClockedIn)
	ErrBreakAlreadyOpen  = NewInvalidOperationError("A break is already in progress", ErrCodeBreakAlreadyOpen)
	ErrNoOpenBreak       = NewInvalidOperationError("No break in progress", ErrCodeNoOpenBreak)
	ErrSyncDisabled      = NewInvalidOperationError("LDAP sync is disabled", ErrCodeSyncDisabled)
	ErrAbsenceDecided    = NewInvalidOperationError("Absence request already decided", ErrCodeAbsenceDecided)
	ErrDownloadTokenBad  = NewUnauthenticatedError("Invalid or expired download token", ErrCodeDownloadTokenBad)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
