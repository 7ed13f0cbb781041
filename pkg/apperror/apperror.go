package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the typed failure every core operation surfaces. Status carries
// the HTTP mapping decided at construction (404 NotFound, 403 Forbidden,
// 400 Validation, 401 Unauthorized); handlers pass it through unchanged.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// NotFound builds a 404 error for a missing resource or ancestor.
func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

// Forbidden builds a 403 error for a failed role or membership check.
func Forbidden(code, message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code, Message: message}
}

// Validation builds a 400 error for malformed input.
func Validation(code, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized builds a 401 error for missing or bad credentials.
func Unauthorized(code, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: message}
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code string) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// Error codes shared across services. Handlers never invent codes; every
// denial or miss maps to one of these.
const (
	CodeProjectNotFound = "PROJECT_NOT_FOUND"
	CodeBoardNotFound   = "BOARD_NOT_FOUND"
	CodeColumnNotFound  = "COLUMN_NOT_FOUND"
	CodeCardNotFound    = "CARD_NOT_FOUND"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeMemberNotFound  = "MEMBER_NOT_FOUND"
	CodeNoInvitation    = "NO_INVITATION"

	CodeNotProjectMember   = "NOT_PROJECT_MEMBER"
	CodeAdminRequired      = "ADMIN_REQUIRED"
	CodeSuperAdminRequired = "SUPERADMIN_REQUIRED"
	CodeAccessDenied       = "ACCESS_DENIED"

	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidProjectID     = "INVALID_PROJECT_ID"
	CodeInvalidBoardID       = "INVALID_BOARD_ID"
	CodeInvalidColumnID      = "INVALID_COLUMN_ID"
	CodeInvalidCardID        = "INVALID_CARD_ID"
	CodeUserNotProjectMember = "USER_NOT_PROJECT_MEMBER"
	CodeMemberExists         = "MEMBER_EXISTS"
	CodeUserExists           = "USER_EXISTS"

	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeInvalidRefreshToken    = "INVALID_REFRESH_TOKEN"
	CodeInvalidInvitationToken = "INVALID_INVITATION_TOKEN"
	CodeInvitationExpired      = "INVITATION_EXPIRED"
	CodeUnauthorized           = "UNAUTHORIZED"
)
