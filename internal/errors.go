package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden     ErrorType = "FORBIDDEN"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeUnprocessable ErrorType = "UNPROCESSABLE"
	ErrorTypeIntegrity     ErrorType = "INTEGRITY_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeEmptyBatch       ErrorCode = "EMPTY_VOUCHER_BATCH"

	ErrCodeVoucherNotFound       ErrorCode = "VOUCHER_NOT_FOUND"
	ErrCodeFundNotFound          ErrorCode = "FUND_NOT_CONFIGURED"
	ErrCodeAccountNotFound       ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeBudgetNotFound        ErrorCode = "BUDGET_NOT_FOUND"
	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodeReplenishmentNotFound ErrorCode = "REPLENISHMENT_NOT_FOUND"

	ErrCodeInsufficientFunds  ErrorCode = "INSUFFICIENT_FUND_BALANCE"
	ErrCodeFundExists         ErrorCode = "FUND_ALREADY_CONFIGURED"
	ErrCodeAccountInUse       ErrorCode = "ACCOUNT_IN_USE"
	ErrCodeDuplicateCode      ErrorCode = "DUPLICATE_ACCOUNT_CODE"
	ErrCodeNumberExhausted    ErrorCode = "VOUCHER_NUMBER_EXHAUSTED"
	ErrCodeInvalidTransition  ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeVoucherNotApproved ErrorCode = "VOUCHER_NOT_APPROVED"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
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

// WithCause attaches the underlying error. Only call it on a freshly
// constructed AppError, never on a shared sentinel.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails attaches extra context for the client. Only call it on a
// freshly constructed AppError, never on a shared sentinel.
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
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

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
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

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewUnprocessableError reports a request that is well formed but refused
// by a business rule, e.g. a voucher that would overdraw the fund.
func NewUnprocessableError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnprocessable,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewIntegrityError reports a refused mutation that would break a
// referential integrity rule, e.g. deleting a chart of account that is
// still referenced by voucher items or budgets.
func NewIntegrityError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeIntegrity,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// IsAppError reports whether err is, or wraps, an AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
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
