package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized   ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden      ErrorType = "FORBIDDEN"
	ErrorTypeConflict       ErrorType = "CONFLICT"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal       ErrorType = "EXTERNAL_ERROR"
	ErrorTypeReconciliation ErrorType = "RECONCILIATION_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	ErrCodeCampaignNotFound   ErrorCode = "CAMPAIGN_NOT_FOUND"
	ErrCodeWithdrawalNotFound ErrorCode = "WITHDRAWAL_NOT_FOUND"
	ErrCodeProofNotFound      ErrorCode = "PROOF_NOT_FOUND"
	ErrCodeProofImageNotFound ErrorCode = "PROOF_IMAGE_NOT_FOUND"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"

	ErrCodeUserBanned    ErrorCode = "USER_BANNED"
	ErrCodeAdminRequired ErrorCode = "ADMIN_REQUIRED"

	ErrCodeWithdrawalInFlight  ErrorCode = "WITHDRAWAL_IN_FLIGHT"
	ErrCodeExpeditedUsed       ErrorCode = "EXPEDITED_ALREADY_REQUESTED"
	ErrCodeExpeditedOverLimit  ErrorCode = "EXPEDITED_LIMIT_EXCEEDED"
	ErrCodeEmailAlreadyUsed    ErrorCode = "EMAIL_ALREADY_USED"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
	ErrCodeGatewayFailed       ErrorCode = "GATEWAY_FAILED"
	ErrCodeStorageFailed       ErrorCode = "STORAGE_FAILED"
	ErrCodeWebhookSignature    ErrorCode = "WEBHOOK_SIGNATURE_INVALID"
	ErrCodeWebhookMalformed    ErrorCode = "WEBHOOK_PAYLOAD_MALFORMED"
	ErrCodeWebhookUnmatched    ErrorCode = "WEBHOOK_UNMATCHED_DONATION"
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

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
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

func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewReconciliationError marks webhook-processing failures. Each failure
// mode keeps its own code so callers can tell a bad signature from a
// malformed payload from an unmatched donation.
func NewReconciliationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeReconciliation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrCampaignNotFound   = NewNotFoundError("Campaign not found", ErrCodeCampaignNotFound)
	ErrWithdrawalNotFound = NewNotFoundError("Withdrawal not found", ErrCodeWithdrawalNotFound)
	ErrProofNotFound      = NewNotFoundError("Proof not found", ErrCodeProofNotFound)
	ErrProofImageNotFound = NewNotFoundError("ProofImage not found", ErrCodeProofImageNotFound)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)

	ErrUserBanned    = NewForbiddenError("banned users cannot perform this action", ErrCodeUserBanned)
	ErrAdminRequired = NewForbiddenError("admin role required", ErrCodeAdminRequired)

	ErrWithdrawalInFlight = NewConflictError("a normal withdrawal cannot be created while one is already in flight", ErrCodeWithdrawalInFlight)
	ErrExpeditedUsed      = NewConflictError("an expedited withdrawal was already requested for this campaign", ErrCodeExpeditedUsed)
	ErrExpeditedOverLimit = NewValidationError("expedited amount exceeds 30% of the campaign's current balance", ErrCodeExpeditedOverLimit)
	ErrEmailAlreadyUsed   = NewConflictError("email is already registered", ErrCodeEmailAlreadyUsed)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)

	ErrWebhookSignature = NewReconciliationError("webhook signature verification failed", ErrCodeWebhookSignature)
	ErrWebhookMalformed = NewReconciliationError("webhook payload could not be parsed", ErrCodeWebhookMalformed)
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
