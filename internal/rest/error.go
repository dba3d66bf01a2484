package rest

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Category classifies API errors for clients.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryValidation Category = "validation"
	CategoryRateLimit  Category = "rate_limit"
	CategoryUpstream   Category = "upstream"
	CategoryConflict   Category = "conflict"
	CategoryInternal   Category = "internal"
)

// APIError is the wire shape of every error response.
type APIError struct {
	Status            int      `json:"-"`
	Code              string   `json:"code"`
	Category          Category `json:"category"`
	Message           string   `json:"message"`
	RetryAfterSeconds int      `json:"retryAfterSeconds,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

func Unauthorized(message string) APIError {
	return APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Category: CategoryAuth, Message: message}
}

// AuthExpired is distinct from Unauthorized so clients can force a fresh
// consent flow instead of just re-sending the credential.
func AuthExpired() APIError {
	return APIError{
		Status:   http.StatusUnauthorized,
		Code:     "auth_expired",
		Category: CategoryAuth,
		Message:  "upstream session expired, re-authentication is required",
	}
}

func Validation(code, message string) APIError {
	return APIError{Status: http.StatusBadRequest, Code: code, Category: CategoryValidation, Message: message}
}

func RateLimited(retryAfterSeconds int) APIError {
	return APIError{
		Status:            http.StatusTooManyRequests,
		Code:              "rate_limited",
		Category:          CategoryRateLimit,
		Message:           "too many requests",
		RetryAfterSeconds: retryAfterSeconds,
	}
}

func Conflict(message string) APIError {
	return APIError{Status: http.StatusConflict, Code: "idempotency_conflict", Category: CategoryConflict, Message: message}
}

func Upstream(message string) APIError {
	return APIError{Status: http.StatusBadGateway, Code: "upstream_failure", Category: CategoryUpstream, Message: message}
}

func Internal() APIError {
	return APIError{
		Status:   http.StatusInternalServerError,
		Code:     "internal_error",
		Category: CategoryInternal,
		Message:  "internal server error",
	}
}

// WriteError writes an APIError as the JSON response body.
func WriteError(w http.ResponseWriter, apiErr APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
