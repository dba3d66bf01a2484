package rest

import "context"

type contextKey string

const (
	credentialKey contextKey = "credential"
	userIDKey     contextKey = "userId"
	requestIDKey  contextKey = "requestId"
)

// WithCredential stores the opaque bearer credential in the context. The core
// never parses it; it is handed to upstream fetchers as-is.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey, token)
}

func CredentialFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(credentialKey).(string)
	return token, ok && token != ""
}

// WithUserID stores the caller identity used for preference storage and
// rate-limit keying.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithRequestID stores the correlation id assigned to this request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}
