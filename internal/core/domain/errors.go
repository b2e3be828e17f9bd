package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrCsrfMismatch indicates the callback state is unknown or already consumed
	ErrCsrfMismatch = errors.New("state mismatch")

	// ErrStateExpired indicates the callback state exists but its TTL has passed
	ErrStateExpired = errors.New("state expired")

	// ErrTokenExchangeFailed indicates the provider rejected or failed the code exchange
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// ErrUnauthenticated indicates the request carries no valid session
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionNotFound indicates the session does not exist or has expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidConfig indicates a splitter configuration that cannot be applied
	ErrInvalidConfig = errors.New("invalid splitter config")

	// ErrMalformedRequest indicates a request missing required fields
	ErrMalformedRequest = errors.New("malformed request")

	// ErrRemoteUnavailable indicates the slides backend could not be reached
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrRemoteRejected indicates the slides backend refused the request
	ErrRemoteRejected = errors.New("remote service rejected request")

	// ErrPartialApplyUnknown indicates a batch was sent but its outcome is unknown
	ErrPartialApplyUnknown = errors.New("batch outcome unknown")

	// ErrBackendUnavailable indicates the session/state storage backend is down
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrNotConfigured indicates required OAuth credentials are missing
	ErrNotConfigured = errors.New("oauth provider not configured")
)
