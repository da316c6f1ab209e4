package model

import "errors"

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("record not found")

// Authentication error taxonomy. Each value is terminal for the current
// request and maps to a stable reason code on the wire; none are retried
// inside the guard pipeline.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so local login leaks no account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSuchUser is a verified federated identity with no matching
	// directory principal.
	ErrNoSuchUser = errors.New("no user registered for identity")
	// ErrMalformedToken covers a syntactically broken token and a signature
	// mismatch; no further detail is leaked.
	ErrMalformedToken = errors.New("malformed token")
	// ErrTokenExpired is a signature-valid token whose time window elapsed.
	// Distinct from ErrMalformedToken so a client may attempt silent refresh.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is a signature-valid refresh token whose token-id has
	// no live session entry. The client must re-login.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrRegistryUnavailable means the session registry could not be
	// consulted. Guards fail closed on it.
	ErrRegistryUnavailable = errors.New("session registry unavailable")
	// ErrDuplicateIdentity is an account-creation conflict.
	ErrDuplicateIdentity = errors.New("identity already registered")
)
