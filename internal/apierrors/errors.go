// Package apierrors defines the stable error taxonomy exposed by the
// credential service. Every user-visible failure maps to exactly one Kind
// and a machine-readable code; messages on credential-sensitive paths stay
// deliberately vague.
package apierrors

import "errors"

// Kind classifies an API error.
type Kind int

const (
	KindUnauthenticated Kind = iota
	KindPermissionDenied
	KindNotFound
	KindFailedPrecondition
	KindAlreadyExists
	KindInvalidArgument
	KindInternal
)

// Error is a typed API error with a stable machine code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// AsAPIError unwraps err into an *Error if one is present in the chain.
func AsAPIError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewErrInvalidCredentials reports a failed password login. The same error
// is returned for unknown emails, passwordless accounts and wrong passwords
// so callers cannot probe which accounts exist.
func NewErrInvalidCredentials() *Error {
	return &Error{Kind: KindPermissionDenied, Code: "invalid_credentials", Message: "invalid credentials"}
}

// NewErrEmailIsTaken reports a duplicate signup.
func NewErrEmailIsTaken() *Error {
	return &Error{Kind: KindAlreadyExists, Code: "email_taken", Message: "user already exists"}
}

// NewErrMissingAuthorizationToken reports an absent bearer credential.
func NewErrMissingAuthorizationToken() *Error {
	return &Error{Kind: KindUnauthenticated, Code: "missing_token", Message: "missing access token"}
}

// NewErrInvalidAuthorizationToken reports an invalid or expired bearer credential.
func NewErrInvalidAuthorizationToken() *Error {
	return &Error{Kind: KindUnauthenticated, Code: "invalid_token", Message: "invalid or expired token"}
}

// NewErrInvalidRefreshToken reports a missing, unknown, revoked or expired
// refresh token. All four cases are indistinguishable to the caller.
func NewErrInvalidRefreshToken() *Error {
	return &Error{Kind: KindUnauthenticated, Code: "invalid_refresh_token", Message: "invalid refresh token"}
}

// NewErrMagicLinkNotFound reports an unknown magic-link token.
func NewErrMagicLinkNotFound() *Error {
	return &Error{Kind: KindNotFound, Code: "magic_link_not_found", Message: "invalid token"}
}

// NewErrMagicLinkConsumed reports a magic link that has already been used.
func NewErrMagicLinkConsumed() *Error {
	return &Error{Kind: KindFailedPrecondition, Code: "magic_link_consumed", Message: "token already used"}
}

// NewErrMagicLinkExpired reports a magic link past its expiry.
func NewErrMagicLinkExpired() *Error {
	return &Error{Kind: KindFailedPrecondition, Code: "magic_link_expired", Message: "token expired"}
}

// NewErrSessionNotOwned reports a session revocation attempt against a
// session the caller does not own.
func NewErrSessionNotOwned() *Error {
	return &Error{Kind: KindPermissionDenied, Code: "session_not_owned", Message: "cannot revoke session"}
}

// NewErrInvalidArgument reports a malformed request.
func NewErrInvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Code: "invalid_argument", Message: message}
}

// NewErrInternal reports a store or infrastructure failure.
func NewErrInternal() *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "internal server error"}
}
