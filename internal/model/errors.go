package model

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("record not found")

	ErrTokenRevoked = errors.New("refresh token revoked")
	ErrTokenExpired = errors.New("refresh token expired")

	ErrLinkConsumed = errors.New("magic link consumed")
	ErrLinkExpired  = errors.New("magic link expired")
)
