// Package common defines shared constants and sentinel errors used across
// the marksync client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Remote store errors.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)
