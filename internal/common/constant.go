// Package common contains shared constants and sentinel errors used across
// marksync components.
package common

// AuthorizationHeaderName carries the bearer access token on outbound
// requests to the remote store.
const AuthorizationHeaderName = "Authorization"

// APIKeyHeaderName carries the project API key on outbound requests.
const APIKeyHeaderName = "apikey"
