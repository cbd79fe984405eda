// Package common contains shared constants and sentinel errors used across
// BhojanBox components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates a client request with server logs.
const RequestIDHeaderName = "X-Request-ID"

// Cart quantity bounds accepted by a single add request.
const (
	MinAddQuantity = 1
	MaxAddQuantity = 10
)
