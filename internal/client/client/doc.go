// Package client is the HTTP client of the GoBarber API.
//
// HTTPClient is configured once with the API base URL. The session token is
// not passed per call: the auth service installs it as a default
// Authorization header with SetAuthorization and removes it on sign-out.
//
// Every request carries a fresh X-Request-ID and the W3C trace context of
// ctx, and is recorded as a client span when tracing is enabled.
//
// # Errors
//
// Transport failures and 502/503/504 map to ErrUnavailable. Other non-2xx
// answers become *APIError, which unwraps to ErrUnauthorized, ErrBadRequest
// or ErrNotFound where the status allows it.
package client
