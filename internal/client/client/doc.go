// Package client talks to the TutorHub REST API.
//
// HTTPClient implements Client over net/http, decoding the
// {success, message, data, errors} envelope. Non-2xx responses become
// *APIError, which matches ErrUnauthorized, ErrForbidden and ErrNotFound
// through errors.Is; transport failures wrap ErrUnavailable.
//
// InitDatabase opens the local SQLite session cache and applies the
// embedded goose migrations.
package client
