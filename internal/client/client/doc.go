// Package client talks to the HealthKeeper REST API on behalf of the CLI.
//
// HTTPClient keeps the bearer token returned by Register or Login and sends
// it on every later call. Failures come back as:
//
//   - ErrUnavailable (wrapped) when the server could not be reached;
//   - *APIError for error responses, matching ErrUnauthorized,
//     common.ErrNotFound, common.ErrValidation and friends via errors.Is.
package client
