package common

// AuthorizationHeader carries the bearer token on HTTP requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token inside the Authorization header value.
const BearerPrefix = "Bearer "
