package common

// AuthorizationHeader is the HTTP header carrying the bearer token on
// authenticated requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix is the credential scheme expected in AuthorizationHeader,
// i.e. "Authorization: Bearer <token>".
const BearerPrefix = "Bearer "
