// Package common contains shared constants and sentinel errors used across
// taskkeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme prefix expected in front of tokens.
const BearerScheme = "Bearer"

// SaltSize is the length in bytes of every credential salt.
const SaltSize = 32
