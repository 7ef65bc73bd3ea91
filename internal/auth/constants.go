package auth

const (
	jsonKeyError = "error"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgInvalidAuthorization    = "invalid authorization header"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgUserNotFound            = "user not found"
	msgRoleLookupFailed        = "unable to resolve user role"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
	msgClaimsValidationFailed  = "invalid token claims: %w"
)
