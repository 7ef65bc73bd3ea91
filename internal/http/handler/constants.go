package handler

const (
	jsonKeyError = "error"

	paramRole = "role"
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgRoleNotFound            = "role not found"
	msgAuthenticationRequired  = "Authentication required"
)
