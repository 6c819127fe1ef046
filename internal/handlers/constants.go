package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgInvalidReviewID    = "Invalid review ID"
	ErrMsgInvalidSetNumber   = "Invalid set number"
	ErrMsgInternal           = "Internal server error"
)

// APIBasePath prefixes every JSON route
const APIBasePath = "/api/v1"

// maxRequestBody caps answer payloads
const maxRequestBody = 1 << 20
