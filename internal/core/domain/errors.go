package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrPageNotPublic indicates a Notion key resolved to no publicly
	// reachable page id
	ErrPageNotPublic = errors.New("notion page is not publicly available")

	// ErrLinkBlocked indicates the link target matched the keyword blocklist
	ErrLinkBlocked = errors.New("link target is not allowed")

	// ErrInvalidURL indicates the link key is not a syntactically valid URL
	ErrInvalidURL = errors.New("invalid url")
)
