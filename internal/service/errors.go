package service

import "errors"

// Caller errors: rejected before any network call is attempted.
var (
	// ErrMissingIdentity means no authenticated user email was supplied
	ErrMissingIdentity = errors.New("email is required")
	// ErrEmptyRequest means the request carried neither text nor image
	ErrEmptyRequest = errors.New("message or image is required")
	// ErrInvalidImage means the image payload could not be decoded
	ErrInvalidImage = errors.New("invalid image payload")
)

// ErrQuotaExceeded means the per-identity image cap was reached. The LLM is
// never invoked for a request that fails this check.
var ErrQuotaExceeded = errors.New("image upload limit reached")

// QuotaExceededMessage is the user-facing text for ErrQuotaExceeded
const QuotaExceededMessage = "You have reached the maximum image upload limit (3 images). You can continue chatting without images."
