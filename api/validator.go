package api

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidatePostMessage checks the request envelope shape. Content rules
// (trimming, rune bounds) belong to the domain validators; this only rejects
// requests that are structurally unusable.
func ValidatePostMessage(req PostMessageRequest) error {
	return validate.Struct(req)
}
