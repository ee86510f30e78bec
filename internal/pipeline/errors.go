package pipeline

import "errors"

// ErrContentRejected is recorded on an attempt whose fragment failed validation.
var ErrContentRejected = errors.New("generated content rejected by validator")
