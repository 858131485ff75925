package rankdex

import "github.com/kailas-cloud/rankdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is(err, rankdex.ErrInvalidInput) etc.
var (
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrUnsupportedFormat = domain.ErrUnsupportedFormat
	ErrExtractionFailed  = domain.ErrExtractionFailed
	ErrTooLarge          = domain.ErrTooLarge
)

// ValidationError names the request field that failed validation.
type ValidationError = domain.ValidationError
