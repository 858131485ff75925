package chi

import (
	"github.com/kailas-cloud/rankdex/internal/domain/document"
	"github.com/kailas-cloud/rankdex/internal/report"
)

// ErrorCode is the machine-readable error kind in an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeTooLarge          ErrorCode = "payload_too_large"
	ErrorCodeUnsupportedFormat ErrorCode = "unsupported_format"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeCancelled         ErrorCode = "request_cancelled"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ScreeningRequest is the body of POST /screenings.
type ScreeningRequest struct {
	Query      string               `json:"query"`
	Candidates []document.Candidate `json:"candidates"`
	TopN       *int                 `json:"top_n,omitempty"`
}

// ScreeningResponse is the JSON result of a screening.
type ScreeningResponse struct {
	Results         []report.Row `json:"results"`
	VocabularySize  int          `json:"vocabulary_size"`
	DegenerateQuery bool         `json:"degenerate_query"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
