package model

// ErrorDetail describes a single field-level problem in a request
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standardized transport-level error body. It is used
// only for requests rejected before extraction starts (bad file type,
// upload I/O); extraction failures travel inside ExtractionResponse.
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}
