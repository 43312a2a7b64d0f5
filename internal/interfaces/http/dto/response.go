package dto

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID,
	}
}

// SuccessResponse acknowledges a write with no payload
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CreatedResponse is returned by resource creates
type CreatedResponse struct {
	Success        bool   `json:"success"`
	ID             int64  `json:"id"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	ParentID       int64  `json:"parentId,omitempty"`
}

// DeletedResponse is returned by resource deletes
type DeletedResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

// ValidationDetail names one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the error envelope for binding failures
type ValidationErrorResponse struct {
	ErrorResponse
	Details []ValidationDetail `json:"details,omitempty"`
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ValidationErrorResponse {
	return ValidationErrorResponse{
		ErrorResponse: NewErrorResponse(ErrCodeInvalidInput, message, requestID),
		Details:       details,
	}
}
