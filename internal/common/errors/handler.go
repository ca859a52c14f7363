// internal/common/errors/handler.go
package errors

// ErrorHandler converts pipeline errors into the applicant-facing response
// body. The transport always answers 200; success/failure lives in the body.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// FailureBody is the body returned for every rejected or failed request.
type FailureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleRequestError logs the error with reconciliation context and returns
// the body to serialize. Business rejections log at warn, infrastructure
// failures at error.
func (h *ErrorHandler) HandleRequestError(err error, tenantID, postingID string) FailureBody {
	stdErr := Normalize(err)

	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"tenantId":      tenantID,
		"postingId":     postingID,
	}

	if IsRejection(err) {
		h.logger.Warn("application rejected", fields)
	} else {
		h.logger.Error("application request failed", fields)
	}

	message := stdErr.Message
	if message == "" {
		message = "Something went wrong, please try again later"
	}

	return FailureBody{Success: false, Error: message}
}
