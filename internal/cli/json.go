package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/rileyhilliard/gitsetup/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigInvalid = "CONFIG_INVALID"
	ErrCodeToolMissing   = "TOOL_MISSING"
	ErrCodeGeneration    = "GENERATION_FAILED"
	ErrCodeFilesystem    = "FILESYSTEM_ERROR"
	ErrCodePrecondition  = "PRECONDITION_FAILED"
	ErrCodeCancelled     = "CANCELLED"
	ErrCodeDeclined      = "DECLINED"
	ErrCodeChecksFailed  = "CHECKS_FAILED"
	ErrCodeUnknown       = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONFailure writes an unsuccessful response that still carries data,
// e.g. a doctor report with failing checks.
func WriteJSONFailure(w io.Writer, data interface{}, code, message string) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Data:    data,
		Error:   &JSONError{Code: code, Message: message},
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var e *errors.Error
	if stderrors.As(err, &e) {
		return &JSONError{
			Code:       mapErrorCode(e.Code),
			Message:    e.Message,
			Suggestion: e.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode string) string {
	switch internalCode {
	case errors.ErrConfig:
		return ErrCodeConfigInvalid
	case errors.ErrTool:
		return ErrCodeToolMissing
	case errors.ErrGeneration:
		return ErrCodeGeneration
	case errors.ErrFilesystem:
		return ErrCodeFilesystem
	case errors.ErrPrecondition:
		return ErrCodePrecondition
	case errors.ErrCancelled:
		return ErrCodeCancelled
	case errors.ErrDeclined:
		return ErrCodeDeclined
	}
	return ErrCodeUnknown
}
