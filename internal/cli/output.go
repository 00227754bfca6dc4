package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/arrayops/internal/engine"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed
	ExitCommandError = 2 // Command error (bad flags, unreadable plan, etc.)
)

// Error codes reported in JSON output.
const (
	ErrCodeGeneric               = "E000"
	ErrCodeUnsupportedTypeCode   = "E001"
	ErrCodeUnrecognizedContainer = "E002"
	ErrCodeIncapableBuffer       = "E003"
	ErrCodeBufferUnavailable     = "E004"
	ErrCodeElementConversion     = "E005"
	ErrCodeReturnTypeMismatch    = "E006"
	ErrCodePredicateNotBool      = "E007"
	ErrCodeEmptyReduceNoInitial  = "E008"
	ErrCodeInvalidArgument       = "E010"
	ErrCodePlan                  = "E011"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errorCode maps an engine failure to its JSON error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrUnsupportedTypeCode):
		return ErrCodeUnsupportedTypeCode
	case errors.Is(err, engine.ErrUnrecognizedContainer):
		return ErrCodeUnrecognizedContainer
	case errors.Is(err, engine.ErrIncapableBuffer):
		return ErrCodeIncapableBuffer
	case errors.Is(err, engine.ErrBufferUnavailable):
		return ErrCodeBufferUnavailable
	case errors.Is(err, engine.ErrElementConversion):
		return ErrCodeElementConversion
	case errors.Is(err, engine.ErrCallableReturnTypeMismatch):
		return ErrCodeReturnTypeMismatch
	case errors.Is(err, engine.ErrPredicateNotBool):
		return ErrCodePredicateNotBool
	case errors.Is(err, engine.ErrEmptyReduceNoInitial):
		return ErrCodeEmptyReduceNoInitial
	default:
		return ErrCodeGeneric
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostic output; defaults to Writer
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
	RunID  string    `json:"run_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}
