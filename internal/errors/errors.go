// Package errors defines the error categories reported by the xon tool.
package errors

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/isaacmuliro/Xerxis-Object-Notation"
)

// Standard application errors
var (
	ErrNoInput     = errors.New("no input provided")
	ErrNotAnObject = errors.New("value is not an object")
	ErrInvalid     = errors.New("one or more inputs are invalid")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypePath    ErrorType = "path"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error { return e.Err }

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Type == t.Type
}

func newError(typ ErrorType) func(string, error) *AppError {
	return func(msg string, err error) *AppError {
		return &AppError{Type: typ, Message: msg, Err: err}
	}
}

var (
	// NewInputError creates an error related to reading input.
	NewInputError = newError(ErrorTypeInput)

	// NewParsingError creates an error related to parsing XON.
	NewParsingError = newError(ErrorTypeParsing)

	// NewPathError creates an error related to evaluating a key path.
	NewPathError = newError(ErrorTypePath)

	// NewConfigError creates an error related to the configuration file.
	NewConfigError = newError(ErrorTypeConfig)

	// NewOutputError creates an error related to writing output.
	NewOutputError = newError(ErrorTypeOutput)
)

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		detail := appErr.Message
		if appErr.Err != nil {
			detail += ": " + describe(appErr.Err)
		}
		switch appErr.Type {
		case ErrorTypeInput:
			return "Input error: " + detail
		case ErrorTypeParsing:
			return "XON syntax error: " + detail
		case ErrorTypePath:
			return "Path error: " + detail
		case ErrorTypeConfig:
			return "Configuration error: " + detail
		case ErrorTypeOutput:
			return "Output error: " + detail
		default:
			return "Error: " + detail
		}
	}
	return "Error: " + describe(err)
}

// describe renders err, adding a hint for well-known causes.
func describe(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("%v (check the file path)", err)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Sprintf("%v (is the document truncated?)", err)
	case errors.Is(err, xon.ErrExtraInput):
		return fmt.Sprintf("%v (a document holds exactly one value)", err)
	}
	return err.Error()
}
