// Package apperror defines the error kinds surfaced to the user and the
// single message each one is rendered as.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInput       = errors.New("missing input")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrFileRead           = errors.New("file read failure")
	ErrMissingCredential  = errors.New("missing credential")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrEmptyModelResponse = errors.New("empty model response")
	ErrUpstream           = errors.New("upstream error")
	ErrBusy               = errors.New("operation already in progress")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrCredentialStore    = errors.New("credential store unavailable")

	// ErrBlankCredential is a MissingCredential raised when a blank key is submitted.
	ErrBlankCredential = fmt.Errorf("blank api key: %w", ErrMissingCredential)
)

// UpstreamError wraps a transport or service failure from the remote model.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Upstream wraps err as an UpstreamError unless it already carries one of the
// more specific model kinds.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) || errors.Is(err, ErrEmptyModelResponse) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// IsAuthFailure reports whether err must send the user back to credential entry.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrMissingCredential)
}

// Message converts err into the user-facing message.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredential):
		return "Your API key appears to be invalid. Please enter a valid API key to continue."
	case errors.Is(err, ErrBlankCredential):
		return "Please enter a valid API key."
	case errors.Is(err, ErrMissingCredential):
		return "Gemini API key not found. Please enter your API key."
	case errors.Is(err, ErrMissingInput):
		return "Please paste some text to process."
	case errors.Is(err, ErrInvalidFileType):
		return "Please upload a valid .txt file."
	case errors.Is(err, ErrFileRead):
		return "Failed to read the file."
	case errors.Is(err, ErrEmptyModelResponse):
		return "The model returned an empty response. Please try again."
	case errors.Is(err, ErrCredentialStore):
		return "Your API key could not be accessed right now. Please try again."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current operation to finish."
	case errors.Is(err, ErrInvalidRequest):
		return fmt.Sprintf("Invalid request: %v", err)
	case errors.Is(err, ErrUpstream):
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return fmt.Sprintf("Failed to %s with Gemini API: %v", ue.Op, ue.Err)
		}
		return fmt.Sprintf("Gemini API error: %v", err)
	default:
		return "An unknown error occurred."
	}
}
