// Package errors provides standardized error handling for ClipCast.
// It defines common error types, kinds, and helper functions for consistent
// error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileReadFailed
	// Config error kinds
	InvalidConfig
	// Workflow error kinds
	Validation
	ClipboardDenied
	UploadFailed
	InputsDisabled
	Busy
)

// Common error constants for frequently occurring errors
var (
	ErrInputsDisabled = &ApplicationError{msg: "inputs are disabled while a QR code is displayed", kind: InputsDisabled}
	ErrBusy           = &ApplicationError{msg: "an upload is already in progress", kind: Busy}
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// ValidationError is a user-correctable input problem. It never involves
// the network.
type ValidationError struct {
	ApplicationError
	field string
}

// NewValidationError creates a new validation error for the given input field
func NewValidationError(msg string, field string) *ValidationError {
	return &ValidationError{
		ApplicationError: ApplicationError{
			msg:  msg,
			kind: Validation,
		},
		field: field,
	}
}

// Field returns the input the error refers to ("text", "files")
func (e *ValidationError) Field() string {
	return e.field
}

// UploadError wraps any failure while packaging or sending files. The
// wrapped cause is for logs only.
type UploadError struct {
	ApplicationError
	stage string
}

// NewUploadError creates a new upload error for the stage that failed
func NewUploadError(stage string, err error) *UploadError {
	return &UploadError{
		ApplicationError: ApplicationError{
			msg:  "upload failed",
			err:  err,
			kind: UploadFailed,
		},
		stage: stage,
	}
}

// Error returns the upload error message
func (e *UploadError) Error() string {
	if e.stage != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.stage, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.stage)
	}
	return e.ApplicationError.Error()
}

// Stage returns the step that failed: "package", "transport", "status" or "response"
func (e *UploadError) Stage() string {
	return e.stage
}

// NewClipboardError creates an error for a denied or unavailable clipboard
func NewClipboardError(err error) error {
	return &ApplicationError{
		msg:  "clipboard access denied",
		err:  err,
		kind: ClipboardDenied,
	}
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain
func KindOf(err error) ErrorKind {
	var kinded interface{ Kind() ErrorKind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsUploadFailed checks if the error is an upload error
func IsUploadFailed(err error) bool {
	var uploadErr *UploadError
	return errors.As(err, &uploadErr)
}

// IsClipboardDenied checks if the error is a clipboard error
func IsClipboardDenied(err error) bool {
	return KindOf(err) == ClipboardDenied
}
