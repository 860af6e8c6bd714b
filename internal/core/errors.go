package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code, the offending field and optional cause.
type Error struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// FieldError creates an error with the base code for a specific input field.
func FieldError(base *Error, field, format string, args ...any) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Field:   field,
		Cause:   fmt.Errorf(format, args...),
	}
}

// Within returns a copy of e whose field is nested under prefix.
func (e *Error) Within(prefix string) *Error {
	c := *e
	if c.Field == "" {
		c.Field = prefix
	} else {
		c.Field = prefix + "." + c.Field
	}
	return &c
}

// Predefined errors
var (
	// Configuration errors: raised before any computation starts.
	ErrConfigInvalid    = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing    = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
	ErrUnknownIndicator = &Error{Code: "UNKNOWN_INDICATOR", Message: "unknown indicator"}
	ErrParamOutOfRange  = &Error{Code: "PARAM_OUT_OF_RANGE", Message: "parameter out of range"}

	// Data errors: raised before replay begins.
	ErrNoData           = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrDataInvalid      = &Error{Code: "DATA_INVALID", Message: "price data invalid"}
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient data for analysis"}

	// Collaborator errors
	ErrSourceFailed  = &Error{Code: "SOURCE_FAILED", Message: "price source failed"}
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "archive write failed"}
)

var (
	configErrors = []*Error{ErrConfigInvalid, ErrConfigMissing, ErrUnknownIndicator, ErrParamOutOfRange}
	dataErrors   = []*Error{ErrNoData, ErrDataInvalid, ErrInsufficientData}
)

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	return matchesAny(err, configErrors)
}

// IsDataError reports whether err is a price data error.
func IsDataError(err error) bool {
	return matchesAny(err, dataErrors)
}

func matchesAny(err error, set []*Error) bool {
	for _, target := range set {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
