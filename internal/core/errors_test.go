package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_ErrorWithField(t *testing.T) {
	err := FieldError(ErrParamOutOfRange, "indicators[0].parameters.period", "must be in [2, 500], got %d", 1)
	want := "[PARAM_OUT_OF_RANGE] parameter out of range (indicators[0].parameters.period): must be in [2, 500], got 1"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	if !errors.Is(ErrNoData, ErrNoData) {
		t.Error("same error should match")
	}
	if errors.Is(ErrNoData, ErrDataInvalid) {
		t.Error("different codes should not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrSourceFailed, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrSourceFailed.Code {
		t.Error("code not preserved")
	}
}

func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantConfig bool
		wantData   bool
	}{
		{"config invalid", ErrConfigInvalid, true, false},
		{"unknown indicator", FieldError(ErrUnknownIndicator, "indicators[0].id", "%q", "foo"), true, false},
		{"param range wrapped", fmt.Errorf("building: %w", ErrParamOutOfRange), true, false},
		{"no data", ErrNoData, false, true},
		{"insufficient", FieldError(ErrInsufficientData, "bars", "need 15, have 3"), false, true},
		{"source failure", ErrSourceFailed, false, false},
		{"plain", errors.New("x"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigError(tt.err); got != tt.wantConfig {
				t.Errorf("IsConfigError() = %v, want %v", got, tt.wantConfig)
			}
			if got := IsDataError(tt.err); got != tt.wantData {
				t.Errorf("IsDataError() = %v, want %v", got, tt.wantData)
			}
		})
	}
}

func TestError_Within(t *testing.T) {
	base := FieldError(ErrParamOutOfRange, "period", "must be in [2, 500]")

	nested := base.Within("indicators[1].parameters")

	if nested.Field != "indicators[1].parameters.period" {
		t.Errorf("Field = %q", nested.Field)
	}
	if base.Field != "period" {
		t.Errorf("Within modified the receiver: %q", base.Field)
	}
	if !errors.Is(nested, ErrParamOutOfRange) {
		t.Error("nested error lost its code")
	}
	if got := ErrConfigMissing.Within("indicators").Field; got != "indicators" {
		t.Errorf("Field = %q", got)
	}
}
