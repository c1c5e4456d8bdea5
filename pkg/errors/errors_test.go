package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	plain := New(ErrCodeUnknownColumn, "unknown column %q", "metric")
	if got, want := plain.Error(), `UNKNOWN_COLUMN: unknown column "metric"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("permission denied")
	wrapped := Wrap(ErrCodeInvalidInput, cause, "read %s", "runs.csv")
	if got, want := wrapped.Error(), "INVALID_INPUT: read runs.csv: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) || errors.Unwrap(wrapped) != cause {
		t.Error("Wrap() does not expose its cause to the errors package")
	}
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeEmptyCell, "cell (1,2) has no rows")
	outer := Wrap(ErrCodeInternal, inner, "layer 0")
	viaFmt := fmt.Errorf("render: %w", inner)

	tests := []struct {
		name     string
		err      error
		wantCode Code
		probe    Code
		wantIs   bool
	}{
		{"direct", inner, ErrCodeEmptyCell, ErrCodeEmptyCell, true},
		{"other code", inner, ErrCodeEmptyCell, ErrCodeMissingAxis, false},
		{"outermost wins", outer, ErrCodeInternal, ErrCodeInternal, true},
		{"fmt wrapped", viaFmt, ErrCodeEmptyCell, ErrCodeEmptyCell, true},
		{"plain", errors.New("boom"), "", ErrCodeInvalidInput, false},
		{"nil", nil, "", ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if got := Is(tt.err, tt.probe); got != tt.wantIs {
				t.Errorf("Is(%s) = %v, want %v", tt.probe, got, tt.wantIs)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeMissingAxis, "x is required"), "x is required"},
		{Wrap(ErrCodeInvalidInput, New(ErrCodeFileNotFound, "no such file"), "config"), "config: no such file"},
		{Wrap(ErrCodeInvalidInput, errors.New("EOF"), "parse yaml"), "parse yaml: EOF"},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("plain"), 1},
		{New(ErrCodeInternal, "x"), 1},
		{New(ErrCodeConflictingLayout, "x"), 2},
		{New(ErrCodeUnknownOrderedValue, "x"), 3},
		{fmt.Errorf("wrapped: %w", New(ErrCodeOutOfBoundsTarget, "x")), 4},
		{New(ErrCodeSessionFinalized, "x"), 5},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestEveryCodeHasCategoryButInternal(t *testing.T) {
	for _, c := range []Code{
		ErrCodeMissingAxis, ErrCodeNoFacetDimension, ErrCodeConflictingLayout,
		ErrCodeConflictingTarget, ErrCodeInvalidGridConfig, ErrCodeUnknownColumn,
		ErrCodeUnknownOrderedValue, ErrCodeEmptyCell, ErrCodeOutOfBoundsTarget,
		ErrCodeGridShapeMismatch, ErrCodeUnknownLegend, ErrCodeUnknownPlotKind,
		ErrCodeSessionFinalized,
	} {
		if c.Category() == CategoryOther {
			t.Errorf("%s has no category", c)
		}
	}
	if ErrCodeInternal.Category() != CategoryOther {
		t.Error("INTERNAL_ERROR should be CategoryOther")
	}
}

func TestList(t *testing.T) {
	long := make([]string, 20)
	for i := range long {
		long[i] = string(rune('a' + i))
	}
	tests := []struct {
		name   string
		values []string
		check  func(string) bool
	}{
		{"empty", nil, func(s string) bool { return s == "none" }},
		{"short", []string{"a", "b"}, func(s string) bool { return s == `"a", "b"` }},
		{"elided", long, func(s string) bool {
			return strings.Contains(s, "... 9 more") && strings.HasSuffix(s, `"t"`)
		}},
	}
	for _, tt := range tests {
		if got := List(tt.values); !tt.check(got) {
			t.Errorf("List(%s) = %q", tt.name, got)
		}
	}
}
