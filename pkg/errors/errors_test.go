package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("no such file")
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeTooManyGlyphs, "%d glyphs", 703), "TOO_MANY_GLYPHS: 703 glyphs"},
		{Wrap(ErrCodeFileNotFound, cause, "open %s", "a.png"), "FILE_NOT_FOUND: open a.png: no such file"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("cache get: %w", Wrap(ErrCodeNetwork, cause, "redis"))

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := GetCode(err); got != ErrCodeNetwork {
		t.Errorf("GetCode() = %s, want %s", got, ErrCodeNetwork)
	}
	if got := UserMessage(err); got != "redis" {
		t.Errorf("UserMessage() = %q, want %q", got, "redis")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeMalformedInput, false},
		{"outermost wins", Wrap(ErrCodeMalformedInput, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeMalformedInput, true},
		{"inner ignored", Wrap(ErrCodeMalformedInput, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInvalidInput, false},
		{"plain", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeGraphNotFound, "graph %s not found", "abc"), "graph abc not found"},
		{errors.New("plain error"), "plain error"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeNotFound, "x"), true},
		{New(ErrCodeFileNotFound, "x"), true},
		{Wrap(ErrCodeGraphNotFound, errors.New("cause"), "x"), true},
		{New(ErrCodeMalformedInput, "x"), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsNotFound(tt.err); got != tt.want {
			t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, 400},
		{ErrCodeMalformedInput, 400},
		{ErrCodeInvalidFormat, 400},
		{ErrCodeTooManyGlyphs, 422},
		{ErrCodeFileNotFound, 404},
		{ErrCodeGraphNotFound, 404},
		{ErrCodeUnsupported, 501},
		{ErrCodeNetwork, 502},
		{ErrCodeStorage, 502},
		{ErrCodeInternal, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}

	if got := HTTPStatus(errors.New("plain")); got != 500 {
		t.Errorf("HTTPStatus(plain) = %d, want 500", got)
	}
}
