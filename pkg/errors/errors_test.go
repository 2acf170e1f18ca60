package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeLayout, "count must be positive, got %d", 0)

	if err.Code != ErrCodeLayout {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLayout)
	}

	expected := "LAYOUT: count must be positive, got 0"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := PackageWrite(cause, "failed to commit archive")

	if err.Code != ErrCodePackageWrite {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePackageWrite)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestPackageReadNamesPath(t *testing.T) {
	err := PackageRead("3D/3dmodel.model", errors.New("EOF"), "invalid model XML")

	expected := "PACKAGE_READ: 3D/3dmodel.model: invalid model XML: EOF"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	if got := UserMessage(err); got != "3D/3dmodel.model: invalid model XML" {
		t.Errorf("UserMessage() = %v", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", Validation("bad"), ErrCodeValidation, true},
		{"different code", Validation("bad"), ErrCodeLayout, false},
		{"wrapped with fmt", fmt.Errorf("convert: %w", InvalidState("closed")), ErrCodeInvalidState, true},
		{"plain error", errors.New("plain"), ErrCodeValidation, false},
		{"nil", nil, ErrCodeValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if code := GetCode(Layout("x")); code != ErrCodeLayout {
		t.Errorf("GetCode() = %v, want %v", code, ErrCodeLayout)
	}
	if code := GetCode(errors.New("x")); code != "" {
		t.Errorf("GetCode() = %v, want empty", code)
	}
}

func TestWithPathCopies(t *testing.T) {
	base := New(ErrCodePackageRead, "missing part")
	withPath := base.WithPath("_rels/.rels")

	if base.Path != "" {
		t.Error("WithPath must not modify the receiver")
	}
	if withPath.Path != "_rels/.rels" {
		t.Errorf("Path = %v", withPath.Path)
	}
}
