package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDocument, "document has no %s array", "nodes")
	if err.Code != ErrCodeInvalidDocument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDocument)
	}
	if err.Message != "document has no nodes array" {
		t.Errorf("Message = %q", err.Message)
	}
	want := "INVALID_DOCUMENT: document has no nodes array"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "persist document %s", "doc1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not found by errors.Is")
	}
	want := "INTERNAL_ERROR: persist document doc1: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeDocumentNotFound, "document abc not found")

	if !Is(err, ErrCodeDocumentNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is should not match plain errors")
	}

	// Codes are found through wrapping layers.
	wrapped := fmt.Errorf("pipeline: %w", err)
	if !Is(wrapped, ErrCodeDocumentNotFound) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidOptions, "bad")); got != ErrCodeInvalidOptions {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeInvalidOptions)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "layout: nil document")
	if got := UserMessage(err); got != "layout: nil document" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage = %q", got)
	}
}
