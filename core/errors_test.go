package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageError_MatchesSentinel(t *testing.T) {
	underlying := fmt.Errorf("disk full")
	err := NewStorageError("session.save", underlying)

	if !errors.Is(err, ErrStorageUnavailable) {
		t.Error("StorageError should match ErrStorageUnavailable")
	}
	if !errors.Is(err, underlying) {
		t.Error("StorageError should unwrap to the underlying error")
	}

	var se *StorageError
	if !errors.As(err, &se) || se.Op != "session.save" {
		t.Errorf("errors.As lost the operation: %+v", se)
	}
}

func TestValidationInputError_Message(t *testing.T) {
	err := NewValidationInputError("message", "message is required")
	want := "validation error for field 'message': message is required"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestGenerationError_Unwrap(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := &GenerationError{Provider: "openai", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("GenerationError should unwrap its cause")
	}
}

func TestModelLimiter(t *testing.T) {
	ml := NewModelLimiter(2)
	if err := ml.Increment(); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	if err := ml.Increment(); err != nil {
		t.Fatalf("second call should pass: %v", err)
	}
	if err := ml.Increment(); err == nil {
		t.Fatal("third call should exceed the limit")
	}
	if ml.Count() != 3 {
		t.Errorf("count = %d, want 3", ml.Count())
	}

	unlimited := NewModelLimiter(0)
	if unlimited.Remaining() != -1 {
		t.Error("max 0 should mean unlimited")
	}
}
