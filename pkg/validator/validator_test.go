package validator

import (
	"errors"
	"strings"
	"testing"
)

type sendFrame struct {
	ToUserID string `validate:"required,uuid"`
	Text     string `validate:"required,max=5"`
}

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	err := Struct(sendFrame{ToUserID: "not-a-uuid", Text: "too long text"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := FormatValidationError(err)
	if !strings.Contains(msg, "to_user_id must be a valid uuid") {
		t.Errorf("missing uuid message in %q", msg)
	}
	if !strings.Contains(msg, "text must be at most 5 characters") {
		t.Errorf("missing max message in %q", msg)
	}
}

func TestFormatValidationErrorPlainError(t *testing.T) {
	t.Parallel()

	if got := FormatValidationError(errors.New("boom")); got != "boom" {
		t.Errorf("got %q, want %q", got, "boom")
	}
}
