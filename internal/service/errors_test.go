package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid input", invalidInput("bad %s", "mode"), KindInvalidInput},
		{"not found", notFound("review not found"), KindNotFound},
		{"wrapped permission denied", fmt.Errorf("outer: %w", permissionDenied("no")), KindPermissionDenied},
		{"invalid state", invalidState("already locked"), KindInvalidState},
		{"plain error", errors.New("driver exploded"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("ctx: %w", notFound("answer set not found"))

	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrPermissionDenied) {
		t.Error("did not expect a match on ErrPermissionDenied")
	}
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	cause := errors.New(`pq: relation "x" does not exist`)
	err := internal("failed to list answer sets", cause)

	if got := MessageOf(err); got != "internal server error" {
		t.Errorf("MessageOf(internal) = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("internal error should unwrap to its cause")
	}
	if got := MessageOf(permissionDenied("answer set is locked")); got != "answer set is locked" {
		t.Errorf("MessageOf(permission denied) = %q", got)
	}
	if got := MessageOf(errors.New("raw")); got != "internal server error" {
		t.Errorf("MessageOf(raw) = %q", got)
	}
}

func TestOutcomeOf(t *testing.T) {
	if got := outcomeOf(nil); got != "success" {
		t.Errorf("outcomeOf(nil) = %q", got)
	}
	if got := outcomeOf(invalidState("x")); got != "invalid_state" {
		t.Errorf("outcomeOf(invalid state) = %q", got)
	}
}
