package platform

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := NewError(CodeNotFound, "channel missing")
	want := "not_found: channel missing"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := WrapError(CodeNetwork, "dial failed", errors.New("connection refused"))
	want = "network_error: dial failed: connection refused"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(CodeNetwork, "send", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := Errorf(CodeTimeout, "request timed out after %ds", 30)

	if !errors.Is(err, &Error{Code: CodeTimeout}) {
		t.Error("expected match on same code")
	}
	if errors.Is(err, &Error{Code: CodeNotFound}) {
		t.Error("expected no match on different code")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewError(CodeRateLimited, "slow down")); got != CodeRateLimited {
		t.Errorf("CodeOf = %v, want rate_limited", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Errorf("CodeOf plain error = %v, want unknown", got)
	}

	// Wrapped platform errors still report their code.
	wrapped := fmt.Errorf("outer: %w", NewError(CodeInvalidState, "not connected"))
	if got := CodeOf(wrapped); got != CodeInvalidState {
		t.Errorf("CodeOf wrapped = %v, want invalid_state", got)
	}
}

func TestIsCode(t *testing.T) {
	err := NewError(CodeAuthentication, "bad token")

	if !IsCode(err, CodeAuthentication) {
		t.Error("IsCode = false, want true")
	}
	if IsCode(err, CodeNetwork) {
		t.Error("IsCode matched wrong code")
	}
	if IsCode(nil, CodeNetwork) {
		t.Error("IsCode(nil) = true, want false")
	}
}

func TestErrUnsupported(t *testing.T) {
	err := ErrUnsupported("webhooks")
	if !IsCode(err, CodeUnsupported) {
		t.Errorf("code = %v, want unsupported", CodeOf(err))
	}
}
