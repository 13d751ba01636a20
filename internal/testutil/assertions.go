package testutil

import (
	"errors"
	"testing"

	apperrors "ledger/internal/errors"
)

// AssertAppError fails unless err is an *AppError carrying code. The matched
// error is returned so callers can check its message.
func AssertAppError(t testing.TB, err error, code string) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected AppError %s, got nil", code)
	case !errors.As(err, &appErr):
		t.Fatalf("expected *AppError %s, got %T: %v", code, err, err)
	case appErr.Code != code:
		t.Errorf("expected error code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertErrorIs fails unless err matches target.
func AssertErrorIs(t testing.TB, err, target error) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Fatalf("expected error matching %v, got %v", target, err)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
