package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "initial_funds must be >= 0"}
	if err.Error() != "initial_funds must be >= 0" {
		t.Errorf("Error() = %q, want %q", err.Error(), "initial_funds must be >= 0")
	}
}

func TestValidationError_As(t *testing.T) {
	wrapped := fmt.Errorf("open portfolio: %w", &ValidationError{Message: "bad id"})

	var vErr *ValidationError
	if !errors.As(wrapped, &vErr) {
		t.Fatal("errors.As should find the wrapped ValidationError")
	}
	if vErr.Message != "bad id" {
		t.Errorf("Message = %q, want %q", vErr.Message, "bad id")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrInvalidQuantity,
		ErrInvalidPrice,
		ErrUnknownSecurity,
		ErrInsufficientFunds,
		ErrInsufficientHoldings,
		ErrPortfolioAlreadyExists,
		ErrPortfolioNotFound,
	}
	for i := 0; i < len(errs); i++ {
		for j := i + 1; j < len(errs); j++ {
			if errors.Is(errs[i], errs[j]) {
				t.Errorf("sentinel errors %d and %d should be distinct", i, j)
			}
		}
	}
}
