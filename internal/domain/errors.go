package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidQuantity        = errors.New("invalid_quantity")
	ErrInvalidPrice           = errors.New("invalid_price")
	ErrUnknownSecurity        = errors.New("unknown_security")
	ErrInsufficientFunds      = errors.New("insufficient_funds")
	ErrInsufficientHoldings   = errors.New("insufficient_holdings")
	ErrPortfolioAlreadyExists = errors.New("portfolio_already_exists")
	ErrPortfolioNotFound      = errors.New("portfolio_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
