package payment

import "errors"

var (
	ErrNotPayable         = errors.New("reservation is not awaiting a deposit")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrPaymentModeMismatch means the gateway credentials target another environment
	// than the configured payment mode.
	ErrPaymentModeMismatch = errors.New("payment mode does not match gateway")
)
