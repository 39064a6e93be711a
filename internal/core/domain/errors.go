package domain

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout is already in progress")
	ErrInvalidCustomer    = errors.New("invalid customer details")
	ErrInvalidRequest     = errors.New("invalid product request")
	ErrInvalidTab         = errors.New("invalid tab")

	// ErrSubmissionFailed covers every failure of the remote submission
	// endpoint: transport errors, non-2xx statuses, open breaker.
	ErrSubmissionFailed = errors.New("submission failed")
)
