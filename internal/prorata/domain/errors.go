package domain

import "errors"

var (
	ErrInvalidDate   = errors.New("invalid_activation_date")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidView   = errors.New("invalid_view")
)
