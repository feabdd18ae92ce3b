package domain

import "errors"

var (
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidTaxRate  = errors.New("invalid_tax_rate")
)
