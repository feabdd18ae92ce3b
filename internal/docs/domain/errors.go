package domain

import "errors"

var (
	ErrStoreUnavailable = errors.New("docs_store_unavailable")
	ErrCorruptStore     = errors.New("docs_store_corrupt")
)
