package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	ErrUnitNotFound        = errors.New("unit not found")
	ErrDuplicateUnit       = errors.New("unit already added to item")
	ErrAxisNotFound        = errors.New("variant axis not found")
	ErrOptionNotFound      = errors.New("variant option not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrVariantUnitNotFound = errors.New("variant unit not found")
	ErrSkuNotFound         = errors.New("sku not found")
	ErrSessionNotFound     = errors.New("form session not found")
	ErrSubmitInProgress    = errors.New("item is being saved by another session")
	ErrDuplicateSkuCode    = errors.New("duplicate sku code")
	ErrInvalidItem         = errors.New("invalid item")
	ErrInvalidInput        = errors.New("invalid input")
)
