package service

import "errors"

// Sentinel errors for service layer
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrSigning       = errors.New("signing error")
	ErrInvalidToken  = errors.New("invalid token")
	ErrRelay         = errors.New("relay error")
)
