package model

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid negotiation transition")
	ErrFrameworkMissing  = errors.New("enabler has no pricing framework")
	ErrInvalidOffer      = errors.New("invalid offer")
	ErrConcurrentUpdate  = errors.New("negotiation changed concurrently")
)
