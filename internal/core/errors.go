package core

import "errors"

var (
	ErrStoreUnavailable        = errors.New("store unavailable")
	ErrSynthesisFailed         = errors.New("synthesis failed")
	ErrMalformedMessage        = errors.New("malformed message")
	ErrClassificationAmbiguous = errors.New("classification ambiguous")
	ErrNotFound                = errors.New("not found")
)
