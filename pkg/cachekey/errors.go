package cachekey

import "errors"

var (
	ErrUnknownNamespace = errors.New("cachekey: unknown namespace")
	ErrMissingParam     = errors.New("cachekey: missing parameter")
	ErrUnexpectedParam  = errors.New("cachekey: unexpected parameter")
	ErrSubject          = errors.New("cachekey: subject does not fit namespace")
)
