package novaterm

import "errors"

var (
	ErrInvalidConfig   = errors.New("novaterm: invalid page list configuration")
	ErrOutOfMemory     = errors.New("novaterm: allocation failed")
	ErrInvalidPin      = errors.New("novaterm: pin no longer refers to a live cell")
	ErrIntegrity       = errors.New("novaterm: page failed an integrity check")
	ErrEmptyList       = errors.New("novaterm: operation requires at least one node")
	ErrCloneOutOfRange = errors.New("novaterm: clone range does not lie within the list")
)
