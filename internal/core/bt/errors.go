package bt

import "errors"

var (
	ErrUnknownProcess   = errors.New("bt: unknown process")
	ErrDuplicateProcess = errors.New("bt: process already registered")
	ErrDuplicateID      = errors.New("bt: duplicate node id")
	ErrNoRoot           = errors.New("bt: tree has no root")
	ErrTreeActive       = errors.New("bt: tree already initialized")
	ErrInvalidParam     = errors.New("bt: invalid parameter")
)
