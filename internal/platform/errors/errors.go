package apperrors

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrCorruptState   = errors.New("corrupt tracker state")
)
