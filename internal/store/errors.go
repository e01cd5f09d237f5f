package store

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUserNotFound   = errors.New("user not found")
	ErrIdeaNotFound   = errors.New("idea not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrSelfFollow     = errors.New("cannot follow yourself")
)
