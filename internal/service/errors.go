package service

import "errors"

var (
	ErrNotAuthenticated  = errors.New("you must be logged in to do that")
	ErrForbidden         = errors.New("you do not have permission to do that")
	ErrNoSuchUser        = errors.New("no such user found for that email")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrPasswordMismatch  = errors.New("your passwords don't match")
	ErrInvalidResetToken = errors.New("this token is either invalid or expired")
	ErrEmptyCart         = errors.New("your cart is empty")
	ErrInvalidInput      = errors.New("invalid input")
)
