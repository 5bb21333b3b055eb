package graph

import (
	"errors"

	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/service"
)

// codedError keeps the message of err and adds extensions.code to the
// GraphQL error.
type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

var errorCodes = []struct {
	target error
	code   string
}{
	{service.ErrNotAuthenticated, "UNAUTHENTICATED"},
	{service.ErrForbidden, "FORBIDDEN"},
	{service.ErrInvalidInput, "BAD_USER_INPUT"},
	{service.ErrPasswordMismatch, "BAD_USER_INPUT"},
	{service.ErrInvalidResetToken, "BAD_USER_INPUT"},
	{service.ErrEmptyCart, "BAD_USER_INPUT"},
	{service.ErrNoSuchUser, "NOT_FOUND"},
	{service.ErrInvalidPassword, "UNAUTHENTICATED"},
	{repository.ErrEmailTaken, "CONFLICT"},
	{repository.ErrUserNotFound, "NOT_FOUND"},
	{repository.ErrItemNotFound, "NOT_FOUND"},
	{repository.ErrCartItemNotFound, "NOT_FOUND"},
	{repository.ErrOrderNotFound, "NOT_FOUND"},
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.target) {
			return &codedError{err: err, code: ec.code}
		}
	}
	return err
}
