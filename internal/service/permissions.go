package service

import (
	"fmt"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

// HasPermission fails unless user holds at least one of required.
func HasPermission(user models.User, required ...models.Permission) error {
	if user.Permissions.Intersects(required...) {
		return nil
	}
	return fmt.Errorf("%w: requires one of %v, you have %v", ErrForbidden, required, user.Permissions)
}
