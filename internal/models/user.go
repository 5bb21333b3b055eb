package models

import (
	"fmt"
	"time"
)

type Permission string

const (
	PermissionAdmin            Permission = "ADMIN"
	PermissionUser             Permission = "USER"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

var AllPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown permission %q", s)
	}
	return p, nil
}

// Permissions is a set of permission labels held by a user. Order is kept
// as stored; duplicates are ignored by Normalize.
type Permissions []Permission

// Intersects reports whether any of want is held.
func (ps Permissions) Intersects(want ...Permission) bool {
	for _, held := range ps {
		for _, w := range want {
			if held == w {
				return true
			}
		}
	}
	return false
}

// Normalize drops duplicates while keeping the first occurrence order.
func (ps Permissions) Normalize() Permissions {
	seen := make(map[Permission]struct{}, len(ps))
	out := make(Permissions, 0, len(ps))
	for _, p := range ps {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (ps Permissions) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func ParsePermissions(labels []string) (Permissions, error) {
	out := make(Permissions, 0, len(labels))
	for _, label := range labels {
		p, err := ParsePermission(label)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out.Normalize(), nil
}

type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Permissions      Permissions
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
