package models

import "testing"

func TestParsePermissions(t *testing.T) {
	ps, err := ParsePermissions([]string{"ADMIN", "ITEMDELETE"})
	if err != nil {
		t.Fatalf("ParsePermissions: %v", err)
	}
	if len(ps) != 2 || ps[0] != PermissionAdmin || ps[1] != PermissionItemDelete {
		t.Fatalf("unexpected %v", ps)
	}

	if _, err := ParsePermissions([]string{"USER", "SUPERUSER"}); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestPermissionsIntersects(t *testing.T) {
	held := Permissions{PermissionUser, PermissionItemCreate}

	if !held.Intersects(PermissionAdmin, PermissionItemCreate) {
		t.Error("expected overlap on ITEMCREATE")
	}
	if held.Intersects(PermissionAdmin, PermissionItemDelete) {
		t.Error("unexpected overlap")
	}
	if held.Intersects() {
		t.Error("empty requirement must not match")
	}
	if (Permissions{}).Intersects(PermissionUser) {
		t.Error("empty set must not match")
	}
}

func TestCartTotal(t *testing.T) {
	cart := []CartItem{
		{Quantity: 2, Item: &Item{Price: 1250}},
		{Quantity: 1, Item: &Item{Price: 99}},
		{Quantity: 5},
	}
	if got := CartTotal(cart); got != 2599 {
		t.Fatalf("CartTotal = %d, want 2599", got)
	}
	if got := CartTotal(nil); got != 0 {
		t.Fatalf("CartTotal(nil) = %d", got)
	}
}
