package models

import "testing"

func TestNormalizeSubdomain(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"eagles", "eagles"},
		{"EAGLES", "eagles"},
		{"Eagles ", "eagles"},
		{"  EaGLeS\t", "eagles"},
		{"", ""},
		{"   ", ""},
		{"north-side-42", "north-side-42"},
	}
	for _, tt := range tests {
		if got := NormalizeSubdomain(tt.raw); got != tt.want {
			t.Errorf("NormalizeSubdomain(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRoleRank(t *testing.T) {
	if !(RoleOwner.Rank() < RoleAdmin.Rank() && RoleAdmin.Rank() < RoleMember.Rank()) {
		t.Fatal("role ranks are not a total order by privilege")
	}
	if Role("superuser").Rank() <= RoleMember.Rank() {
		t.Fatal("unknown role must rank below every real role")
	}
	if Role("superuser").Valid() {
		t.Fatal("unknown role reported valid")
	}
}
