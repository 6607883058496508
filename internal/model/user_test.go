package model

import "testing"

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"管理者", User{ID: "admin", Role: RoleAdmin}, "admin (admin)"},
		{"一般ユーザー", User{ID: "user", Role: RoleUser}, "user (user)"},
		{"IDとロールが異なる場合", User{ID: "hanako", Role: RoleAdmin}, "hanako (admin)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayLabel(); got != tt.want {
				t.Errorf("DisplayLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	admin := User{ID: "admin", Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("admin role should be admin")
	}

	general := User{ID: "user", Role: RoleUser}
	if general.IsAdmin() {
		t.Error("user role should not be admin")
	}
}
