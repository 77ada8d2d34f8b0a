package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRole_Valid(t *testing.T) {
	for _, role := range Roles {
		if !role.Valid() {
			t.Errorf("%q should be valid", role)
		}
	}
	for _, role := range []Role{"", "superuser", "Admin"} {
		if role.Valid() {
			t.Errorf("%q should be invalid", role)
		}
	}
}

func TestEventStatus_Valid(t *testing.T) {
	if !EventStatusCancelled.Valid() {
		t.Error("cancelled should be valid")
	}
	if EventStatus("archived").Valid() {
		t.Error("archived should be invalid")
	}
}

func TestUser_PublicOmitsPasswordHash(t *testing.T) {
	user := &User{ID: 1, Email: "a@x.edu", PasswordHash: "$2a$10$secret", Role: RoleStudent}

	for name, v := range map[string]interface{}{"user": user, "public": user.Public()} {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%s) error = %v", name, err)
		}
		if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "password") {
			t.Errorf("%s JSON leaks the password hash: %s", name, raw)
		}
	}
}
