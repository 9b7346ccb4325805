package handler

import (
	"strings"
	"testing"
)

func TestValidator_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{Username: "al", Email: "nope", Password: "secret1", FirstName: "A"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"username must be at least 3 characters", "email must be a valid email"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestValidator_OneOf(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createUserRequest{Username: "tech", Email: "t@p.io", Password: "secret1", Role: "CITY_MANAGER"})
	if err == nil || !strings.Contains(err.Error(), "role must be one of: SERVICE_PROVIDER_USER") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&runSimulationRequest{Name: "peak", Scenario: "traffic_flow"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
