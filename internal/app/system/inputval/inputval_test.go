// internal/app/system/inputval/inputval_test.go
package inputval

import (
	"strings"
	"testing"
)

type registerInput struct {
	Email    string `validate:"required,email,max=254" label:"Email"`
	Password string `validate:"required,min=6" label:"Password"`
}

func TestValidatePasses(t *testing.T) {
	result := Validate(registerInput{Email: "a@example.com", Password: "secret1"})
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.All())
	}
	if result.First() != "" {
		t.Fatalf("First() = %q, want empty", result.First())
	}
}

func TestValidateRequired(t *testing.T) {
	result := Validate(registerInput{Password: "secret1"})
	if !result.HasErrors() {
		t.Fatal("expected errors for missing email")
	}
	if got := result.First(); got != "Email is required." {
		t.Fatalf("First() = %q", got)
	}
}

func TestValidateMin(t *testing.T) {
	result := Validate(registerInput{Email: "a@example.com", Password: "abc"})
	if got := result.First(); got != "Password must be at least 6 characters." {
		t.Fatalf("First() = %q", got)
	}
}

func TestValidateBadEmail(t *testing.T) {
	result := Validate(registerInput{Email: "not-an-email", Password: "secret1"})
	if got := result.First(); got != "Email must be a valid email address." {
		t.Fatalf("First() = %q", got)
	}
}

func TestValidateOneof(t *testing.T) {
	type roleInput struct {
		Role string `validate:"required,oneof=user admin" label:"Role"`
	}
	result := Validate(roleInput{Role: "superuser"})
	if got := result.First(); !strings.HasPrefix(got, "Role must be one of") {
		t.Fatalf("First() = %q", got)
	}
}

func TestValidateCollectsAllFailures(t *testing.T) {
	result := Validate(registerInput{})
	if len(result.All()) != 2 {
		t.Fatalf("All() = %v, want 2 messages", result.All())
	}
}
