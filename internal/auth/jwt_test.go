package auth

import "testing"

func TestNewServiceWithoutSecret(t *testing.T) {
	if svc := NewService(""); svc != nil {
		t.Error("expected nil service when no secret is configured")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret")
	token, expiresAt, err := svc.GenerateClientToken("client-1")
	if err != nil {
		t.Fatalf("GenerateClientToken: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatal("expected token and expiry")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.ClientID != "client-1" || claims.Role != "client" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := NewService("secret-a").GenerateClientToken("client-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewService("secret-b").ValidateToken(token); err == nil {
		t.Error("expected validation failure with the wrong secret")
	}
	if _, err := NewService("secret-a").ValidateToken("not-a-token"); err == nil {
		t.Error("expected validation failure for garbage input")
	}
}
