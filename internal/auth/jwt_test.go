package auth

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken("secret", "issuer", time.Minute, Claims{
		SubjectID: "student-1",
		Role:      "student",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", "issuer", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if claims.SubjectID != "student-1" || claims.Role != "student" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewSessionToken("secret", "issuer", time.Minute, Claims{
		SubjectID: "student-1",
		Role:      "student",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseToken("other-secret", "issuer", token); err == nil {
		t.Fatalf("expected signature mismatch to error")
	}
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	token, err := NewSessionToken("secret", "issuer", time.Minute, Claims{
		SubjectID: "guard-1",
		Role:      "guard",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseToken("secret", "someone-else", token); err == nil {
		t.Fatalf("expected issuer mismatch to error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := NewSessionToken("secret", "issuer", -time.Minute, Claims{
		SubjectID: "student-1",
		Role:      "student",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseToken("secret", "issuer", token); err == nil {
		t.Fatalf("expected expired token to error")
	}
}
