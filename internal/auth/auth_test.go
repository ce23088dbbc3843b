package auth

import (
	"testing"
	"time"

	"rpe/internal/config"
)

func newTestService() *Service {
	return NewService(&config.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Expiration: time.Hour,
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	s := newTestService()

	hash, err := s.HashPassword("senha-forte-123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "senha-forte-123" {
		t.Fatal("HashPassword() returned the plaintext password")
	}

	if err := s.VerifyPassword(hash, "senha-forte-123"); err != nil {
		t.Errorf("VerifyPassword() with correct password error = %v", err)
	}
	if err := s.VerifyPassword(hash, "senha-errada"); err == nil {
		t.Error("VerifyPassword() with wrong password expected error, got nil")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	s := newTestService()

	token, err := s.GenerateToken("user-1", "ana.souza@corp.com", "COMITE")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, expected %q", claims.UserID, "user-1")
	}
	if claims.Email != "ana.souza@corp.com" {
		t.Errorf("Email = %q, expected %q", claims.Email, "ana.souza@corp.com")
	}
	if claims.UserType != "COMITE" {
		t.Errorf("UserType = %q, expected %q", claims.UserType, "COMITE")
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	s := newTestService()

	token, err := s.GenerateToken("user-1", "ana.souza@corp.com", "COMITE")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := s.ValidateToken(token + "x"); err == nil {
		t.Error("ValidateToken() with tampered token expected error, got nil")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := newTestService()
	other := NewService(&config.JWTConfig{
		Secret:     "a-completely-different-secret",
		Expiration: time.Hour,
	})

	token, err := s.GenerateToken("user-1", "ana.souza@corp.com", "COMITE")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken() with wrong secret expected error, got nil")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := NewService(&config.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Expiration: -time.Minute,
	})

	token, err := s.GenerateToken("user-1", "ana.souza@corp.com", "COMITE")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := s.ValidateToken(token); err == nil {
		t.Error("ValidateToken() with expired token expected error, got nil")
	}
}
