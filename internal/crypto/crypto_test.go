package crypto

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc, err := NewService("6368616e676520746869732070617373")
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	plaintext := "Justificativa: entregas consistentes acima do esperado."
	ciphertext, err := svc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if ciphertext == plaintext {
		t.Error("Ciphertext should not equal plaintext")
	}

	decrypted, err := svc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Failed to decrypt: %v", err)
	}

	if decrypted != plaintext {
		t.Errorf("Expected %q, got %q", plaintext, decrypted)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	svc, err := NewService("secret")
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	ciphertext, err := svc.Encrypt("")
	if err != nil {
		t.Fatalf("Encrypt of empty string should not fail: %v", err)
	}
	if ciphertext != "" {
		t.Errorf("Empty plaintext should stay empty, got %q", ciphertext)
	}

	decrypted, err := svc.Decrypt("")
	if err != nil {
		t.Fatalf("Decrypt of empty string should not fail: %v", err)
	}
	if decrypted != "" {
		t.Errorf("Empty ciphertext should stay empty, got %q", decrypted)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	svc, err := NewService("secret")
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	first, err := svc.Encrypt("same input")
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	second, err := svc.Encrypt("same input")
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if first == second {
		t.Error("Two encryptions of the same plaintext should differ (random nonce)")
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	svc, err := NewService("secret")
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	ciphertext, err := svc.Encrypt("sensitive observation")
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	tampered := strings.Replace(ciphertext, string(ciphertext[len(ciphertext)-5]), "A", 1)
	if tampered == ciphertext {
		tampered = "A" + ciphertext[1:]
	}

	if _, err := svc.Decrypt(tampered); err == nil {
		t.Error("Decrypt of tampered ciphertext should fail")
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	alice, err := NewService("key-one")
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	bob, err := NewService("key-two")
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	ciphertext, err := alice.Encrypt("peer feedback")
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if _, err := bob.Decrypt(ciphertext); err == nil {
		t.Error("Decrypt with a different key should fail")
	}
}

func TestDecryptGarbage(t *testing.T) {
	svc, err := NewService("secret")
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	if _, err := svc.Decrypt("not-base64!!!"); err == nil {
		t.Error("Decrypt of invalid base64 should fail")
	}

	if _, err := svc.Decrypt("c2hvcnQ="); err == nil {
		t.Error("Decrypt of too-short ciphertext should fail")
	}
}
