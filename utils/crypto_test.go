package utils

import "testing"

func TestEncryptSecretRoundTrip(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	ciphertext, err := EncryptSecret("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("EncryptSecret failed: %v", err)
	}
	if ciphertext == "JBSWY3DPEHPK3PXP" {
		t.Fatal("ciphertext must differ from plaintext")
	}

	plaintext, err := DecryptSecret(ciphertext)
	if err != nil {
		t.Fatalf("DecryptSecret failed: %v", err)
	}
	if plaintext != "JBSWY3DPEHPK3PXP" {
		t.Errorf("plaintext = %q, want original secret", plaintext)
	}
}

func TestEncryptSecretRequiresKey(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "short")

	if _, err := EncryptSecret("secret"); err == nil {
		t.Error("expected an error for a bad key length")
	}
}

func TestDecryptSecretRejectsTampering(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	if _, err := DecryptSecret("AAAA"); err == nil {
		t.Error("expected an error for truncated ciphertext")
	}
}
