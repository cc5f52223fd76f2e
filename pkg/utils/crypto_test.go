package utils

import "testing"

func TestEncryptDecrypt(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	encrypted, err := Encrypt([]byte("AQXem...access-token"), key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if encrypted == "AQXem...access-token" {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decrypted != "AQXem...access-token" {
		t.Errorf("round trip returned %q", decrypted)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), []byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(encrypted, []byte("abcdef0123456789abcdef0123456789")); err == nil {
		t.Fatal("decrypt with the wrong key must fail")
	}
}

func TestDecryptGarbage(t *testing.T) {
	if _, err := Decrypt("bm90LWEtY2lwaGVydGV4dA==", []byte("0123456789abcdef0123456789abcdef")); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}
