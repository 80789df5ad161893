package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestDeriveKey_KnownVectors(t *testing.T) {
	tests := []struct {
		iterations int
		want       string
	}{
		{1, "120fb6cffcf8b32c43e7225256c4f837a86548c92ccc35480805987cb70be17b"},
		{2, "ae4d0c95af6b46d32d0adff928f06dd02a303f8ef3c251dfd6e2d85a95474c43"},
	}
	for _, tt := range tests {
		got := DeriveKey([]byte("password"), []byte("salt"), tt.iterations)
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("iterations=%d: expected %s, got %x", tt.iterations, tt.want, got)
		}
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)

	key1 := DeriveKey([]byte("secret-password"), salt, 1000)
	key2 := DeriveKey([]byte("secret-password"), salt, 1000)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != KeySize {
		t.Errorf("expected %d byte key, got %d", KeySize, len(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	if bytes.Equal(DeriveKey(password, []byte("salt-1"), 1000), DeriveKey(password, []byte("salt-2"), 1000)) {
		t.Errorf("expected different results for different salts, got same")
	}
	if bytes.Equal(DeriveKey(password, []byte("salt-1"), 1000), DeriveKey(password, []byte("salt-1"), 1001)) {
		t.Errorf("expected different results for different iteration counts, got same")
	}
}
