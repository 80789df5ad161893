package common

import (
	"errors"
	"testing"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- sentinel errors ----------

func TestErrUnsupportedVersion_MatchesErrFormat(t *testing.T) {
	if !errors.Is(ErrUnsupportedVersion, ErrFormat) {
		t.Fatalf("ErrUnsupportedVersion must match ErrFormat")
	}
	if errors.Is(ErrFormat, ErrAuthentication) {
		t.Fatalf("ErrFormat must not match ErrAuthentication")
	}
	if !errors.Is(ErrStorage, ErrStorage) || errors.Is(ErrStorage, ErrFormat) {
		t.Fatalf("ErrStorage must be distinct from ErrFormat")
	}
}
