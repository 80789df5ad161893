// Package codec converts between text, raw bytes and the transport-safe
// encoding used for every byte field in persisted records (standard base64
// with padding).
package codec

import (
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// Encode returns the transport encoding of b.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses Encode. Invalid input is reported as common.ErrFormat.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFormat, err)
	}
	return b, nil
}

// DecodeSized decodes s and checks the result is exactly n bytes long.
func DecodeSized(s string, n int) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", common.ErrFormat, n, len(b))
	}
	return b, nil
}

// TextBytes returns the UTF-8 bytes of s.
func TextBytes(s string) []byte { return []byte(s) }

// BytesText interprets b as UTF-8 text.
func BytesText(b []byte) string { return string(b) }
