package cryptox

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/quizkeeper/internal/codec"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// WrappedSecret is a short secret encrypted directly under a raw key.
type WrappedSecret struct {
	IV   string `json:"iv"`
	Data string `json:"data"`
}

// ParseWrappedSecret decodes a stored wrapped secret record.
func ParseWrappedSecret(raw []byte) (*WrappedSecret, error) {
	var w WrappedSecret
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFormat, err)
	}
	if w.IV == "" || w.Data == "" {
		return nil, fmt.Errorf("%w: missing secret fields", common.ErrFormat)
	}
	return &w, nil
}

// Marshal returns the record form of the wrapped secret.
func (w *WrappedSecret) Marshal() ([]byte, error) {
	return json.Marshal(w)
}

// NewKey draws a random 256-bit key. It is not derived from any password.
func (c *Cipher) NewKey() ([]byte, error) {
	return c.random(KeySize)
}

// Wrap encrypts secret under key with a fresh nonce.
func (c *Cipher) Wrap(secret, key []byte) (*WrappedSecret, error) {
	nonce, err := c.random(NonceSize)
	if err != nil {
		return nil, err
	}
	ciphertext, err := sealGCM(key, nonce, secret)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}
	return &WrappedSecret{IV: codec.Encode(nonce), Data: codec.Encode(ciphertext)}, nil
}

// Unwrap reverses Wrap. Tampering yields common.ErrAuthentication, undecodable
// fields common.ErrFormat.
func (c *Cipher) Unwrap(w *WrappedSecret, key []byte) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil secret", common.ErrFormat)
	}
	nonce, err := codec.DecodeSized(w.IV, NonceSize)
	if err != nil {
		return nil, err
	}
	ciphertext, err := codec.Decode(w.Data)
	if err != nil {
		return nil, err
	}
	return openGCM(key, nonce, ciphertext)
}
