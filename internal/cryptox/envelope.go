package cryptox

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrijs2005/quizkeeper/internal/codec"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// EnvelopeVersion is the only envelope format this build can read.
const EnvelopeVersion = 1

// Envelope is the persisted, encrypted form of a whole document.
// All byte fields are transport encoded.
type Envelope struct {
	Version int    `json:"v"`
	Salt    string `json:"salt"`
	IV      string `json:"iv"`
	Data    string `json:"data"`
}

// ParseEnvelope decodes a stored envelope record. Structural problems are
// reported as common.ErrFormat, unknown versions as common.ErrUnsupportedVersion.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFormat, err)
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", common.ErrUnsupportedVersion, env.Version)
	}
	if env.Salt == "" || env.IV == "" || env.Data == "" {
		return nil, fmt.Errorf("%w: missing envelope fields", common.ErrFormat)
	}
	return &env, nil
}

// Marshal returns the record form of the envelope.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Cipher seals documents into envelopes and wraps short secrets.
// The zero value is not usable; construct with NewCipher.
type Cipher struct {
	iterations int
	rand       io.Reader
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithIterations overrides the PBKDF2 iteration count. Envelopes do not record
// it, so opening must use the same value that sealed.
func WithIterations(n int) Option { return func(c *Cipher) { c.iterations = n } }

// WithRand replaces the randomness source for salts, nonces and keys.
func WithRand(r io.Reader) Option { return func(c *Cipher) { c.rand = r } }

// NewCipher returns a Cipher with DefaultIterations and crypto/rand.
func NewCipher(opts ...Option) *Cipher {
	c := &Cipher{iterations: DefaultIterations, rand: rand.Reader}
	for _, o := range opts {
		o(c)
	}
	if c.iterations <= 0 {
		c.iterations = DefaultIterations
	}
	return c
}

// Iterations reports the configured PBKDF2 work factor.
func (c *Cipher) Iterations() int { return c.iterations }

func (c *Cipher) random(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(c.rand, b); err != nil {
		return nil, fmt.Errorf("random source: %w", err)
	}
	return b, nil
}

// Seal serializes doc to JSON and encrypts it under a key derived from
// password. A fresh salt and nonce are drawn on every call.
func (c *Cipher) Seal(doc any, password []byte) (*Envelope, error) {
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	defer common.WipeByteArray(plaintext)
	return c.SealBytes(plaintext, password)
}

// SealBytes encrypts an already serialized document.
func (c *Cipher) SealBytes(plaintext, password []byte) (*Envelope, error) {
	salt, err := c.random(SaltSize)
	if err != nil {
		return nil, err
	}
	nonce, err := c.random(NonceSize)
	if err != nil {
		return nil, err
	}

	key := DeriveKey(password, salt, c.iterations)
	defer common.WipeByteArray(key)

	ciphertext, err := sealGCM(key, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	return &Envelope{
		Version: EnvelopeVersion,
		Salt:    codec.Encode(salt),
		IV:      codec.Encode(nonce),
		Data:    codec.Encode(ciphertext),
	}, nil
}

// OpenBytes authenticates and decrypts env, returning the serialized document.
func (c *Cipher) OpenBytes(env *Envelope, password []byte) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", common.ErrFormat)
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", common.ErrUnsupportedVersion, env.Version)
	}
	salt, err := codec.Decode(env.Salt)
	if err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", common.ErrFormat)
	}
	nonce, err := codec.DecodeSized(env.IV, NonceSize)
	if err != nil {
		return nil, err
	}
	ciphertext, err := codec.Decode(env.Data)
	if err != nil {
		return nil, err
	}

	key := DeriveKey(password, salt, c.iterations)
	defer common.WipeByteArray(key)

	return openGCM(key, nonce, ciphertext)
}

// Open decrypts env and unmarshals the document into v. Fields already set
// in v survive when absent from the document.
func (c *Cipher) Open(env *Envelope, password []byte, v any) error {
	plaintext, err := c.OpenBytes(env, password)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrFormat, err)
	}
	return nil
}
