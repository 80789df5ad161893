// Package keyring implements the device secret store: a random per-install
// key kept in the clear, and the optional "remember me" record holding the
// master password wrapped under that key.
//
// The device key only keeps the password away from casual inspection of
// local storage. Anyone who can read both records can recover the password.
package keyring

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quizkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/quizkeeper/internal/codec"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
	"github.com/dmitrijs2005/quizkeeper/internal/cryptox"
	"github.com/dmitrijs2005/quizkeeper/internal/logging"
)

type Keyring struct {
	repo   records.Repository
	cipher *cryptox.Cipher
	log    logging.Logger
}

func New(repo records.Repository, cipher *cryptox.Cipher, log logging.Logger) *Keyring {
	return &Keyring{repo: repo, cipher: cipher, log: log.With("component", "keyring")}
}

// DeviceKey returns the persisted device key, creating and storing one on
// first use. A record that does not decode to a key is replaced, and any
// remembered password wrapped under the old key is dropped.
func (k *Keyring) DeviceKey(ctx context.Context) ([]byte, error) {
	raw, err := k.repo.Get(ctx, common.RecordDeviceKey)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		key, err := codec.DecodeSized(codec.BytesText(raw), cryptox.KeySize)
		if err == nil {
			return key, nil
		}
		k.log.Warn(ctx, "device key record is corrupt, regenerating", "error", err)
		if err := k.repo.Delete(ctx, common.RecordRemember); err != nil {
			return nil, err
		}
	}

	key, err := k.cipher.NewKey()
	if err != nil {
		return nil, err
	}
	if err := k.repo.Set(ctx, common.RecordDeviceKey, codec.TextBytes(codec.Encode(key))); err != nil {
		return nil, err
	}
	k.log.Debug(ctx, "device key created")
	return key, nil
}

// Remember wraps password under the device key and persists it.
func (k *Keyring) Remember(ctx context.Context, password []byte) error {
	key, err := k.DeviceKey(ctx)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	w, err := k.cipher.Wrap(password, key)
	if err != nil {
		return fmt.Errorf("wrap password: %w", err)
	}
	b, err := w.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrFormat, err)
	}
	return k.repo.Set(ctx, common.RecordRemember, b)
}

// Recall returns the remembered password. ok is false when none is stored.
// A record that fails to decode or authenticate is erased and reported as
// absent; only storage failures are returned as errors.
func (k *Keyring) Recall(ctx context.Context) (password []byte, ok bool, err error) {
	raw, err := k.repo.Get(ctx, common.RecordRemember)
	if err != nil || raw == nil {
		return nil, false, err
	}

	w, err := cryptox.ParseWrappedSecret(raw)
	if err != nil {
		return nil, false, k.discard(ctx, err)
	}

	key, err := k.DeviceKey(ctx)
	if err != nil {
		return nil, false, err
	}
	defer common.WipeByteArray(key)

	password, err = k.cipher.Unwrap(w, key)
	if err != nil {
		return nil, false, k.discard(ctx, err)
	}
	return password, true, nil
}

func (k *Keyring) discard(ctx context.Context, cause error) error {
	k.log.Warn(ctx, "remembered password unusable, clearing it", "error", cause)
	return k.Forget(ctx)
}

// Forget erases the remembered password. The device key is kept.
func (k *Keyring) Forget(ctx context.Context) error {
	return k.repo.Delete(ctx, common.RecordRemember)
}

// HasRemembered reports whether a remembered-password record exists. It
// does not check that the record is usable.
func (k *Keyring) HasRemembered(ctx context.Context) (bool, error) {
	raw, err := k.repo.Get(ctx, common.RecordRemember)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}
