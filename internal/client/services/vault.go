// Package services contains the application services behind the QuizKeeper
// CLI: the vault lifecycle controller and quiz generation.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/quizkeeper/internal/client/keyring"
	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
	"github.com/dmitrijs2005/quizkeeper/internal/client/persist"
	"github.com/dmitrijs2005/quizkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
	"github.com/dmitrijs2005/quizkeeper/internal/cryptox"
	"github.com/dmitrijs2005/quizkeeper/internal/logging"
)

// Mode is the lifecycle state seen by the front end.
type Mode int

const (
	// ModeSetup: no vault is stored yet.
	ModeSetup Mode = iota
	// ModeLocked: a vault is stored but not open.
	ModeLocked
	// ModeUnlocked: the document and password are held in memory.
	ModeUnlocked
)

func (m Mode) String() string {
	switch m {
	case ModeSetup:
		return "setup"
	case ModeLocked:
		return "locked"
	default:
		return "unlocked"
	}
}

// VaultService owns the decrypted document for the duration of a session.
//
// Contract:
//   - Setup: create and seal a new vault; fails if one exists.
//   - Unlock: open the stored vault; a wrong password is common.ErrAuthentication.
//   - AutoUnlock: try the remembered password; never fails loudly.
//   - Lock: drop password and document; pending debounced saves are cancelled.
//   - Wipe: erase the vault and remembered password, then lock.
//   - Update: mutate the document and schedule a debounced save.
//   - Flush: save now.
type VaultService interface {
	Mode(ctx context.Context) (Mode, error)
	Setup(ctx context.Context, password, confirm []byte, remember bool) error
	Unlock(ctx context.Context, password []byte, remember bool) error
	AutoUnlock(ctx context.Context) bool
	Lock(ctx context.Context)
	Wipe(ctx context.Context) error
	Forget(ctx context.Context) error
	HasRemembered(ctx context.Context) (bool, error)
	IsUnlocked() bool
	View(fn func(*models.Document) error) error
	Update(fn func(*models.Document) error, msg string) error
	Flush(ctx context.Context) error
}

type rememberMode int

const (
	rememberOff rememberMode = iota
	rememberOn
	rememberKeep
)

func toRememberMode(b bool) rememberMode {
	if b {
		return rememberOn
	}
	return rememberOff
}

// session is the in-memory state between unlock and lock.
type session struct {
	password []byte
	doc      *models.Document
}

func (s *session) wipe() {
	common.WipeByteArray(s.password)
	s.password = nil
	s.doc = nil
}

type vaultService struct {
	repo    records.Repository
	cipher  *cryptox.Cipher
	keyring *keyring.Keyring
	sched   *persist.Scheduler
	log     logging.Logger

	mu   sync.Mutex
	sess *session
}

// VaultOption configures NewVaultService.
type VaultOption func(*vaultOptions)

type vaultOptions struct {
	sched []persist.Option
}

// WithSaveDelay sets the debounce delay before a save.
func WithSaveDelay(d time.Duration) VaultOption {
	return func(o *vaultOptions) { o.sched = append(o.sched, persist.WithDelay(d)) }
}

// WithClock replaces the timer source used for debounced saves.
func WithClock(c persist.Clock) VaultOption {
	return func(o *vaultOptions) { o.sched = append(o.sched, persist.WithClock(c)) }
}

// WithSaveObserver is notified of every save attempt.
func WithSaveObserver(fn persist.Observer) VaultOption {
	return func(o *vaultOptions) { o.sched = append(o.sched, persist.WithObserver(fn)) }
}

// NewVaultService constructs a VaultService over the given record store.
func NewVaultService(repo records.Repository, cipher *cryptox.Cipher, log logging.Logger, opts ...VaultOption) VaultService {
	var o vaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	v := &vaultService{
		repo:    repo,
		cipher:  cipher,
		keyring: keyring.New(repo, cipher, log),
		log:     log.With("component", "vault"),
	}
	v.sched = persist.New(v.save, append(o.sched, persist.WithLogger(log))...)
	return v
}

func (v *vaultService) Mode(ctx context.Context) (Mode, error) {
	if v.IsUnlocked() {
		return ModeUnlocked, nil
	}
	raw, err := v.repo.Get(ctx, common.RecordVault)
	if err != nil {
		return ModeLocked, err
	}
	if raw == nil {
		return ModeSetup, nil
	}
	return ModeLocked, nil
}

func (v *vaultService) IsUnlocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sess != nil
}

// Setup seals a default document under password and opens it. Leading
// and trailing whitespace in the password is ignored.
func (v *vaultService) Setup(ctx context.Context, password, confirm []byte, remember bool) error {
	pw := bytes.TrimSpace(password)
	if len(pw) == 0 {
		return common.ErrPasswordRequired
	}
	if !bytes.Equal(pw, bytes.TrimSpace(confirm)) {
		return common.ErrPasswordMismatch
	}

	raw, err := v.repo.Get(ctx, common.RecordVault)
	if err != nil {
		return err
	}
	if raw != nil {
		return common.ErrVaultExists
	}

	doc := models.NewDocument()
	env, err := v.cipher.Seal(doc, pw)
	if err != nil {
		return err
	}
	if err := v.store(ctx, env); err != nil {
		return err
	}

	v.open(pw, doc)
	v.log.Info(ctx, "vault created")
	v.applyRemember(ctx, pw, toRememberMode(remember))
	return nil
}

// Unlock opens the stored vault. Wrong password and corrupted ciphertext
// both yield common.ErrAuthentication; a structurally broken record yields
// common.ErrFormat.
func (v *vaultService) Unlock(ctx context.Context, password []byte, remember bool) error {
	return v.unlock(ctx, bytes.TrimSpace(password), toRememberMode(remember))
}

func (v *vaultService) unlock(ctx context.Context, pw []byte, mode rememberMode) error {
	if len(pw) == 0 {
		return common.ErrPasswordRequired
	}
	raw, err := v.repo.Get(ctx, common.RecordVault)
	if err != nil {
		return err
	}
	if raw == nil {
		return common.ErrNoVault
	}

	env, err := cryptox.ParseEnvelope(raw)
	if err != nil {
		return err
	}
	plaintext, err := v.cipher.OpenBytes(env, pw)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	doc, err := models.DecodeDocument(plaintext, env.Version)
	if err != nil {
		return err
	}

	v.open(pw, doc)
	v.log.Info(ctx, "vault unlocked", "quizzes", len(doc.Quizzes))
	v.applyRemember(ctx, pw, mode)
	return nil
}

// AutoUnlock tries the remembered password. Any failure leaves the vault
// locked and is only logged. A remembered password the vault rejects is
// forgotten.
func (v *vaultService) AutoUnlock(ctx context.Context) bool {
	if mode, err := v.Mode(ctx); err != nil || mode != ModeLocked {
		return false
	}
	pw, ok, err := v.keyring.Recall(ctx)
	if err != nil {
		v.log.Warn(ctx, "auto-unlock: reading remembered password failed", "error", err)
		return false
	}
	if !ok {
		return false
	}
	defer common.WipeByteArray(pw)

	if err := v.unlock(ctx, pw, rememberKeep); err != nil {
		v.log.Warn(ctx, "auto-unlock failed, falling back to manual unlock", "error", err)
		if errors.Is(err, common.ErrAuthentication) {
			if err := v.keyring.Forget(ctx); err != nil {
				v.log.Warn(ctx, "auto-unlock: clearing remembered password failed", "error", err)
			}
		}
		return false
	}
	return true
}

func (v *vaultService) applyRemember(ctx context.Context, pw []byte, mode rememberMode) {
	var err error
	switch mode {
	case rememberOn:
		err = v.keyring.Remember(ctx, pw)
	case rememberOff:
		err = v.keyring.Forget(ctx)
	}
	if err != nil {
		v.log.Warn(ctx, "updating remembered password failed", "error", err)
	}
}

func (v *vaultService) open(pw []byte, doc *models.Document) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sess != nil {
		v.sess.wipe()
	}
	v.sess = &session{password: append([]byte(nil), pw...), doc: doc}
}

// Lock discards the session. It does not flush; a debounced save that has
// not started yet is dropped, one already writing completes.
func (v *vaultService) Lock(ctx context.Context) {
	v.sched.Cancel()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sess == nil {
		return
	}
	v.sess.wipe()
	v.sess = nil
	v.log.Info(ctx, "vault locked")
}

// Wipe erases the vault and remembered password in one transaction and
// locks. The device key is kept.
func (v *vaultService) Wipe(ctx context.Context) error {
	v.Lock(ctx)
	v.sched.Wait()
	if err := v.repo.DeleteMany(ctx, common.RecordVault, common.RecordRemember); err != nil {
		return err
	}
	v.log.Info(ctx, "vault wiped")
	return nil
}

func (v *vaultService) Forget(ctx context.Context) error {
	return v.keyring.Forget(ctx)
}

func (v *vaultService) HasRemembered(ctx context.Context) (bool, error) {
	return v.keyring.HasRemembered(ctx)
}

// View runs fn with read access to the document.
func (v *vaultService) View(fn func(*models.Document) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sess == nil {
		return common.ErrLocked
	}
	return fn(v.sess.doc)
}

// Update runs fn with write access and, if it succeeds, schedules a save.
// msg is reported with that save.
func (v *vaultService) Update(fn func(*models.Document) error, msg string) error {
	v.mu.Lock()
	if v.sess == nil {
		v.mu.Unlock()
		return common.ErrLocked
	}
	err := fn(v.sess.doc)
	v.mu.Unlock()
	if err != nil {
		return err
	}
	v.sched.MarkDirty(msg)
	return nil
}

// Flush saves the document now, cancelling any pending debounced save.
func (v *vaultService) Flush(ctx context.Context) error {
	if !v.IsUnlocked() {
		return common.ErrLocked
	}
	return v.sched.FlushNow(ctx)
}

// save snapshots the document under the lock and seals it outside.
func (v *vaultService) save(ctx context.Context) error {
	v.mu.Lock()
	if v.sess == nil {
		v.mu.Unlock()
		return common.ErrLocked
	}
	plaintext, err := json.Marshal(v.sess.doc)
	pw := append([]byte(nil), v.sess.password...)
	v.mu.Unlock()

	defer common.WipeByteArray(pw)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	env, err := v.cipher.SealBytes(plaintext, pw)
	if err != nil {
		return err
	}
	return v.store(ctx, env)
}

func (v *vaultService) store(ctx context.Context, env *cryptox.Envelope) error {
	b, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrFormat, err)
	}
	return v.repo.Set(ctx, common.RecordVault, b)
}
