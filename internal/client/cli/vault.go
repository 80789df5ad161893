package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quizkeeper/internal/client/services"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// getSimpleText, getPassword, getMultiline and getConfirm are indirections
// used to facilitate testing. They point to interactive input helpers and
// can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getConfirm    = GetConfirm
)

const wipeWord = "WIPE"

// Setup asks for a new master password twice and creates the vault.
//
// Both password slices are wiped before returning.
func (a *App) Setup(ctx context.Context) error {
	password, err := getPassword("Choose a master password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat the master password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	remember, err := getConfirm(a.reader, "Remember the password on this device?", a.out)
	if err != nil {
		return err
	}

	if err := a.vault.Setup(ctx, password, confirm, remember); err != nil {
		return err
	}
	a.currentID = ""
	fmt.Fprintln(a.out, "Vault created. Set your API key with: set apikey <key>")
	return nil
}

// Unlock prompts for the master password and opens the vault. Declining
// "remember" clears a previously remembered password.
func (a *App) Unlock(ctx context.Context) error {
	if a.vault.IsUnlocked() {
		fmt.Fprintln(a.out, "Already unlocked.")
		return nil
	}
	password, err := getPassword("Master password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := getConfirm(a.reader, "Remember the password on this device?", a.out)
	if err != nil {
		return err
	}

	if err := a.vault.Unlock(ctx, password, remember); err != nil {
		return err
	}
	a.currentID = ""
	fmt.Fprintln(a.out, "Unlocked.")
	return nil
}

// Forget clears the remembered password.
func (a *App) Forget(ctx context.Context) error {
	if err := a.vault.Forget(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Remembered password cleared.")
	return nil
}

// Wipe erases the vault and the remembered password after the user types
// the confirmation word.
func (a *App) Wipe(ctx context.Context) error {
	answer, err := getSimpleText(a.reader,
		fmt.Sprintf("This erases the vault and every quiz in it. Type %s to confirm", wipeWord), a.out)
	if err != nil {
		return err
	}
	if answer != wipeWord {
		fmt.Fprintln(a.out, "Wipe cancelled.")
		return nil
	}
	if err := a.vault.Wipe(ctx); err != nil {
		return err
	}
	a.currentID = ""
	fmt.Fprintln(a.out, "Local data wiped. Run setup to start again.")
	return nil
}

// Save writes the vault now.
func (a *App) Save(ctx context.Context) error {
	if err := a.vault.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved.")
	return nil
}

// Lock saves and locks. If the save fails the user decides whether to
// discard unsaved changes.
func (a *App) Lock(ctx context.Context) error {
	if !a.flushOrConfirm(ctx, "Lock anyway and discard unsaved changes?") {
		return nil
	}
	a.vault.Lock(ctx)
	a.currentID = ""
	fmt.Fprintln(a.out, "Locked.")
	return nil
}

// Exit saves an open vault and reports whether the program may quit.
func (a *App) Exit(ctx context.Context) bool {
	if !a.vault.IsUnlocked() {
		return true
	}
	if !a.flushOrConfirm(ctx, "Exit anyway and discard unsaved changes?") {
		return false
	}
	a.vault.Lock(ctx)
	return true
}

// Close is Exit without a question, used when input ends.
func (a *App) Close(ctx context.Context) {
	if !a.vault.IsUnlocked() {
		return
	}
	a.report(a.vault.Flush(ctx))
	a.vault.Lock(ctx)
}

func (a *App) flushOrConfirm(ctx context.Context, question string) bool {
	err := a.vault.Flush(ctx)
	if err == nil {
		return true
	}
	fmt.Fprintln(a.out, services.StatusText(err))
	ok, cerr := getConfirm(a.reader, question, a.out)
	return cerr == nil && ok
}
