package services

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/client/generator"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// StatusText turns a service error into the line shown to the user.
// Wrong password and corrupted ciphertext read the same on purpose.
func StatusText(err error) string {
	var apiErr *generator.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrAuthentication):
		return "Wrong password."
	case errors.Is(err, common.ErrUnsupportedVersion):
		return "Vault was written by an unsupported format version and cannot be opened."
	case errors.Is(err, common.ErrFormat):
		return "Vault record is corrupt and cannot be opened."
	case errors.Is(err, common.ErrStorage):
		return "Could not access local storage. Changes are kept in memory; run save to retry."
	case errors.Is(err, common.ErrPasswordRequired):
		return "Password required."
	case errors.Is(err, common.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, common.ErrLocked):
		return "Vault is locked."
	case errors.Is(err, common.ErrNoVault):
		return "No vault yet. Run setup first."
	case errors.Is(err, common.ErrVaultExists):
		return "A vault already exists. Unlock it, or wipe it to start over."
	case errors.Is(err, common.ErrNotFound):
		return "No such quiz."
	case errors.Is(err, common.ErrQuizSubmitted):
		return "Submitted. Copy quiz to retry."
	case errors.Is(err, generator.ErrNoAPIKey):
		return "API key is blank. Set it with: set apikey <key>"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, common.ErrValidation):
		return capitalize(strings.ReplaceAll(err.Error(), common.ErrValidation.Error()+": ", "")) + "."
	default:
		return capitalize(err.Error()) + "."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
