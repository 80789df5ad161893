// Package cryptox implements the vault's cryptography: PBKDF2-SHA256 key
// derivation, AES-256-GCM envelopes for the whole document and raw-key
// wrapping for short secrets such as a remembered password.
//
// Every Seal and Wrap draws a fresh random nonce (and, for envelopes, a fresh
// salt); nothing is derived from content. Decryption failures caused by a
// wrong password or modified bytes are both reported as
// common.ErrAuthentication, structural problems as common.ErrFormat.
package cryptox
