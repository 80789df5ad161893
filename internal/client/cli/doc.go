// Package cli provides the interactive QuizKeeper command-line client.
//
// It drives the vault lifecycle (setup, unlock, lock, wipe) and the quiz
// workflows (generate, answer, submit, review) through a simple REPL.
// Typical flow: try the remembered password, otherwise prompt for setup or
// unlock, then execute user commands until exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
