package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	report(err error)

	Setup(ctx context.Context) error
	Unlock(ctx context.Context) error
	Forget(ctx context.Context) error
	Wipe(ctx context.Context) error
	Lock(ctx context.Context) error
	Save(ctx context.Context) error
	Exit(ctx context.Context) bool
	Close(ctx context.Context)

	Generate(ctx context.Context) error
	More(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	Show(ctx context.Context) error
	Answer(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Goto(ctx context.Context, args []string) error
	Submit(ctx context.Context) error
	Score(ctx context.Context) error
	Results(ctx context.Context) error
	Copy(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Settings(ctx context.Context) error
	Set(ctx context.Context, args []string) error
}

const (
	lockedHelp   = "Available commands: setup, unlock, forget, wipe, exit"
	unlockedHelp = "Available commands: generate, more [n], (l)ist, open <n|id>, show, answer <letter|n>, " +
		"next, prev, goto <n>, submit, score, results, copy, delete <n|id>, settings, set <field> <value>, " +
		"save, lock, forget, wipe, exit"
)

// unlockedOnly lists the commands that need an open vault.
var unlockedOnly = map[string]bool{
	"generate": true, "more": true, "l": true, "list": true, "open": true, "show": true,
	"answer": true, "a": true, "next": true, "n": true, "prev": true, "p": true, "goto": true,
	"submit": true, "score": true, "results": true, "copy": true, "delete": true,
	"settings": true, "set": true, "save": true, "lock": true,
}

// runREPL starts a simple read–eval–print loop for the QuizKeeper CLI.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF (after a final save) or when the
// user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Locked:
//	  - help              show available commands
//	  - setup             create a new vault
//	  - unlock            open the vault with the master password
//	  - forget            clear the remembered password
//	  - wipe              erase the vault (type WIPE to confirm)
//	  - exit | quit       leave the program
//
//	Unlocked:
//	  - generate          create a quiz from pasted text
//	  - more [n]          add questions to the current quiz
//	  - list              list quizzes, newest first
//	  - open <n|id>       make a quiz current
//	  - show              show the current question
//	  - answer <a|1>      select a choice
//	  - next/prev/goto n  move between questions
//	  - submit            grade and freeze the quiz
//	  - score, results    show the grade and per-question outcome
//	  - copy              start over on a fresh copy
//	  - delete <n|id>     remove a quiz
//	  - settings, set     show and change settings
//	  - save              write the vault now
//	  - lock              save and lock
//	  - exit | quit       save and leave the program
//
// Errors returned by command handlers are reported through a.report; the
// loop itself keeps running.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("qk (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			printlnFn()
			a.Close(ctx)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if unlockedOnly[cmd] && !a.isUnlocked() {
			a.report(common.ErrLocked)
			continue
		}

		switch cmd {
		case "help", "?":
			if a.isUnlocked() {
				printlnFn(unlockedHelp)
			} else {
				printlnFn(lockedHelp)
			}

		case "setup":
			a.report(a.Setup(ctx))
		case "unlock":
			a.report(a.Unlock(ctx))
		case "forget":
			a.report(a.Forget(ctx))
		case "wipe":
			a.report(a.Wipe(ctx))
		case "lock":
			a.report(a.Lock(ctx))
		case "save":
			a.report(a.Save(ctx))

		case "generate":
			a.report(a.Generate(ctx))
		case "more":
			a.report(a.More(ctx, args))
		case "l", "list":
			a.report(a.List(ctx))
		case "open":
			a.report(a.Open(ctx, args))
		case "show":
			a.report(a.Show(ctx))
		case "a", "answer":
			a.report(a.Answer(ctx, args))
		case "n", "next":
			a.report(a.Next(ctx))
		case "p", "prev":
			a.report(a.Prev(ctx))
		case "goto":
			a.report(a.Goto(ctx, args))
		case "submit":
			a.report(a.Submit(ctx))
		case "score":
			a.report(a.Score(ctx))
		case "results":
			a.report(a.Results(ctx))
		case "copy":
			a.report(a.Copy(ctx))
		case "delete":
			a.report(a.Delete(ctx, args))
		case "settings":
			a.report(a.Settings(ctx))
		case "set":
			a.report(a.Set(ctx, args))

		case "exit", "quit":
			if a.Exit(ctx) {
				printlnFn("Bye!")
				return
			}

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
