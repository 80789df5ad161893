package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
	"github.com/dmitrijs2005/quizkeeper/internal/client/persist"
	"github.com/dmitrijs2005/quizkeeper/internal/client/services"
	"github.com/dmitrijs2005/quizkeeper/internal/logging"
)

// App is the interactive front end over the vault and quiz services.
type App struct {
	vault   services.VaultService
	quizzes services.QuizService
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time

	// currentID is the quiz the player commands act on. Empty means the
	// most recently updated quiz.
	currentID string
}

// NewApp wires the front end to its services. Prompts read from in and all
// output goes to out.
func NewApp(vault services.VaultService, quizzes services.QuizService, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		vault:   vault,
		quizzes: quizzes,
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
		now:     time.Now,
	}
}

// Run tries the remembered password, then runs the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to QuizKeeper (type 'help' for commands)")
	a.start(ctx)
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
}

func (a *App) start(ctx context.Context) {
	if a.vault.AutoUnlock(ctx) {
		fmt.Fprintln(a.out, "Unlocked with the remembered password.")
		return
	}
	mode, err := a.vault.Mode(ctx)
	if err != nil {
		a.log.Warn(ctx, "reading vault state failed", "error", err)
		a.report(err)
		return
	}
	switch mode {
	case services.ModeSetup:
		fmt.Fprintln(a.out, "No vault yet. Run setup to create one.")
	case services.ModeLocked:
		fmt.Fprintln(a.out, "Vault is locked. Run unlock.")
	}
}

func (a *App) isUnlocked() bool {
	return a.vault.IsUnlocked()
}

func (a *App) status(ctx context.Context) string {
	mode, err := a.vault.Mode(ctx)
	if err != nil {
		return "error"
	}
	if mode != services.ModeUnlocked {
		return mode.String()
	}
	var title string
	_ = a.vault.View(func(d *models.Document) error {
		if q := a.current(d); q != nil {
			title = q.Title
		}
		return nil
	})
	if title == "" {
		return mode.String()
	}
	return fmt.Sprintf("%s: %s", mode, title)
}

// report prints the user-facing text for err.
func (a *App) report(err error) {
	if err != nil {
		fmt.Fprintln(a.out, services.StatusText(err))
	}
}

// SaveReporter returns a save observer that tells the user about failed
// background saves. Successful and explicitly flushed saves stay quiet since
// their callers report them.
func SaveReporter(w io.Writer) persist.Observer {
	var mu sync.Mutex
	return func(r persist.Result) {
		if r.Err == nil || r.Flushed {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "\nSave failed: %s\n", services.StatusText(r.Err))
	}
}
