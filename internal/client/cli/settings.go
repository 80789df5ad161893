package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
)

func (a *App) Settings(ctx context.Context) error {
	return a.vault.View(func(d *models.Document) error {
		renderSettings(a.out, d.Settings)
		return nil
	})
}

// Set changes one setting: set <field> <value>. The value may contain
// spaces; numbers are clamped to their valid range.
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 2 && !(len(args) == 1 && strings.EqualFold(args[0], "apikey")) {
		printlnFn("Usage: set <field> <value>  (fields: " + strings.Join(models.SettingFields, ", ") + ")")
		return nil
	}
	field := args[0]
	value := strings.Join(args[1:], " ")
	err := a.vault.Update(func(d *models.Document) error {
		return d.Settings.Set(field, value)
	}, "Settings saved.")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Settings saved.")
	return a.Settings(ctx)
}
