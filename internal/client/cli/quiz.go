package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
	"github.com/dmitrijs2005/quizkeeper/internal/client/services"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

var errNoQuiz = fmt.Errorf("%w: no quiz yet, run generate", common.ErrValidation)

// current returns the selected quiz, falling back to the latest one.
func (a *App) current(d *models.Document) *models.Quiz {
	if a.currentID != "" {
		if q := d.FindQuiz(a.currentID); q != nil {
			return q
		}
	}
	return d.Latest()
}

// withQuiz runs fn on the current quiz; with a non-empty msg the change is
// saved.
func (a *App) withQuiz(msg string, fn func(d *models.Document, q *models.Quiz) error) error {
	run := func(d *models.Document) error {
		q := a.current(d)
		if q == nil {
			return errNoQuiz
		}
		a.currentID = q.ID
		return fn(d, q)
	}
	if msg == "" {
		return a.vault.View(run)
	}
	return a.vault.Update(run, msg)
}

func (a *App) showCurrent() error {
	return a.withQuiz("", func(d *models.Document, q *models.Quiz) error {
		renderQuestion(a.out, q, d.Settings.ImmediateFeedback)
		return nil
	})
}

// Generate collects the source text and options and asks the model for a
// new quiz, which becomes current.
func (a *App) Generate(ctx context.Context) error {
	var p services.GenerateParams
	var err error

	if p.SourceText, err = getMultiline(a.reader, "Paste the source text", a.out); err != nil {
		return err
	}
	if strings.TrimSpace(p.SourceText) == "" {
		return fmt.Errorf("%w: source text is empty", common.ErrValidation)
	}
	if p.Title, err = getSimpleText(a.reader, "Title (optional)", a.out); err != nil {
		return err
	}
	count, err := getSimpleText(a.reader,
		fmt.Sprintf("Number of questions (%d-%d, blank for %d)",
			models.MinQuestionCount, models.MaxQuestionCount, models.DefaultQuestionCount), a.out)
	if err != nil {
		return err
	}
	if count != "" {
		p.Count = models.ParseClampInt(count, models.MinQuestionCount, models.MaxQuestionCount, models.DefaultQuestionCount)
	}
	choices, err := getSimpleText(a.reader,
		fmt.Sprintf("Choices per question (%d-%d, blank for settings)", models.MinChoices, models.MaxChoices), a.out)
	if err != nil {
		return err
	}
	if choices != "" {
		p.Choices = models.ParseClampInt(choices, models.MinChoices, models.MaxChoices, models.MinChoices)
	}
	diff, err := getSimpleText(a.reader, "Difficulty (easy, medium, hard, very_hard; blank for settings)", a.out)
	if err != nil {
		return err
	}
	if diff != "" {
		d, ok := models.ParseDifficulty(diff)
		if !ok {
			return fmt.Errorf("%w: unknown difficulty %q", common.ErrValidation, diff)
		}
		p.Difficulty = d
	}

	fmt.Fprintln(a.out, "Generating...")
	quiz, err := a.quizzes.Generate(ctx, p)
	if quiz != nil {
		a.currentID = quiz.ID
		fmt.Fprintf(a.out, "Generated %q with %d questions.\n", quiz.Title, len(quiz.Questions))
	}
	if err != nil {
		return err
	}
	return a.showCurrent()
}

// More adds questions to the current quiz. The optional argument is the
// number of questions.
func (a *App) More(ctx context.Context, args []string) error {
	count := 0
	if len(args) > 0 {
		count = models.ParseClampInt(args[0], models.MinAddCount, models.MaxAddCount, models.DefaultAddCount)
	}
	var id string
	if err := a.withQuiz("", func(_ *models.Document, q *models.Quiz) error {
		id = q.ID
		return nil
	}); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Generating...")
	n, err := a.quizzes.AddMore(ctx, id, count)
	if n > 0 {
		fmt.Fprintf(a.out, "Added %d question(s).\n", n)
	}
	return err
}

// List prints the library, newest first.
func (a *App) List(ctx context.Context) error {
	return a.vault.View(func(d *models.Document) error {
		cur := ""
		if q := a.current(d); q != nil {
			cur = q.ID
		}
		renderList(a.out, d.Sorted(), cur)
		return nil
	})
}

// Open makes the referenced quiz current and shows its question.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: open <n|id>")
		return nil
	}
	err := a.vault.View(func(d *models.Document) error {
		q, err := d.Resolve(args[0])
		if err != nil {
			return err
		}
		a.currentID = q.ID
		return nil
	})
	if err != nil {
		return err
	}
	return a.showCurrent()
}

func (a *App) Show(ctx context.Context) error {
	return a.showCurrent()
}

// Answer selects a choice on the current question. With immediate feedback
// on, the outcome is shown right away.
func (a *App) Answer(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: answer <letter|n>")
		return nil
	}
	return a.withQuiz("Answer saved.", func(d *models.Document, q *models.Quiz) error {
		cur := q.Current()
		if cur == nil {
			return fmt.Errorf("%w: quiz has no questions", common.ErrValidation)
		}
		i, ok := parseChoice(args[0], len(cur.Choices))
		if !ok {
			return fmt.Errorf("%w: choose %s-%s", common.ErrValidation,
				choiceLetter(0), choiceLetter(len(cur.Choices)-1))
		}
		if err := q.SelectAnswer(i, a.now()); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Selected %s.\n", choiceLetter(i))
		if d.Settings.ImmediateFeedback {
			renderFeedback(a.out, cur)
		}
		return nil
	})
}

func (a *App) move(fn func(q *models.Quiz)) error {
	err := a.withQuiz("Progress saved.", func(_ *models.Document, q *models.Quiz) error {
		fn(q)
		return nil
	})
	if err != nil {
		return err
	}
	return a.showCurrent()
}

func (a *App) Next(ctx context.Context) error {
	return a.move(func(q *models.Quiz) { q.Next(a.now()) })
}

func (a *App) Prev(ctx context.Context) error {
	return a.move(func(q *models.Quiz) { q.Prev(a.now()) })
}

// Goto jumps to a 1-based question number.
func (a *App) Goto(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: goto <n>")
		return nil
	}
	n := models.ParseClampInt(args[0], 1, models.MaxQuestionCount*models.MaxAddCount, 1)
	return a.move(func(q *models.Quiz) { q.GoTo(n-1, a.now()) })
}

// Submit grades and freezes the current quiz, asking first when questions
// are unanswered.
func (a *App) Submit(ctx context.Context) error {
	var unanswered int
	var submitted bool
	if err := a.withQuiz("", func(_ *models.Document, q *models.Quiz) error {
		unanswered = len(q.Questions) - q.AnsweredCount()
		submitted = q.Submitted
		return nil
	}); err != nil {
		return err
	}
	if submitted {
		return common.ErrQuizSubmitted
	}
	if unanswered > 0 {
		ok, err := getConfirm(a.reader, fmt.Sprintf("%d question(s) unanswered. Submit anyway?", unanswered), a.out)
		if err != nil || !ok {
			return err
		}
	}

	var g models.Grade
	if err := a.withQuiz("Submitted.", func(_ *models.Document, q *models.Quiz) error {
		var err error
		g, err = q.Submit(a.now())
		return err
	}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Submitted.")
	renderGrade(a.out, g)
	return nil
}

// Score prints the grade: frozen once submitted, live before.
func (a *App) Score(ctx context.Context) error {
	return a.withQuiz("", func(_ *models.Document, q *models.Quiz) error {
		if !q.Submitted {
			faintColor.Fprintln(a.out, "Not submitted yet.")
		}
		renderGrade(a.out, q.Score())
		return nil
	})
}

// Results prints the per-question outcome. Correct answers are only shown
// after submission or with immediate feedback on.
func (a *App) Results(ctx context.Context) error {
	return a.withQuiz("", func(d *models.Document, q *models.Quiz) error {
		if !q.Submitted && !d.Settings.ImmediateFeedback {
			return fmt.Errorf("%w: submit the quiz to see results", common.ErrValidation)
		}
		renderResults(a.out, q)
		return nil
	})
}

// Copy duplicates the current quiz with answers cleared and makes the copy
// current.
func (a *App) Copy(ctx context.Context) error {
	var title string
	err := a.withQuiz("Copied.", func(d *models.Document, q *models.Quiz) error {
		c := q.Clone(a.now())
		d.AddQuiz(c)
		a.currentID = c.ID
		title = c.Title
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %q.\n", title)
	return nil
}

// Delete removes a quiz after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <n|id>")
		return nil
	}
	var id, title string
	if err := a.vault.View(func(d *models.Document) error {
		q, err := d.Resolve(args[0])
		if err != nil {
			return err
		}
		id, title = q.ID, q.Title
		return nil
	}); err != nil {
		return err
	}

	ok, err := getConfirm(a.reader, fmt.Sprintf("Delete %q?", title), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.vault.Update(func(d *models.Document) error {
		if !d.RemoveQuiz(id) {
			return fmt.Errorf("quiz %q: %w", id, common.ErrNotFound)
		}
		return nil
	}, "Deleted."); err != nil {
		return err
	}
	if a.currentID == id {
		a.currentID = ""
	}
	fmt.Fprintf(a.out, "Deleted %q.\n", title)
	return nil
}
