package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/quizkeeper/internal/client/generator"
	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
	"github.com/dmitrijs2005/quizkeeper/internal/logging"
)

// QuizService creates quizzes and extends them through the model.
//
// The model call happens without holding the document, so the vault stays
// usable while waiting. Results are saved immediately rather than debounced.
// Validation failures leave the document untouched.
type QuizService interface {
	Generate(ctx context.Context, p GenerateParams) (*models.Quiz, error)
	AddMore(ctx context.Context, quizID string, count int) (int, error)
}

// GenerateParams are the user inputs for a new quiz. Zero values fall back
// to the vault settings (difficulty, choices) or built-in defaults (count).
type GenerateParams struct {
	SourceText string
	Title      string
	Count      int
	Choices    int
	Difficulty models.Difficulty
}

type quizService struct {
	vault VaultService
	gen   generator.Client
	log   logging.Logger
	now   func() time.Time
}

func NewQuizService(vault VaultService, gen generator.Client, log logging.Logger) QuizService {
	return &quizService{vault: vault, gen: gen, log: log.With("component", "quiz"), now: time.Now}
}

func (s *quizService) settings() (models.Settings, error) {
	var st models.Settings
	err := s.vault.View(func(d *models.Document) error {
		st = d.Settings
		return nil
	})
	return st, err
}

func (s *quizService) Generate(ctx context.Context, p GenerateParams) (*models.Quiz, error) {
	text := strings.TrimSpace(p.SourceText)
	if text == "" {
		return nil, fmt.Errorf("%w: source text is empty", common.ErrValidation)
	}
	st, err := s.settings()
	if err != nil {
		return nil, err
	}

	count := models.DefaultQuestionCount
	if p.Count != 0 {
		count = models.ClampQuestionCount(p.Count)
	}
	choices := st.DefaultChoices
	if p.Choices != 0 {
		choices = p.Choices
	}
	choices = models.ClampChoices(choices)
	diff := p.Difficulty
	if !diff.Valid() {
		diff = st.Difficulty
	}

	req := generator.NewRequest(st, generator.SystemInstructions(), generator.GeneratePrompt(generator.GenerateInput{
		SourceText: text,
		Count:      count,
		Difficulty: diff,
		Title:      p.Title,
		Choices:    choices,
	}))
	s.log.Info(ctx, "generating quiz", "count", count, "choices", choices, "difficulty", diff)
	raw, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	quiz, err := models.NormalizeQuiz(raw, models.QuizOptions{
		Difficulty:   diff,
		Title:        p.Title,
		SourceText:   text,
		ChoicesCount: choices,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.vault.Update(func(d *models.Document) error {
		d.AddQuiz(quiz)
		return nil
	}, "Generated."); err != nil {
		return nil, err
	}
	// the quiz stays in memory even if this save fails
	return quiz, s.vault.Flush(ctx)
}

// AddMore appends count new questions (clamped, 0 means the default) to an
// unsubmitted quiz and returns how many were added.
func (s *quizService) AddMore(ctx context.Context, quizID string, count int) (int, error) {
	if count == 0 {
		count = models.DefaultAddCount
	}
	count = models.ClampAddCount(count)

	var (
		st  models.Settings
		in  generator.AddMoreInput
		err error
	)
	err = s.vault.View(func(d *models.Document) error {
		q := d.FindQuiz(quizID)
		if q == nil {
			return fmt.Errorf("quiz %q: %w", quizID, common.ErrNotFound)
		}
		if q.Submitted {
			return common.ErrQuizSubmitted
		}
		st = d.Settings
		diff := q.Difficulty
		if !diff.Valid() {
			diff = st.Difficulty
		}
		choices := q.ChoicesCount
		if choices == 0 {
			choices = models.MinChoices
		}
		existing := make([]*models.Question, len(q.Questions))
		for i, qq := range q.Questions {
			existing[i] = &models.Question{Q: qq.Q}
		}
		in = generator.AddMoreInput{
			Existing:   existing,
			Count:      count,
			Difficulty: diff,
			Choices:    choices,
			SourceText: q.SourceText,
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	req := generator.NewRequest(st, generator.SystemInstructions(), generator.AddMorePrompt(in))
	s.log.Info(ctx, "adding questions", "quiz", quizID, "count", count)
	raw, err := s.gen.Generate(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(raw.Questions) == 0 {
		return 0, fmt.Errorf("%w: bad model output: no questions returned", common.ErrValidation)
	}
	qs, err := models.NormalizeQuestions(raw.Questions, in.Choices)
	if err != nil {
		return 0, err
	}

	err = s.vault.Update(func(d *models.Document) error {
		q := d.FindQuiz(quizID)
		if q == nil {
			return fmt.Errorf("quiz %q: %w", quizID, common.ErrNotFound)
		}
		return q.AppendQuestions(qs, s.now())
	}, fmt.Sprintf("Added %d question(s).", len(qs)))
	if err != nil {
		return 0, err
	}
	return len(qs), s.vault.Flush(ctx)
}
