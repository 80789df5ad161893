package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// DefaultQuizTitle is used when neither the model nor the user names a quiz.
const DefaultQuizTitle = "Quiz"

// RawQuiz is the loosely typed quiz returned by the language model.
type RawQuiz struct {
	Title     LooseString   `json:"title"`
	Questions []RawQuestion `json:"questions"`
}

// RawQuestion is one model-produced question before validation.
type RawQuestion struct {
	Q           LooseString   `json:"q"`
	Choices     []LooseString `json:"choices"`
	AnswerIndex LooseIndex    `json:"answer_index"`
	Explanation LooseString   `json:"explanation"`
}

// LooseString accepts any JSON scalar and keeps its text form.
// null decodes to the empty string.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = LooseString(v)
	default:
		*s = LooseString(b)
	}
	return nil
}

func (s LooseString) Trim() string { return strings.TrimSpace(string(s)) }

// LooseIndex accepts a number or a numeric string. Anything else is invalid.
type LooseIndex struct {
	N     int
	Valid bool
}

func (x *LooseIndex) UnmarshalJSON(b []byte) error {
	*x = LooseIndex{}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			x.N, x.Valid = int(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Trunc(f)))), true
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		x.N, x.Valid = leadingInt(s)
	}
	return nil
}

func (x LooseIndex) MarshalJSON() ([]byte, error) {
	if !x.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(x.N)
}

// QuizOptions carries the generation parameters recorded on a new quiz.
type QuizOptions struct {
	Difficulty   Difficulty
	Title        string
	SourceText   string
	ChoicesCount int
}

// NormalizeQuestion validates a raw question against the quiz choice count.
// Blank choices are dropped before counting. An invalid answer index
// becomes 0; an out-of-range one is clamped.
func NormalizeQuestion(raw RawQuestion, choicesCount int) (*Question, error) {
	text := raw.Q.Trim()
	if text == "" {
		return nil, fmt.Errorf("%w: bad model output: missing question text", common.ErrValidation)
	}
	choices := make([]string, 0, len(raw.Choices))
	for _, c := range raw.Choices {
		if t := c.Trim(); t != "" {
			choices = append(choices, t)
		}
	}
	if len(choices) != choicesCount {
		return nil, fmt.Errorf("%w: bad model output: choices must be exactly %d, got %d",
			common.ErrValidation, choicesCount, len(choices))
	}
	ai := 0
	if raw.AnswerIndex.Valid {
		ai = ClampInt(raw.AnswerIndex.N, 0, len(choices)-1)
	}
	return &Question{
		ID:          uuid.NewString(),
		Q:           text,
		Choices:     choices,
		AnswerIndex: ai,
		Explanation: raw.Explanation.Trim(),
	}, nil
}

// NormalizeQuestions validates a batch; any bad question rejects the batch.
func NormalizeQuestions(raws []RawQuestion, choicesCount int) ([]*Question, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: bad model output: missing questions array", common.ErrValidation)
	}
	out := make([]*Question, 0, len(raws))
	for i, r := range raws {
		q, err := NormalizeQuestion(r, choicesCount)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// NormalizeQuiz builds a new unsubmitted quiz from model output.
func NormalizeQuiz(raw RawQuiz, opts QuizOptions, now time.Time) (*Quiz, error) {
	choices := ClampChoices(opts.ChoicesCount)
	qs, err := NormalizeQuestions(raw.Questions, choices)
	if err != nil {
		return nil, err
	}
	title := raw.Title.Trim()
	if title == "" {
		title = strings.TrimSpace(opts.Title)
	}
	if title == "" {
		title = DefaultQuizTitle
	}
	diff := opts.Difficulty
	if !diff.Valid() {
		diff = DifficultyMedium
	}
	return &Quiz{
		ID:           uuid.NewString(),
		Title:        title,
		Difficulty:   diff,
		ChoicesCount: choices,
		SourceText:   opts.SourceText,
		CreatedAt:    now,
		UpdatedAt:    now,
		Questions:    qs,
	}, nil
}
