package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// Question is one multiple-choice item.
type Question struct {
	ID              string   `json:"id"`
	Q               string   `json:"q"`
	Choices         []string `json:"choices"`
	AnswerIndex     int      `json:"answer_index"`
	Explanation     string   `json:"explanation"`
	UserAnswerIndex *int     `json:"user_answer_index"`
}

func (q *Question) Answered() bool { return q.UserAnswerIndex != nil }

// IsCorrect reports whether the selected choice matches the answer.
func (q *Question) IsCorrect() bool {
	return q.UserAnswerIndex != nil && *q.UserAnswerIndex == q.AnswerIndex
}

func (q *Question) clone() *Question {
	c := *q
	c.Choices = append([]string(nil), q.Choices...)
	if q.UserAnswerIndex != nil {
		v := *q.UserAnswerIndex
		c.UserAnswerIndex = &v
	}
	return &c
}

// Quiz is a generated quiz together with the user's progress on it.
type Quiz struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Difficulty   Difficulty  `json:"difficulty"`
	ChoicesCount int         `json:"choicesCount"`
	SourceText   string      `json:"sourceText"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	CurrentIndex int         `json:"currentIndex"`
	Submitted    bool        `json:"submitted"`
	SubmittedAt  *time.Time  `json:"submittedAt"`
	Grade        *Grade      `json:"grade"`
	Questions    []*Question `json:"questions"`
}

// Current returns the question under the cursor, or nil for an empty quiz.
func (q *Quiz) Current() *Question {
	if len(q.Questions) == 0 {
		return nil
	}
	return q.Questions[q.CurrentIndex]
}

// AnsweredCount is the number of questions with a selected choice.
func (q *Quiz) AnsweredCount() int {
	n := 0
	for _, qq := range q.Questions {
		if qq.Answered() {
			n++
		}
	}
	return n
}

func (q *Quiz) clampIndex() {
	if len(q.Questions) == 0 {
		q.CurrentIndex = 0
		return
	}
	q.CurrentIndex = ClampInt(q.CurrentIndex, 0, len(q.Questions)-1)
}

// SelectAnswer records choice as the answer to the current question.
func (q *Quiz) SelectAnswer(choice int, now time.Time) error {
	if q.Submitted {
		return common.ErrQuizSubmitted
	}
	cur := q.Current()
	if cur == nil {
		return fmt.Errorf("%w: quiz has no questions", common.ErrValidation)
	}
	if choice < 0 || choice >= len(cur.Choices) {
		return fmt.Errorf("%w: choice %d out of range", common.ErrValidation, choice+1)
	}
	cur.UserAnswerIndex = &choice
	q.UpdatedAt = now
	return nil
}

// GoTo moves the cursor to i, clamped to the question range.
func (q *Quiz) GoTo(i int, now time.Time) {
	q.CurrentIndex = i
	q.clampIndex()
	q.UpdatedAt = now
}

func (q *Quiz) Next(now time.Time) { q.GoTo(q.CurrentIndex+1, now) }

func (q *Quiz) Prev(now time.Time) { q.GoTo(q.CurrentIndex-1, now) }

// Submit freezes the grade. A submitted quiz cannot be submitted again.
func (q *Quiz) Submit(now time.Time) (Grade, error) {
	if q.Submitted {
		return Grade{}, common.ErrQuizSubmitted
	}
	g := ComputeGrade(q)
	q.Grade = &g
	q.Submitted = true
	ts := now
	q.SubmittedAt = &ts
	q.UpdatedAt = now
	return g, nil
}

// Score returns the frozen grade of a submitted quiz, otherwise a live one.
func (q *Quiz) Score() Grade {
	if q.Submitted && q.Grade != nil {
		return *q.Grade
	}
	return ComputeGrade(q)
}

// Clone returns an unsubmitted deep copy with a fresh id and no answers.
func (q *Quiz) Clone(now time.Time) *Quiz {
	c := *q
	c.ID = uuid.NewString()
	title := q.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultQuizTitle
	}
	c.Title = title + " (copy)"
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Questions = make([]*Question, len(q.Questions))
	for i, qq := range q.Questions {
		c.Questions[i] = qq.clone()
	}
	c.resetAnswers()
	return &c
}

func (q *Quiz) resetAnswers() {
	for _, qq := range q.Questions {
		qq.UserAnswerIndex = nil
	}
	q.Submitted = false
	q.SubmittedAt = nil
	q.Grade = nil
	q.CurrentIndex = 0
}

// AppendQuestions adds questions to an unsubmitted quiz.
func (q *Quiz) AppendQuestions(qs []*Question, now time.Time) error {
	if q.Submitted {
		return common.ErrQuizSubmitted
	}
	if len(qs) == 0 {
		return fmt.Errorf("%w: no questions returned", common.ErrValidation)
	}
	q.Questions = append(q.Questions, qs...)
	q.UpdatedAt = now
	return nil
}
