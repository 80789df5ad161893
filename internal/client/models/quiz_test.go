package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

var (
	t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func TestQuiz_SelectAnswer(t *testing.T) {
	q := quizWithAnswers(nil, nil)
	require.NoError(t, q.SelectAnswer(2, t1))
	require.Equal(t, 2, *q.Questions[0].UserAnswerIndex)
	require.Equal(t, t1, q.UpdatedAt)

	require.ErrorIs(t, q.SelectAnswer(4, t1), common.ErrValidation)
	require.ErrorIs(t, q.SelectAnswer(-1, t1), common.ErrValidation)

	// changing the answer before submission is allowed
	require.NoError(t, q.SelectAnswer(1, t1))
	require.True(t, q.Questions[0].IsCorrect())
}

func TestQuiz_SelectAnswer_EmptyQuiz(t *testing.T) {
	require.ErrorIs(t, (&Quiz{}).SelectAnswer(0, t1), common.ErrValidation)
}

func TestQuiz_Navigation(t *testing.T) {
	q := quizWithAnswers(nil, nil, nil)
	q.Prev(t1)
	require.Equal(t, 0, q.CurrentIndex)
	q.Next(t1)
	q.Next(t1)
	q.Next(t1)
	require.Equal(t, 2, q.CurrentIndex)
	q.GoTo(1, t1)
	require.Equal(t, 1, q.CurrentIndex)
	require.Same(t, q.Questions[1], q.Current())
	q.GoTo(99, t1)
	require.Equal(t, 2, q.CurrentIndex)

	empty := &Quiz{CurrentIndex: 3}
	empty.Next(t1)
	require.Equal(t, 0, empty.CurrentIndex)
	require.Nil(t, empty.Current())
}

func TestQuiz_Submit(t *testing.T) {
	q := quizWithAnswers(intp(1), intp(0))
	g, err := q.Submit(t1)
	require.NoError(t, err)
	require.True(t, q.Submitted)
	require.Equal(t, t1, *q.SubmittedAt)
	require.Equal(t, &g, q.Grade)
	require.Equal(t, 1, g.Correct)

	_, err = q.Submit(t1)
	require.ErrorIs(t, err, common.ErrQuizSubmitted)
	require.ErrorIs(t, q.SelectAnswer(0, t1), common.ErrQuizSubmitted)
	require.ErrorIs(t, q.AppendQuestions([]*Question{{ID: "x"}}, t1), common.ErrQuizSubmitted)
}

func TestQuiz_Score(t *testing.T) {
	q := quizWithAnswers(intp(1), nil)
	require.Equal(t, 1, q.Score().Answered)

	_, err := q.Submit(t1)
	require.NoError(t, err)

	// the frozen grade wins over the live state
	q.Questions[1].UserAnswerIndex = intp(1)
	require.Equal(t, 1, q.Score().Answered)
}

func TestQuiz_Clone_ResetsState(t *testing.T) {
	q := quizWithAnswers(intp(1), intp(2), nil)
	q.CreatedAt, q.UpdatedAt = t0, t0
	q.CurrentIndex = 2
	_, err := q.Submit(t0)
	require.NoError(t, err)

	c := q.Clone(t1)

	require.NotEqual(t, q.ID, c.ID)
	require.Equal(t, "T (copy)", c.Title)
	require.False(t, c.Submitted)
	require.Nil(t, c.SubmittedAt)
	require.Nil(t, c.Grade)
	require.Equal(t, 0, c.CurrentIndex)
	require.Equal(t, t1, c.CreatedAt)
	for _, qq := range c.Questions {
		require.Nil(t, qq.UserAnswerIndex)
	}

	ignore := cmpopts.IgnoreFields(Question{}, "UserAnswerIndex")
	if diff := cmp.Diff(q.Questions, c.Questions, ignore); diff != "" {
		t.Fatalf("question content changed (-orig +clone):\n%s", diff)
	}

	// original is untouched and independent
	require.True(t, q.Submitted)
	require.Equal(t, 1, *q.Questions[0].UserAnswerIndex)
	c.Questions[0].Choices[0] = "changed"
	require.Equal(t, "A", q.Questions[0].Choices[0])
}

func TestQuiz_Clone_UntitledGetsDefault(t *testing.T) {
	c := (&Quiz{}).Clone(t1)
	require.Equal(t, "Quiz (copy)", c.Title)
}

func TestQuiz_AppendQuestions(t *testing.T) {
	q := quizWithAnswers(nil)
	require.ErrorIs(t, q.AppendQuestions(nil, t1), common.ErrValidation)

	require.NoError(t, q.AppendQuestions([]*Question{{ID: "n1"}, {ID: "n2"}}, t1))
	require.Len(t, q.Questions, 3)
	require.Equal(t, t1, q.UpdatedAt)
}

func TestQuiz_AnsweredCount(t *testing.T) {
	require.Equal(t, 2, quizWithAnswers(intp(0), nil, intp(3)).AnsweredCount())
}
