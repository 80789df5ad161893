package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
)

var (
	correctColor = color.New(color.FgGreen)
	wrongColor   = color.New(color.FgRed)
	boldColor    = color.New(color.Bold)
	faintColor   = color.New(color.Faint)
)

func choiceLetter(i int) string {
	return string(rune('A' + i))
}

// parseChoice accepts a letter (a, B) or a 1-based number.
func parseChoice(s string, n int) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && c <= 'z' {
			i := int(c - 'a')
			return i, i < n
		}
	}
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, false
	}
	return i - 1, i >= 1 && i <= n
}

// revealed reports whether the answer to q may be shown.
func revealed(quiz *models.Quiz, q *models.Question, feedback bool) bool {
	return quiz.Submitted || (feedback && q.Answered())
}

func renderQuestion(w io.Writer, quiz *models.Quiz, feedback bool) {
	q := quiz.Current()
	if q == nil {
		fmt.Fprintf(w, "%s has no questions.\n", quiz.Title)
		return
	}
	header := fmt.Sprintf("%s | Question %d of %d | answered %d",
		quiz.Title, quiz.CurrentIndex+1, len(quiz.Questions), quiz.AnsweredCount())
	if quiz.Submitted {
		header += " | submitted"
	}
	faintColor.Fprintln(w, header)
	boldColor.Fprintln(w, q.Q)

	show := revealed(quiz, q, feedback)
	for i, c := range q.Choices {
		mark := " "
		if q.UserAnswerIndex != nil && *q.UserAnswerIndex == i {
			mark = ">"
		}
		line := fmt.Sprintf(" %s %s) %s", mark, choiceLetter(i), c)
		switch {
		case show && i == q.AnswerIndex:
			correctColor.Fprintln(w, line)
		case show && mark == ">":
			wrongColor.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
	if show {
		renderFeedback(w, q)
	}
}

func renderFeedback(w io.Writer, q *models.Question) {
	switch {
	case !q.Answered():
		faintColor.Fprintf(w, "Not answered. Correct: %s\n", choiceLetter(q.AnswerIndex))
	case q.IsCorrect():
		correctColor.Fprintln(w, "Correct.")
	default:
		wrongColor.Fprintf(w, "Incorrect. Correct: %s\n", choiceLetter(q.AnswerIndex))
	}
	if q.Explanation != "" {
		fmt.Fprintln(w, q.Explanation)
	}
}

func renderGrade(w io.Writer, g models.Grade) {
	fmt.Fprintf(w, "Score: %d/%d correct (%d answered)\n", g.Correct, g.Total, g.Answered)
	fmt.Fprintf(w, "Accuracy: %d%% of answered, %d%% of all questions\n", g.AccuracyAnswered, g.AccuracyTotal)
}

func renderResults(w io.Writer, quiz *models.Quiz) {
	g := quiz.Score()
	renderGrade(w, g)
	for i, o := range g.Per {
		q := quiz.Questions[i]
		your := "-"
		if o.Selected != nil {
			your = choiceLetter(*o.Selected)
		}
		line := fmt.Sprintf("%3d. %s (yours: %s, correct: %s)", i+1, q.Q, your, choiceLetter(o.CorrectIndex))
		switch {
		case o.Correct:
			correctColor.Fprintln(w, line)
		case o.Answered:
			wrongColor.Fprintln(w, line)
		default:
			faintColor.Fprintln(w, line)
		}
	}
}

func renderList(w io.Writer, quizzes []*models.Quiz, currentID string) {
	if len(quizzes) == 0 {
		fmt.Fprintln(w, "No quizzes yet. Run generate.")
		return
	}
	for i, q := range quizzes {
		mark := " "
		if q.ID == currentID {
			mark = "*"
		}
		state := fmt.Sprintf("%d/%d answered", q.AnsweredCount(), len(q.Questions))
		if q.Submitted && q.Grade != nil {
			state = fmt.Sprintf("submitted, %d%%", q.Grade.AccuracyTotal)
		}
		fmt.Fprintf(w, "%s%3d. %s [%s, %s] %s  %s\n", mark, i+1, q.Title, q.Difficulty, state,
			q.UpdatedAt.Local().Format("2006-01-02 15:04"), shortID(q.ID))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderSettings(w io.Writer, s models.Settings) {
	key := "(blank)"
	if s.APIKey != "" {
		key = "(set)"
	}
	fmt.Fprintf(w, "apikey       %s\n", key)
	fmt.Fprintf(w, "difficulty   %s\n", s.Difficulty)
	fmt.Fprintf(w, "choices      %d\n", s.DefaultChoices)
	fmt.Fprintf(w, "model        %s (known: %s)\n", s.Model, strings.Join(models.KnownModels, ", "))
	fmt.Fprintf(w, "endpoint     %s\n", s.Endpoint)
	fmt.Fprintf(w, "temperature  %g\n", s.Temperature)
	fmt.Fprintf(w, "maxtokens    %d\n", s.MaxTokens)
	fmt.Fprintf(w, "feedback     %t\n", s.ImmediateFeedback)
}
