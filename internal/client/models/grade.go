package models

import "math"

// Outcome is the graded state of one question.
type Outcome struct {
	Answered     bool `json:"isAnswered"`
	Correct      bool `json:"isCorrect"`
	Selected     *int `json:"ua"`
	CorrectIndex int  `json:"ca"`
}

// Grade summarizes a quiz attempt. Accuracies are integer percentages.
type Grade struct {
	Total            int       `json:"total"`
	Answered         int       `json:"answered"`
	Correct          int       `json:"correct"`
	AccuracyAnswered int       `json:"accuracyAnswered"`
	AccuracyTotal    int       `json:"accuracyTotal"`
	Per              []Outcome `json:"per"`
}

// ComputeGrade grades the quiz in its current state. It does not modify q.
func ComputeGrade(q *Quiz) Grade {
	g := Grade{Total: len(q.Questions), Per: make([]Outcome, 0, len(q.Questions))}
	for _, qq := range q.Questions {
		o := Outcome{CorrectIndex: qq.AnswerIndex}
		if qq.UserAnswerIndex != nil {
			sel := *qq.UserAnswerIndex
			o.Selected = &sel
			o.Answered = true
			o.Correct = sel == qq.AnswerIndex
			g.Answered++
			if o.Correct {
				g.Correct++
			}
		}
		g.Per = append(g.Per, o)
	}
	g.AccuracyAnswered = percent(g.Correct, g.Answered)
	g.AccuracyTotal = percent(g.Correct, g.Total)
	return g
}

func percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(d)))
}
