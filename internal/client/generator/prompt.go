package generator

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
)

// DifficultySpec describes to the model what a difficulty level means.
// Unknown levels are treated as medium.
func DifficultySpec(d models.Difficulty) string {
	switch d {
	case models.DifficultyEasy:
		return strings.Join([]string{
			"EASY SPEC:",
			"- Direct recall: one sentence/phrase.",
			"- Distractors obviously wrong (no trick).",
			"- No inference; no multi-step reasoning.",
			"- Avoid close-call options.",
		}, "\n")
	case models.DifficultyHard:
		return strings.Join([]string{
			"HARD SPEC:",
			"- Requires inference or connecting multiple nearby ideas.",
			"- Distractors plausible but strictly false per text.",
			"- Exactly one correct; avoid ambiguity.",
			"- Prefer why/how/implication questions grounded in the text.",
		}, "\n")
	case models.DifficultyVeryHard:
		return strings.Join([]string{
			"VERY HARD SPEC:",
			"- Multi-step: connect two+ distant parts of the text.",
			"- Distractors highly plausible (same vocabulary/claims).",
			"- Still unambiguous: exactly one correct choice.",
			"- Ask about implications, motivations, contradictions, cause chains.",
			"- Explanations cite the specific clue(s) from the text.",
		}, "\n")
	default:
		return strings.Join([]string{
			"MEDIUM SPEC:",
			"- Understanding + paraphrase + cause/effect in text.",
			"- Sometimes combine two nearby ideas.",
			"- Distractors plausible but not deceptive.",
			"- Exactly one correct choice.",
		}, "\n")
	}
}

// SystemInstructions is the system message sent with every request.
func SystemInstructions() string {
	return strings.Join([]string{
		"You generate multiple-choice quizzes.",
		"Output ONLY valid json.",
		"No markdown. No commentary.",
		"Use ONLY the provided source text.",
		"Exactly one correct answer per question.",
	}, " ")
}

func requiredShape(choices int, withTitle bool) string {
	question := `{ "q": string, "choices": string[], "answer_index": number, "explanation": string }`
	base := `{ "questions": [ ` + question + ` ] }`
	if withTitle {
		base = `{ "title": string, "questions": [ ` + question + ` ] }`
	}
	return fmt.Sprintf("%s (choices.length must be exactly %d)", base, choices)
}

// GenerateInput parameterizes a new quiz prompt.
type GenerateInput struct {
	SourceText string
	Count      int
	Difficulty models.Difficulty
	Title      string
	Choices    int
}

// GeneratePrompt builds the user message for a new quiz.
func GeneratePrompt(in GenerateInput) string {
	lines := []string{
		"Output format: json",
		"Return a valid json object only.",
		"",
		DifficultySpec(in.Difficulty),
		"",
		fmt.Sprintf("Number of questions: %d", in.Count),
		fmt.Sprintf("Choices per question: %d", in.Choices),
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		lines = append(lines, "Title preference: "+t)
	}
	lines = append(lines,
		"",
		"REQUIRED JSON SHAPE:",
		requiredShape(in.Choices, true),
		"",
		"Rules:",
		"- choices must be short phrases.",
		"- explanation is 1-2 sentences.",
		"",
		"SOURCE TEXT (only allowed knowledge):",
		strings.TrimSpace(in.SourceText),
	)
	return strings.Join(lines, "\n")
}

// AddMoreInput parameterizes a follow-up prompt for an existing quiz.
type AddMoreInput struct {
	Existing   []*models.Question
	Count      int
	Difficulty models.Difficulty
	Choices    int
	SourceText string
}

// AddMorePrompt builds the user message asking for extra questions that do
// not repeat the existing ones.
func AddMorePrompt(in AddMoreInput) string {
	existing := make([]string, 0, len(in.Existing))
	for i, q := range in.Existing {
		existing = append(existing, fmt.Sprintf("%d. %s", i+1, q.Q))
	}
	return strings.Join([]string{
		"Output format: json",
		"Return a valid json object only.",
		"",
		DifficultySpec(in.Difficulty),
		"",
		fmt.Sprintf("Add %d NEW questions.", in.Count),
		fmt.Sprintf("Choices per question: %d", in.Choices),
		"Do NOT repeat any existing question wording or focus.",
		"",
		"EXISTING QUESTIONS (avoid duplicates):",
		strings.Join(existing, "\n"),
		"",
		"REQUIRED JSON SHAPE:",
		requiredShape(in.Choices, false),
		"",
		"SOURCE TEXT (only allowed knowledge):",
		strings.TrimSpace(in.SourceText),
	}, "\n")
}
