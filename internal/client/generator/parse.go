package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// responsesBody is the subset of a Responses API reply that carries text.
type responsesBody struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// outputText returns the top-level output_text, else the first non-blank
// text part of a message item, preferring output_text parts.
func (b *responsesBody) outputText() string {
	if strings.TrimSpace(b.OutputText) != "" {
		return b.OutputText
	}
	for _, item := range b.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if strings.TrimSpace(c.Text) != "" {
				return c.Text
			}
		}
	}
	return ""
}

// ParseQuiz decodes model output. When the whole text is not JSON, the
// outermost {...} span is tried before giving up.
func ParseQuiz(text string) (models.RawQuiz, error) {
	var raw models.RawQuiz
	t := strings.TrimSpace(text)
	if t == "" {
		return raw, fmt.Errorf("%w: empty model output", common.ErrValidation)
	}

	err := json.Unmarshal([]byte(t), &raw)
	if err == nil {
		return raw, nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		a, b := strings.Index(t, "{"), strings.LastIndex(t, "}")
		if a >= 0 && b > a {
			raw = models.RawQuiz{}
			if err = json.Unmarshal([]byte(t[a:b+1]), &raw); err == nil {
				return raw, nil
			}
		}
		return models.RawQuiz{}, fmt.Errorf("%w: model output was not valid JSON", common.ErrValidation)
	}
	return models.RawQuiz{}, fmt.Errorf("%w: bad model output: %w", common.ErrValidation, err)
}
