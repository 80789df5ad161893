package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
)

// Difficulty is the question difficulty level.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very_hard"
)

// Difficulties lists the levels from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyVeryHard}

// ParseDifficulty accepts the canonical names plus "very-hard"/"veryhard".
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	case "very_hard", "very-hard", "veryhard":
		return DifficultyVeryHard, true
	}
	return "", false
}

func (d Difficulty) Valid() bool {
	_, ok := ParseDifficulty(string(d))
	return ok && d == Difficulty(strings.ToLower(string(d)))
}

const (
	DefaultModel       = "gpt-4.1-mini"
	DefaultEndpoint    = "https://api.openai.com/v1/responses"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1800
)

// KnownModels are offered as suggestions; Settings.Model stays free-form.
var KnownModels = []string{"gpt-4.1-mini", "gpt-4o-mini", "gpt-4.1", "gpt-4o"}

// Settings are the user preferences stored inside the vault.
type Settings struct {
	APIKey            string     `json:"apiKey"`
	Difficulty        Difficulty `json:"difficulty"`
	DefaultChoices    int        `json:"defaultChoices"`
	Model             string     `json:"model"`
	Endpoint          string     `json:"endpoint"`
	Temperature       float64    `json:"temperature"`
	MaxTokens         int        `json:"maxTokens"`
	ImmediateFeedback bool       `json:"immediateFeedback"`
}

func DefaultSettings() Settings {
	return Settings{
		Difficulty:     DifficultyMedium,
		DefaultChoices: MinChoices,
		Model:          DefaultModel,
		Endpoint:       DefaultEndpoint,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
	}
}

// Normalize fills empty fields with defaults and clamps numeric fields.
func (s *Settings) Normalize() {
	if !s.Difficulty.Valid() {
		if d, ok := ParseDifficulty(string(s.Difficulty)); ok {
			s.Difficulty = d
		} else {
			s.Difficulty = DifficultyMedium
		}
	}
	if s.DefaultChoices == 0 {
		s.DefaultChoices = MinChoices
	}
	s.DefaultChoices = ClampChoices(s.DefaultChoices)
	if strings.TrimSpace(s.Model) == "" {
		s.Model = DefaultModel
	}
	if strings.TrimSpace(s.Endpoint) == "" {
		s.Endpoint = DefaultEndpoint
	}
	s.Temperature = ClampFloat(s.Temperature, MinTemperature, MaxTemperature, DefaultTemperature)
	if s.MaxTokens == 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	s.MaxTokens = ClampInt(s.MaxTokens, MinMaxTokens, MaxMaxTokens)
}

// SettingFields lists the names accepted by Set.
var SettingFields = []string{"apikey", "difficulty", "choices", "model", "endpoint", "temperature", "maxtokens", "feedback"}

// Set applies one textual setting change. Numbers are clamped; unparsable
// numbers fall back to the default for that field.
func (s *Settings) Set(field, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(field) {
	case "apikey", "api_key":
		s.APIKey = value
	case "difficulty":
		d, ok := ParseDifficulty(value)
		if !ok {
			return fmt.Errorf("%w: unknown difficulty %q", common.ErrValidation, value)
		}
		s.Difficulty = d
	case "choices", "defaultchoices":
		s.DefaultChoices = ParseClampInt(value, MinChoices, MaxChoices, MinChoices)
	case "model":
		s.Model = value
	case "endpoint":
		s.Endpoint = value
	case "temperature":
		s.Temperature = ParseClampFloat(value, MinTemperature, MaxTemperature, DefaultTemperature)
	case "maxtokens", "max_tokens":
		s.MaxTokens = ParseClampInt(value, MinMaxTokens, MaxMaxTokens, DefaultMaxTokens)
	case "feedback", "immediatefeedback":
		b, err := strconv.ParseBool(value)
		if err != nil {
			b = value == "on" || value == "yes"
		}
		s.ImmediateFeedback = b
	default:
		return fmt.Errorf("%w: unknown setting %q", common.ErrValidation, field)
	}
	s.Normalize()
	return nil
}
