// Package generator asks a language model to write quiz questions from
// source text and returns its loosely typed answer for normalization.
package generator

import (
	"context"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
)

//go:generate mockgen -source=interface.go -destination=../mocks/generator/mock_client.go -package=mock_generator

// Client sends one prompt pair to the model and decodes the reply.
type Client interface {
	Generate(ctx context.Context, req Request) (models.RawQuiz, error)
}

// Request carries the prompts plus the endpoint settings they go to.
type Request struct {
	System      string
	User        string
	APIKey      string
	Model       string
	Endpoint    string
	Temperature float64
	MaxTokens   int
}

// NewRequest fills endpoint fields from the vault settings.
func NewRequest(s models.Settings, system, user string) Request {
	return Request{
		System:      system,
		User:        user,
		APIKey:      s.APIKey,
		Model:       s.Model,
		Endpoint:    s.Endpoint,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}
