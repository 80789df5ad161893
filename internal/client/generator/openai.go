package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/dmitrijs2005/quizkeeper/internal/client/models"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
	"github.com/dmitrijs2005/quizkeeper/internal/logging"
)

// ErrNoAPIKey is returned before any request when the API key is blank.
var ErrNoAPIKey = fmt.Errorf("%w: API key is blank", common.ErrValidation)

// APIError is a non-2xx reply from the model endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error (%d)", e.Status)
}

func (e *APIError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// OpenAIClient talks to the OpenAI Responses API, or any endpoint with the
// same request and reply shape. No request timeout is set.
type OpenAIClient struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
	log              logging.Logger
}

// NewOpenAIClient returns a client making at most attempts tries per request.
func NewOpenAIClient(attempts uint, log logging.Logger) *OpenAIClient {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if attempts == 0 {
		attempts = 1
	}
	return &OpenAIClient{
		httpClient:       client,
		maxRetryAttempts: attempts,
		log:              log.With("component", "generator"),
	}
}

func (c *OpenAIClient) Close() error {
	return c.httpClient.Close()
}

type responsesRequest struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Temperature     float64        `json:"temperature"`
	MaxOutputTokens int            `json:"max_output_tokens"`
	Text            textOptions    `json:"text"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textOptions struct {
	Format struct {
		Type string `json:"type"`
	} `json:"format"`
}

func newResponsesRequest(req Request) responsesRequest {
	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = models.DefaultModel
	}
	body := responsesRequest{
		Model: model,
		Input: []inputMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxTokens,
	}
	body.Text.Format.Type = "json_object"
	return body
}

// Generate implements Client. Rate limiting, 5xx replies and transport
// failures are retried with backoff; everything else fails at once.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (models.RawQuiz, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return models.RawQuiz{}, ErrNoAPIKey
	}

	var result models.RawQuiz
	err := retry.Do(
		func() error {
			raw, err := c.generate(ctx, req)
			if err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && !apiErr.retryable() {
					return retry.Unrecoverable(err)
				}
				if errors.Is(err, common.ErrValidation) {
					return retry.Unrecoverable(err)
				}
				c.log.Warn(ctx, "generation attempt failed", "error", err)
				return err
			}
			result = raw
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return models.RawQuiz{}, err
	}
	return result, nil
}

func (c *OpenAIClient) generate(ctx context.Context, req Request) (models.RawQuiz, error) {
	endpoint := req.Endpoint
	if strings.TrimSpace(endpoint) == "" {
		endpoint = models.DefaultEndpoint
	}
	body := newResponsesRequest(req)

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+req.APIKey).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return models.RawQuiz{}, fmt.Errorf("httpClient.Post > %w", err)
	}

	var reply responsesBody
	// the error path tolerates a non-JSON body
	decodeErr := json.Unmarshal([]byte(response.String()), &reply)

	if response.IsError() {
		apiErr := &APIError{Status: response.StatusCode()}
		if decodeErr == nil && reply.Error != nil {
			apiErr.Message = reply.Error.Message
		}
		return models.RawQuiz{}, apiErr
	}
	if decodeErr != nil {
		return models.RawQuiz{}, fmt.Errorf("decode reply: %w", decodeErr)
	}

	c.log.Debug(ctx, "model reply received", "model", body.Model, "status", response.StatusCode())
	return ParseQuiz(reply.outputText())
}
