package scorer

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/sashabaranov/go-openai"
)

// OpenAI scores texts by the log-probability a language model assigns to
// them, using the completions endpoint in echo mode: the model reports the
// per-token log-probabilities of the prompt itself. A whole batch travels
// in one request.
type OpenAI struct {
	client *openai.Client
	model  string
}

type openAIConfig struct {
	apiKey  string
	model   string
	baseURL string
}

type OpenAIOption func(c *openAIConfig)

func WithAPIKey(key string) OpenAIOption {
	return func(c *openAIConfig) {
		c.apiKey = key
	}
}

func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a compatible server, such as a local
// inference endpoint or a test double.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) {
		c.baseURL = url
	}
}

// NewOpenAI builds the scorer. The API key falls back to the OPENAI_API_KEY
// environment variable; a missing key is a configuration error.
func NewOpenAI(options ...OpenAIOption) (*OpenAI, error) {
	cfg := openAIConfig{model: openai.GPT3Dot5TurboInstruct}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.apiKey == "" {
		cfg.apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.apiKey == "" {
		return nil, fmt.Errorf("an API key is required: pass WithAPIKey or set OPENAI_API_KEY")
	}

	clientConfig := openai.DefaultConfig(cfg.apiKey)
	if cfg.baseURL != "" {
		clientConfig.BaseURL = cfg.baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.model,
	}, nil
}

// ComputeScores sends all texts as one completion request and pairs the
// choices back up with the texts by index, so the returned scores keep the
// input order regardless of the order the API answers in.
func (s *OpenAI) ComputeScores(ctx context.Context, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     s.model,
		Prompt:    texts,
		MaxTokens: 1,
		Echo:      true,
		LogProbs:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to score %d texts: %w", len(texts), err)
	}
	if len(resp.Choices) != len(texts) {
		return nil, fmt.Errorf("scoring %d texts returned %d choices", len(texts), len(resp.Choices))
	}

	scores := make([]float64, len(texts))
	seen := make([]bool, len(texts))
	for _, choice := range resp.Choices {
		i := choice.Index
		if i < 0 || i >= len(texts) || seen[i] {
			return nil, fmt.Errorf("unexpected choice index %d for a batch of %d texts", i, len(texts))
		}
		seen[i] = true
		scores[i] = meanLogprobScore(choice.LogProbs.TokenLogprobs)
	}
	return scores, nil
}

// meanLogprobScore maps echoed token log-probabilities onto (0, 1] as the
// exponential of their mean. The API reports no probability for the first
// prompt token, and the final entry belongs to the generated continuation
// token, so both are excluded.
func meanLogprobScore(logprobs []float32) float64 {
	if len(logprobs) > 0 {
		logprobs = logprobs[:len(logprobs)-1]
	}
	if len(logprobs) < 2 {
		return 0
	}
	sum := 0.0
	for _, lp := range logprobs[1:] {
		sum += float64(lp)
	}
	return math.Exp(sum / float64(len(logprobs)-1))
}
