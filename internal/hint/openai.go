package hint

import (
	"context"
	"fmt"
	"time"

	"quadquiz-service/internal/domain"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultModel   = openai.GPT4oMini
	defaultTimeout = 20 * time.Second
	maxHintTokens  = 60
)

// OpenAIProvider generates hints from the correct answer's explanation via a
// chat completion. It is stateless per call; escalation is the caller's step
// argument.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider builds a provider. An empty API key is allowed: the
// provider stays constructible and every call reports
// domain.ErrHintNotConfigured so the rest of the game keeps working.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	p := &OpenAIProvider{
		model:   model,
		timeout: defaultTimeout,
	}
	if p.model == "" {
		p.model = defaultModel
	}
	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	}
	return p
}

// GenerateHint asks the model for a short hint that must not reveal the
// answer. Step 2 allows a slightly stronger hint than step 1.
func (p *OpenAIProvider) GenerateHint(ctx context.Context, explanation, difficulty string, step int) (string, error) {
	if p.client == nil {
		return "", domain.ErrHintNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: hintPrompt(explanation, difficulty, step),
			},
		},
		MaxTokens:   maxHintTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate hint: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate hint: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func hintPrompt(explanation, difficulty string, step int) string {
	return fmt.Sprintf(`You write short hints for a quiz game.
Generate one hint under these constraints.

Explanation of the correct answer:
%s

Difficulty: %s
Hint step: %d of 2

Rules:
- never reveal the answer directly
- one or two short sentences
- scale the hint strength to the difficulty; step 2 may hint more strongly than step 1`,
		explanation, difficulty, step)
}
