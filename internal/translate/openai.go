package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend translates through the chat completions API. Last in
// the chain; used when OPENAI_API_KEY is configured.
type OpenAIBackend struct {
	client *openai.Client
}

func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	return &OpenAIBackend{client: openai.NewClient(apiKey)}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Translate(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Translate the following text to Simplified Chinese.
Keep the meaning and tone of the original.
Do not translate brand or organization names.
Output only the translation itself, without additional comments.

Text to translate:
%s`, text)

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: 2000,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
