package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend translates through the Gemini API. Used when
// GEMINI_API_KEY is configured; quality is better than the free
// endpoint for long summaries.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

func NewGeminiBackend(ctx context.Context, apiKey string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiBackend{client: client, model: "gemini-1.5-flash"}, nil
}

func (b *GeminiBackend) Name() string { return "gemini" }

func (b *GeminiBackend) Close() {
	if b.client != nil {
		b.client.Close()
	}
}

func (b *GeminiBackend) Translate(ctx context.Context, text string) (string, error) {
	model := b.client.GenerativeModel(b.model)

	prompt := fmt.Sprintf("将下面的文本翻译成简体中文。保留品牌和组织的专有名称，只输出译文，不要任何解释。\n\n%s", text)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from gemini")
	}

	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}
