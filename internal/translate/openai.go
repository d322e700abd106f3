package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAIClient translates with any OpenAI compatible chat endpoint through
// an eino chat model.
type OpenAIClient struct {
	chat model.BaseChatModel
}

func NewOpenAIClient(ctx context.Context, apiKey, modelName, baseURL string) (*OpenAIClient, error) {
	temperature := float32(0)
	cfg := &openai.ChatModelConfig{
		Model:       modelName,
		APIKey:      apiKey,
		Temperature: &temperature,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	chat, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return &OpenAIClient{chat: chat}, nil
}

func (c *OpenAIClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	msg, err := c.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(SystemPrompt(source, target)),
		schema.UserMessage(text),
	})
	if err != nil {
		if transient(err) {
			return "", &RetryableError{Message: err.Error()}
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("empty response from openai")
	}
	return CleanOutput(msg.Content, text)
}

var transientMarkers = []string{"429", "rate limit", "status code: 5", "timeout", "connection reset"}

// transient reports whether a chat model error looks like a rate limit or
// server side failure. eino does not expose the HTTP status.
func transient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
