package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient translates with the Gemini API. Each worker owns one
// client and with it one underlying gRPC connection.
type GeminiClient struct {
	cl    *genai.Client
	model *genai.GenerativeModel
	src   string
	dst   string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	m := cl.GenerativeModel(strings.TrimSpace(modelName))
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}
	return &GeminiClient{cl: cl, model: m}, nil
}

func (c *GeminiClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	if c.src != source || c.dst != target {
		c.model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(SystemPrompt(source, target))},
		}
		c.src, c.dst = source, target
	}
	resp, err := c.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500) {
			return "", &RetryableError{StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", fmt.Errorf("gemini: %w", err)
	}
	out := firstText(resp)
	if out == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return CleanOutput(out, text)
}

func (c *GeminiClient) Close() error {
	return c.cl.Close()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
