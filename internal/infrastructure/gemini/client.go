package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateIcebreakers asks the model for opening lines for a new match.
func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, userInterests, matchInterests []string) ([]string, error) {
	prompt := fmt.Sprintf(`
		Generate 3 short, friendly icebreaker messages for two people who just matched on a dating app.
		Person 1 interests: %v
		Person 2 interests: %v

		Focus on shared interests or interesting contrasts. Keep each under 120 characters.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, userInterests, matchInterests)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate icebreakers: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return ParseIcebreakers(sb.String())
}

// ParseIcebreakers reads a model reply that should be a JSON array of strings,
// tolerating markdown fences and plain line-per-item output.
func ParseIcebreakers(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var icebreakers []string
	if err := json.Unmarshal([]byte(text), &icebreakers); err != nil {
		icebreakers = icebreakers[:0]
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				icebreakers = append(icebreakers, line)
			}
		}
		if len(icebreakers) == 0 {
			return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
		}
	}

	out := icebreakers[:0]
	for _, s := range icebreakers {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no icebreakers in response")
	}
	return out, nil
}
