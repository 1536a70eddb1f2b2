package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// GenerateText submits a prompt plus a text payload to the named model and
// returns the raw response text, markdown fencing included.
func (c *Client) GenerateText(ctx context.Context, model, prompt, payload string) (string, error) {
	return c.generate(ctx, model, genai.Text(prompt), genai.Text(payload))
}

// GenerateImage submits a prompt plus a PNG image to the named model and
// returns the raw response text.
func (c *Client) GenerateImage(ctx context.Context, model, prompt string, png []byte) (string, error) {
	return c.generate(ctx, model, genai.Text(prompt), genai.ImageData("png", png))
}

func (c *Client) generate(ctx context.Context, model string, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.GenerativeModel(model).GenerateContent(ctx, parts...)
	if err != nil {
		return "", &Error{
			Op:  "generate_content",
			Err: err,
		}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &Error{
			Op:  "read_response",
			Err: errNoCandidates,
		}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return strings.TrimSpace(text.String()), nil
}
