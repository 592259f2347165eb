package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// invalidKeyMarkers are the substrings the API uses when it rejects a key.
var invalidKeyMarkers = []string{
	"api key not valid",
	"requested entity was not found",
	"api_key_invalid",
}

type generator struct {
	client *genai.Client
	model  string
	parent *implConnector
}

// Connect creates a client bound to apiKey. The client is created right
// before use so a replaced key is always picked up.
func (c *implConnector) Connect(ctx context.Context, apiKey string) (transcript.Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperror.ErrMissingCredential
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", classify(err))
	}

	return &generator{client: client, model: c.model, parent: c}, nil
}

// Generate sends prompt to the model and returns the concatenated text parts.
func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", classify(err))
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		g.parent.logger.Debug(ctx, "Gemini returned no candidates for model %s", g.model)
		return "", nil
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// classify tags errors that mean the credential was rejected.
func classify(err error) error {
	if IsInvalidKeyMessage(err.Error()) {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidCredential, err)
	}
	return err
}

// IsInvalidKeyMessage reports whether msg is an invalid-key response.
func IsInvalidKeyMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range invalidKeyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
