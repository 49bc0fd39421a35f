package delegate

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// Gemini answers structured prompts with a response schema through the
// genai client and free-text prompts through the feedback agent.
type Gemini struct {
	client *genai.Client
	model  string
	agent  *FeedbackAgent
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	return NewGeminiWithHTTPOptions(ctx, apiKey, model, genai.HTTPOptions{})
}

// NewGeminiWithHTTPOptions is NewGemini with transport overrides such as a
// different base URL. Both the structured client and the feedback agent use
// them.
func NewGeminiWithHTTPOptions(ctx context.Context, apiKey, model string, httpOptions genai.HTTPOptions) (*Gemini, error) {
	client, err := genai.NewClient(ctx, geminiClientConfig(apiKey, httpOptions))
	if err != nil {
		return nil, errors.Wrap(err, "genai.NewClient")
	}

	feedbackAgent, err := NewFeedbackAgent(ctx, geminiClientConfig(apiKey, httpOptions), model)
	if err != nil {
		return nil, err
	}

	return &Gemini{
		client: client,
		model:  model,
		agent:  feedbackAgent,
	}, nil
}

// genai.NewClient writes defaults into its config; build one per client.
func geminiClientConfig(apiKey string, httpOptions genai.HTTPOptions) *genai.ClientConfig {
	return &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	}
}

func shapeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"skills": {
				Type:        genai.TypeArray,
				Description: "Skills as concise noun phrases.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"keywords": {
				Type:        genai.TypeArray,
				Description: "ATS keywords as concise noun phrases.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"skills", "keywords"},
	}
}

func (g *Gemini) Structured(ctx context.Context, prompt string) Result {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   shapeSchema(),
		Temperature:      genai.Ptr[float32](0.0),
	})
	if err != nil {
		return TransportFailure(errors.Wrap(err, "gemini generate content"))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return TransportFailure(ErrEmptyResponse)
	}
	return ParseShape(resp.Text())
}

func (g *Gemini) FreeText(ctx context.Context, prompt string) (string, error) {
	return g.agent.Run(ctx, prompt)
}
