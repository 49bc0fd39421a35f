package delegate

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/pkg/errors"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1/"

const structuredSystemPrompt = `You extract information and answer with JSON only.
Respond with exactly one JSON object of the form {"skills": ["..."], "keywords": ["..."]}.
Both fields are lists of strings and must always be present, empty lists are allowed.
Do not add commentary or markdown.`

const freeTextSystemPrompt = `You are a senior career counselor and resume optimization expert.
Answer in brief, actionable plain prose.`

// OpenAI talks to any OpenAI-compatible chat completions endpoint. By
// default it points at Groq.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	base := []option.RequestOption{
		option.WithBaseURL(GroqBaseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &OpenAI{
		client: openai.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (o *OpenAI) Structured(ctx context.Context, prompt string) Result {
	content, err := o.complete(ctx, structuredSystemPrompt, prompt, true)
	if err != nil {
		return TransportFailure(err)
	}
	return ParseShape(content)
}

func (o *OpenAI) FreeText(ctx context.Context, prompt string) (string, error) {
	content, err := o.complete(ctx, freeTextSystemPrompt, prompt, false)
	if err != nil {
		return "", transportError(err)
	}
	if strings.TrimSpace(content) == "" {
		return "", transportError(ErrEmptyResponse)
	}
	return content, nil
}

func (o *OpenAI) complete(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		}),
		Model: openai.F(openai.ChatModel(o.model)),
	}
	if jsonMode {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			shared.ResponseFormatJSONObjectParam{
				Type: openai.F(shared.ResponseFormatJSONObjectTypeJSONObject),
			},
		)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.Wrap(ErrEmptyResponse, "no choices in chat completion")
	}
	return resp.Choices[0].Message.Content, nil
}
