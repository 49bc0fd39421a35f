package delegate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	feedbackAgentName = "skillsync_feedback"
	feedbackUserID    = "skillsync"
)

// The instruction is a template in adk; keep it free of curly braces.
const feedbackInstruction = `You are a senior career counselor and resume optimization expert.
You receive the result of a resume and job description comparison.
Answer in brief, actionable plain prose addressed to the candidate.
Base every statement only on the data you are given.`

// FeedbackAgent runs free-text prompts through an adk agent backed by Gemini.
// Every call gets its own session, removed when the call returns.
type FeedbackAgent struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
}

func NewFeedbackAgent(ctx context.Context, clientConfig *genai.ClientConfig, modelName string) (*FeedbackAgent, error) {
	model, err := gemini.NewModel(ctx, modelName, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	feedbackAgent, err := llmagent.New(llmagent.Config{
		Name:        feedbackAgentName,
		Model:       model,
		Description: "Write resume feedback",
		Instruction: feedbackInstruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        feedbackAgent.Name(),
		Agent:          feedbackAgent,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &FeedbackAgent{
		runner:   r,
		sessions: sessions,
		appName:  feedbackAgent.Name(),
	}, nil
}

func (a *FeedbackAgent) Run(ctx context.Context, prompt string) (string, error) {
	created, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    feedbackUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", transportError(fmt.Errorf("failed to create agent session: %w", err))
	}
	defer func() {
		_ = a.sessions.Delete(context.Background(), &session.DeleteRequest{
			AppName:   created.Session.AppName(),
			UserID:    created.Session.UserID(),
			SessionID: created.Session.ID(),
		})
	}()

	stream := a.runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", transportError(fmt.Errorf("agent stream: %w", err))
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}

	if output == "" {
		return "", transportError(ErrEmptyResponse)
	}
	return output, nil
}
