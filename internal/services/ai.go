package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// TaskSuggester proposes tasks for a project from free text.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, req SuggestionRequest) ([]TaskSuggestion, error)
}

// SuggestionRequest is the context handed to the model.
type SuggestionRequest struct {
	ProjectName        string
	ProjectDescription string
	Text               string
	Now                time.Time
}

// TaskSuggestion is a task proposed by the model. It is not persisted.
type TaskSuggestion struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

// AIService suggests tasks using the OpenAI chat API.
type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// SuggestTasks asks the model to break the text down into project tasks
func (s *AIService) SuggestTasks(ctx context.Context, req SuggestionRequest) ([]TaskSuggestion, error) {
	if s.client == nil {
		return nil, ErrAINotConfigured
	}

	prompt := fmt.Sprintf(`You are a project planning assistant. Break the following notes into concrete tasks for the project.

Current time: %s
Project: %s
Project description: %s

Notes:
%s

Return a JSON array of tasks in this shape:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "priority": "low | medium | high",
    "deadline": "ISO8601 timestamp, e.g. 2025-10-28T23:59:59Z, or null when no deadline is implied"
  }
]

Rules:
- Return [] when the notes contain no tasks
- Convert relative dates ("tomorrow", "next week") to absolute timestamps
- Return JSON only, without any explanation`,
		req.Now.Format(time.RFC3339), req.ProjectName, req.ProjectDescription, req.Text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response from OpenAI", ErrAIUnavailable)
	}

	return parseSuggestions(resp.Choices[0].Message.Content)
}

// parseSuggestions decodes the model output, tolerating a fenced code block.
func parseSuggestions(content string) ([]TaskSuggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggestions []TaskSuggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse AI response: %v", ErrAIUnavailable, err)
	}
	return suggestions, nil
}
