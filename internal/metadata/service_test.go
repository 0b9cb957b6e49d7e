package metadata

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// scriptedChat returns canned completions keyed by a substring of the
// prompt, recording every request it sees.
type scriptedChat struct {
	responses map[string]string
	requests  []openai.ChatCompletionRequest
	err       error
}

func (c *scriptedChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}

	prompt := req.Messages[0].Content
	for key, response := range c.responses {
		if strings.Contains(prompt, key) {
			return completionOf(response), nil
		}
	}
	return completionOf(""), nil
}

func completionOf(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestGenerateProducesFullDraft(t *testing.T) {
	chat := &scriptedChat{responses: map[string]string{
		"compelling YouTube video title": "  Baking Sourdough at Home  ",
		"video description":              "A walkthrough of the full bake.",
		"comma-separated":                "baking, sourdough, bread",
		"category ID":                    "26",
	}}
	svc := NewService(chat, "")

	draft, err := svc.Generate(context.Background(), Input{Text: "sourdough tutorial"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if draft.Title != "Baking Sourdough at Home" {
		t.Fatalf("expected trimmed title, got %q", draft.Title)
	}
	if draft.Description != "A walkthrough of the full bake." {
		t.Fatalf("unexpected description %q", draft.Description)
	}
	if len(draft.Tags) != 3 || draft.Tags[0] != "baking" {
		t.Fatalf("unexpected tags %v", draft.Tags)
	}
	if draft.CategoryID != "26" {
		t.Fatalf("expected category 26, got %q", draft.CategoryID)
	}

	if len(chat.requests) != 4 {
		t.Fatalf("expected 4 completions, got %d", len(chat.requests))
	}
	for _, req := range chat.requests {
		if req.Model != openai.GPT4oMini {
			t.Fatalf("expected default model, got %q", req.Model)
		}
	}
}

func TestGenerateFallsBackToDefaultCategory(t *testing.T) {
	chat := &scriptedChat{responses: map[string]string{
		"category ID": "this is not a category",
	}}
	svc := NewService(chat, "gpt-4o")

	draft, err := svc.Generate(context.Background(), Input{Text: "anything"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if draft.CategoryID != DefaultCategoryID {
		t.Fatalf("expected fallback category %q, got %q", DefaultCategoryID, draft.CategoryID)
	}
}

func TestGenerateFailsWithoutPartialResult(t *testing.T) {
	chat := &scriptedChat{err: errors.New("rate limited")}
	svc := NewService(chat, "")

	if _, err := svc.Generate(context.Background(), Input{Text: "anything"}); err == nil {
		t.Fatal("expected error")
	}
	if len(chat.requests) != 1 {
		t.Fatalf("expected synthesis to stop at first failure, got %d requests", len(chat.requests))
	}
}

func TestKeywordsSplitsCompletion(t *testing.T) {
	chat := &scriptedChat{responses: map[string]string{
		"keywords": "go, http server, , backend ,",
	}}
	svc := NewService(chat, "")

	keywords, err := svc.Keywords(context.Background(), "building an http server in go")
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	want := []string{"go", "http server", "backend"}
	if len(keywords) != len(want) {
		t.Fatalf("expected %v, got %v", want, keywords)
	}
	for i := range want {
		if keywords[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keywords)
		}
	}
}

func TestEmptyCompletionIsAnError(t *testing.T) {
	svc := NewService(noChoicesChat{}, "")

	if _, err := svc.Title(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

type noChoicesChat struct{}

func (noChoicesChat) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}
