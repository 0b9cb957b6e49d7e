package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tubestudio/backend/internal/models"
)

// Sampling temperatures per field: warmer for the creative fields,
// coolest for the enumerable category code.
const (
	titleTemperature       = 0.7
	descriptionTemperature = 0.7
	tagsTemperature        = 0.5
	categoryTemperature    = 0.3
)

// ChatClient is the slice of the OpenAI client used by the synthesis
// service. *openai.Client satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service synthesizes video metadata through single-shot chat
// completions against a language-model API.
type Service struct {
	client ChatClient
	model  string
}

// NewService constructs a synthesis service using the given model.
func NewService(client ChatClient, model string) *Service {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Service{client: client, model: model}
}

// Generate produces a full metadata draft: title, description, tags, and
// category. The four completions are independent; any one failing fails
// the whole synthesis with no partial result.
func (s *Service) Generate(ctx context.Context, in Input) (models.MetadataDraft, error) {
	block := contextBlock(in)

	title, err := s.complete(ctx, titlePrompt(block), 100, titleTemperature)
	if err != nil {
		return models.MetadataDraft{}, fmt.Errorf("generate title: %w", err)
	}

	description, err := s.complete(ctx, descriptionPrompt(block), 800, descriptionTemperature)
	if err != nil {
		return models.MetadataDraft{}, fmt.Errorf("generate description: %w", err)
	}

	tags, err := s.complete(ctx, tagsPrompt(block), 200, tagsTemperature)
	if err != nil {
		return models.MetadataDraft{}, fmt.Errorf("generate tags: %w", err)
	}

	category, err := s.complete(ctx, categoryPrompt(block), 10, categoryTemperature)
	if err != nil {
		return models.MetadataDraft{}, fmt.Errorf("generate category: %w", err)
	}

	return models.MetadataDraft{
		Title:       title,
		Description: description,
		Tags:        SplitTags(tags),
		CategoryID:  NormalizeCategory(category),
	}, nil
}

// Title generates only a video title from the given content.
func (s *Service) Title(ctx context.Context, text string) (string, error) {
	title, err := s.complete(ctx, titlePrompt("Content: "+text), 100, titleTemperature)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	return title, nil
}

// Description generates only a video description from the given content.
func (s *Service) Description(ctx context.Context, text string) (string, error) {
	description, err := s.complete(ctx, descriptionPrompt("Content: "+text), 600, descriptionTemperature)
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	return description, nil
}

// Keywords generates SEO keywords from the given content.
func (s *Service) Keywords(ctx context.Context, text string) ([]string, error) {
	keywords, err := s.complete(ctx, keywordsPrompt(text), 300, tagsTemperature)
	if err != nil {
		return nil, fmt.Errorf("generate keywords: %w", err)
	}
	return SplitTags(keywords), nil
}

func (s *Service) complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
