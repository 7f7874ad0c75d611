// Package generator wraps the OpenAI chat API as the content collaborator:
// flashcard batches, quiz batches, writing feedback, and single-turn tutor
// replies. Generated content is treated as opaque; nothing here validates it
// beyond JSON shape.
//
// Generation never blocks the learner. Every operation returns a usable batch
// even on failure: the exported fallback constant plus the causing error, so
// callers can log the failure and carry on.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"hangul-ai/internal/models"
)

// ErrUnavailable is returned (alongside a fallback batch) when the OpenAI
// integration is not configured.
var ErrUnavailable = errors.New("openai integration is not configured")

const requestTimeout = 2 * time.Minute

// Service talks to the chat-completion API. The zero value is a disabled
// service that always serves fallbacks.
type Service struct {
	client *openai.Client
	model  string
}

func New(apiKey, model, endpoint string) *Service {
	if apiKey == "" {
		return &Service{}
	}

	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	return &Service{client: openai.NewClientWithConfig(cfg), model: model}
}

func (s *Service) disabled() bool {
	return s.client == nil || s.model == ""
}

// FallbackCards is the batch served when flashcard generation fails.
func FallbackCards() []models.CardContent {
	return []models.CardContent{
		{Front: "학교", Back: "school", Example: "저는 학교에 가요."},
		{Front: "친구", Back: "friend", Example: "친구를 만나요."},
		{Front: "가족", Back: "family", Example: "우리 가족은 네 명이에요."},
	}
}

// FallbackQuiz is the batch served when quiz generation fails.
func FallbackQuiz() []models.QuizQuestion {
	return []models.QuizQuestion{
		{
			Question: "What does '학교' mean?",
			Options:  []string{"School", "Book", "Friend", "Teacher"},
			Answer:   "School",
		},
	}
}

// FallbackFeedback is served when feedback generation fails.
const FallbackFeedback = "Feedback is unavailable right now. Your submission was saved; try again later."

// FallbackReply is served when the tutor is unreachable.
const FallbackReply = "죄송해요, the tutor is unavailable right now. Please try again in a moment."

// Flashcards generates cards for the topic. On failure the returned batch is
// FallbackCards and the error describes what went wrong.
func (s *Service) Flashcards(ctx context.Context, topic string) ([]models.CardContent, error) {
	if s.disabled() {
		return FallbackCards(), ErrUnavailable
	}

	prompt := fmt.Sprintf(`Generate 5 Korean flashcards for the topic %q.
Respond ONLY with a JSON array, nothing else:
[{"front":"Korean word or phrase","back":"English meaning","example":"Korean example sentence"}]`, topic)

	raw, err := s.complete(ctx, "You create Korean vocabulary flashcards as JSON.", prompt)
	if err != nil {
		return FallbackCards(), err
	}

	cards, err := parseCards(raw)
	if err != nil {
		return FallbackCards(), err
	}
	return cards, nil
}

// Quiz generates multiple-choice questions for the topic, falling back to
// FallbackQuiz on failure.
func (s *Service) Quiz(ctx context.Context, topic string) ([]models.QuizQuestion, error) {
	if s.disabled() {
		return FallbackQuiz(), ErrUnavailable
	}

	prompt := fmt.Sprintf(`Create 3 Korean multiple-choice quizzes about %q.
Respond ONLY with a JSON array, nothing else:
[{"question":"What does '학교' mean?","options":["School","Teacher","Book","Friend"],"answer":"School"}]`, topic)

	raw, err := s.complete(ctx, "You are a JSON-only quiz generator.", prompt)
	if err != nil {
		return FallbackQuiz(), err
	}

	quiz, err := parseQuiz(raw)
	if err != nil {
		return FallbackQuiz(), err
	}
	return quiz, nil
}

// Feedback asks the tutor to review a writing submission.
func (s *Service) Feedback(ctx context.Context, topic, task, response string) (string, error) {
	if s.disabled() {
		return FallbackFeedback, ErrUnavailable
	}

	prompt := fmt.Sprintf("Topic: %s\nTask: %s\nStudent response:\n%s", topic, task, response)
	raw, err := s.complete(ctx, "You are a Korean teacher. Give constructive feedback on the student's writing.", prompt)
	if err != nil {
		return FallbackFeedback, err
	}
	return strings.TrimSpace(raw), nil
}

// TutorReply answers a single chat message. Conversation memory is
// deliberately absent; each call stands alone.
func (s *Service) TutorReply(ctx context.Context, message string) (string, error) {
	if s.disabled() {
		return FallbackReply, ErrUnavailable
	}

	raw, err := s.complete(ctx, "You are a helpful Korean tutor.", message)
	if err != nil {
		return FallbackReply, err
	}
	return strings.TrimSpace(raw), nil
}

func (s *Service) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseCards(raw string) ([]models.CardContent, error) {
	var cards []models.CardContent
	if err := json.Unmarshal([]byte(extractJSON(raw)), &cards); err != nil {
		return nil, fmt.Errorf("unmarshal flashcard json: %w", err)
	}
	if len(cards) == 0 {
		return nil, errors.New("empty flashcard batch")
	}
	return cards, nil
}

func parseQuiz(raw string) ([]models.QuizQuestion, error) {
	var quiz []models.QuizQuestion
	if err := json.Unmarshal([]byte(extractJSON(raw)), &quiz); err != nil {
		return nil, fmt.Errorf("unmarshal quiz json: %w", err)
	}
	if len(quiz) == 0 {
		return nil, errors.New("empty quiz batch")
	}
	return quiz, nil
}

// extractJSON strips markdown code fences and surrounding prose, keeping the
// outermost JSON array.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		start := 3
		if newlineIdx := strings.Index(content[start:], "\n"); newlineIdx != -1 {
			start += newlineIdx + 1
		}
		if endIdx := strings.Index(content[start:], "```"); endIdx != -1 {
			content = content[start : start+endIdx]
		} else {
			content = content[start:]
		}
	}

	content = strings.TrimSpace(content)

	if startIdx := strings.Index(content, "["); startIdx != -1 {
		if endIdx := strings.LastIndex(content, "]"); endIdx > startIdx {
			content = content[startIdx : endIdx+1]
		}
	}

	return strings.TrimSpace(content)
}
