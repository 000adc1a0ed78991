package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	openai "github.com/sashabaranov/go-openai"
)

const (
	generationModel  = openai.GPT3Dot5Turbo
	excerptMaxChars  = 3000
	fallbackOptCount = 4
)

// GeneratedQuiz is the structured shape the model must return.
type GeneratedQuiz struct {
	Title     string              `json:"title"`
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// ChatCompleter is the slice of the OpenAI client the generator needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Generator struct {
	AI ChatCompleter
}

// NewGenerator returns a Generator backed by OpenAI, or one with no client
// when the key is empty (every generation then takes the fallback path).
func NewGenerator(apiKey string) *Generator {
	if strings.TrimSpace(apiKey) == "" {
		return &Generator{}
	}
	return &Generator{AI: openai.NewClient(apiKey)}
}

// GenerateFromPDF extracts text from the uploaded PDF and asks the model for
// a structured quiz. Every failure mode (extraction, call, parse, bad shape)
// degrades to deterministic placeholder questions; the caller always gets a
// usable quiz. The uploaded file is removed before returning, success or not.
func (g *Generator) GenerateFromPDF(ctx context.Context, pdfPath string, topics []string, numQuestions int, difficulty string) (GeneratedQuiz, bool) {
	defer func() {
		if err := os.Remove(pdfPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[WARN] failed to remove upload %s: %v", pdfPath, err)
		}
	}()

	text, err := extractPDFText(pdfPath)
	if err != nil {
		log.Println("[ERROR] pdf extract:", err)
		return g.fallback(topics, numQuestions, difficulty), true
	}

	quiz, err := g.callModel(ctx, text, topics, numQuestions, difficulty)
	if err != nil {
		log.Println("[ERROR] quiz generation:", err)
		return g.fallback(topics, numQuestions, difficulty), true
	}
	return quiz, false
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	text := buf.String()
	if len(text) > excerptMaxChars {
		text = text[:excerptMaxChars]
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return text, nil
}

func (g *Generator) callModel(ctx context.Context, excerpt string, topics []string, numQuestions int, difficulty string) (GeneratedQuiz, error) {
	if g.AI == nil {
		return GeneratedQuiz{}, fmt.Errorf("generation service not configured")
	}

	prompt := fmt.Sprintf(`Based on the following document content, generate %d multiple choice questions at %s difficulty level focusing on these topics: %s.

Document Content:
%s

Return a JSON object with this structure:
{
  "title": "Quiz Title",
  "questions": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0
    }
  ]
}

Make sure all questions are clear, educational, and at the specified difficulty level.`,
		numQuestions, difficulty, strings.Join(topics, ", "), excerpt)

	resp, err := g.AI.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: generationModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert educator creating educational quizzes. Always respond with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return GeneratedQuiz{}, err
	}
	if len(resp.Choices) == 0 {
		return GeneratedQuiz{}, fmt.Errorf("empty completion response")
	}

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &quiz); err != nil {
		return GeneratedQuiz{}, fmt.Errorf("unparseable completion: %w", err)
	}
	if quiz.Title == "" || len(quiz.Questions) == 0 {
		return GeneratedQuiz{}, fmt.Errorf("completion missing title or questions")
	}
	for i, q := range quiz.Questions {
		if len(q.Options) < 2 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return GeneratedQuiz{}, fmt.Errorf("malformed question %d in completion", i)
		}
	}
	return quiz, nil
}

// fallback builds the deterministic placeholder quiz: one question per
// requested count, four boilerplate options, first option correct.
func (g *Generator) fallback(topics []string, numQuestions int, difficulty string) GeneratedQuiz {
	topic := "General Knowledge"
	if len(topics) > 0 && strings.TrimSpace(topics[0]) != "" {
		topic = topics[0]
	}

	questions := make([]GeneratedQuestion, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		questions = append(questions, GeneratedQuestion{
			Question:      fmt.Sprintf("Question %d about %s", i+1, topic),
			Options:       []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectAnswer: 0,
		})
	}
	return GeneratedQuiz{
		Title:     fmt.Sprintf("%s Quiz - %s", topic, difficulty),
		Questions: questions,
	}
}
