package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func TestGenerateFromPDFWithoutClientFallsBack(t *testing.T) {
	g := NewGenerator("")
	path := filepath.Join(t.TempDir(), "missing.pdf")

	quiz, usedFallback := g.GenerateFromPDF(context.Background(), path, []string{"Fractions"}, 5, "easy")
	if !usedFallback {
		t.Fatalf("expected fallback")
	}
	if quiz.Title != "Fractions Quiz - easy" {
		t.Fatalf("unexpected title: %s", quiz.Title)
	}
	if len(quiz.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		want := fmt.Sprintf("Question %d about Fractions", i+1)
		if q.Question != want {
			t.Fatalf("question %d: got %q, want %q", i, q.Question, want)
		}
		if len(q.Options) != 4 {
			t.Fatalf("question %d: expected 4 options, got %d", i, len(q.Options))
		}
		if q.CorrectAnswer != 0 {
			t.Fatalf("question %d: fallback correct answer must be the first option", i)
		}
	}
}

func TestFallbackDefaultsTopic(t *testing.T) {
	g := NewGenerator("")
	quiz := g.fallback(nil, 2, "medium")
	if quiz.Title != "General Knowledge Quiz - medium" {
		t.Fatalf("unexpected title: %s", quiz.Title)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
}
