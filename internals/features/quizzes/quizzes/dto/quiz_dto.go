package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================
   Requests
   ========================= */

type OptionInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionInput struct {
	QuestionText string        `json:"questionText" validate:"required"`
	QuestionType string        `json:"questionType"`
	Points       int           `json:"points"`
	Options      []OptionInput `json:"options" validate:"required,min=2,max=6,dive"`
}

type CreateQuizRequest struct {
	Title           string          `json:"title" validate:"required,min=3,max=255"`
	SubjectID       int             `json:"subjectId" validate:"required,gt=0"`
	DifficultyLevel string          `json:"difficultyLevel" validate:"required,oneof=easy medium hard"`
	DurationMinutes int             `json:"durationMinutes" validate:"required,gt=0,lte=240"`
	Questions       []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type GenerateQuizRequest struct {
	SubjectID    int      `json:"subjectId" validate:"required,gt=0"`
	Topics       []string `json:"topics" validate:"required,min=1"`
	NumQuestions int      `json:"numQuestions" validate:"required,gt=0,lte=50"`
	Difficulty   string   `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

type AssignQuizRequest struct {
	StudentIDs []uuid.UUID `json:"studentIds" validate:"required,min=1"`
	DueDate    *time.Time  `json:"dueDate"`
}

/* =========================
   Responses
   ========================= */

type QuizSummary struct {
	ID               uuid.UUID      `json:"id"`
	Title            string         `json:"title"`
	SubjectID        int            `json:"subject_id"`
	SubjectName      string         `json:"subject_name"`
	DifficultyLevel  string         `json:"difficulty_level"`
	TotalQuestions   int            `json:"total_questions"`
	DurationMinutes  int            `json:"duration_minutes"`
	StudentsAssigned int            `json:"students_assigned"`
	AvgScore         float64        `json:"avg_score"`
	GenerationMeta   datatypes.JSON `json:"generation_meta,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}
