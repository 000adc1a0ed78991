package dto

import (
	"time"

	"github.com/google/uuid"

	attemptModel "eduplay_backend/internals/features/quizzes/attempts/model"
)

/* =========================
   Requests
   ========================= */

type AnswerInput struct {
	QuestionID       uuid.UUID `json:"questionId" validate:"required"`
	SelectedOptionID uuid.UUID `json:"selectedOptionId" validate:"required"`
}

type SubmitQuizRequest struct {
	Answers []AnswerInput `json:"answers" validate:"dive"`
}

/* =========================
   Responses
   ========================= */

// OptionPublic is the student-facing option shape: the correctness flag is
// deliberately absent.
type OptionPublic struct {
	ID          uuid.UUID `json:"id"`
	OptionText  string    `json:"optionText"`
	OptionOrder int       `json:"optionOrder"`
}

type QuestionPublic struct {
	ID           uuid.UUID      `json:"id"`
	QuestionText string         `json:"question_text"`
	QuestionType string         `json:"question_type"`
	Points       int            `json:"points"`
	Options      []OptionPublic `json:"options"`
}

type StartQuizResponse struct {
	Attempt attemptModel.AttemptModel `json:"attempt"`
	Quiz    QuizPayload               `json:"quiz"`
}

type QuizPayload struct {
	Title           string           `json:"title"`
	DurationMinutes int              `json:"durationMinutes"`
	Questions       []QuestionPublic `json:"questions"`
}

type SubmitQuizResponse struct {
	Message        string  `json:"message"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	TimeTaken      int     `json:"timeTaken"`
}

type AttemptSummary struct {
	ID               uuid.UUID  `json:"id"`
	QuizID           uuid.UUID  `json:"quiz_id"`
	AssignmentID     uuid.UUID  `json:"assignment_id"`
	Title            string     `json:"title"`
	SubjectName      string     `json:"subject_name"`
	TotalQuestions   int        `json:"total_questions"`
	Score            *float64   `json:"score"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	TimeTakenMinutes *int       `json:"time_taken_minutes"`
}

type AnswerDetail struct {
	QuestionID     uuid.UUID  `json:"question_id"`
	QuestionText   string     `json:"question_text"`
	SelectedOption *string    `json:"selected_option"`
	CorrectOption  *string    `json:"correct_option"`
	IsCorrect      bool       `json:"is_correct"`
	PointsEarned   int        `json:"points_earned"`
	SelectedID     *uuid.UUID `json:"selected_option_id"`
}

type QuizResultsResponse struct {
	Attempt AttemptSummary `json:"attempt"`
	Answers []AnswerDetail `json:"answers"`
}
