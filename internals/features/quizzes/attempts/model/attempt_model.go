package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptModel is one student's run at an assigned quiz. AssignmentID is
// unique: an assignment has at most one attempt, enforced by the schema, so
// a concurrent double-start cannot produce two rows.
type AttemptModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"assignment_id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`

	TotalPoints      int        `gorm:"not null" json:"total_points"`
	Score            *float64   `json:"score"`
	StartedAt        time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	TimeTakenMinutes *int       `json:"time_taken_minutes"`
}

func (AttemptModel) TableName() string {
	return "quiz_attempts"
}

func (a *AttemptModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AnswerModel is append-only per attempt.
type AnswerModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"attempt_id"`
	QuestionID       uuid.UUID  `gorm:"type:uuid;not null" json:"question_id"`
	SelectedOptionID *uuid.UUID `gorm:"type:uuid" json:"selected_option_id"`
	IsCorrect        bool       `gorm:"not null" json:"is_correct"`
	PointsEarned     int        `gorm:"not null" json:"points_earned"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (AnswerModel) TableName() string {
	return "student_answers"
}

func (a *AnswerModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
