package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// AssignmentModel links one quiz to one student. The (quiz, student) pair is
// unique at the schema level so concurrent assign calls cannot create
// duplicates.
type AssignmentModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_student" json:"quiz_id"`
	StudentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_student;index" json:"student_id"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:'assigned'" json:"status"`

	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}

func (AssignmentModel) TableName() string {
	return "quiz_assignments"
}

func (a *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
