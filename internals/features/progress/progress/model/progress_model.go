package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentProgress is the per (student, subject) rollup, upserted inside the
// submit transaction. AverageScore is an online mean over completed attempts.
type StudentProgress struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_subject" json:"student_id"`
	SubjectID            int       `gorm:"not null;uniqueIndex:uq_student_subject" json:"subject_id"`
	TotalQuizzesAssigned int       `gorm:"not null;default:0" json:"total_quizzes_assigned"`
	QuizzesCompleted     int       `gorm:"not null;default:0" json:"quizzes_completed"`
	AverageScore         float64   `gorm:"not null;default:0" json:"average_score"`
	LastActivity         time.Time `gorm:"autoUpdateTime" json:"last_activity"`
}

func (StudentProgress) TableName() string {
	return "student_progress"
}

func (p *StudentProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
