package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	SubjectID       int       `gorm:"not null;index" json:"subject_id"`
	TeacherID       uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	DifficultyLevel string    `gorm:"type:varchar(20);not null;default:'medium'" json:"difficulty_level"`
	TotalQuestions  int       `gorm:"not null" json:"total_questions"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`

	// Set only for AI-generated quizzes: topics, source file, model used,
	// whether the fallback kicked in.
	GenerationMeta datatypes.JSON `gorm:"type:jsonb" json:"generation_meta,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Questions []QuestionModel `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (QuizModel) TableName() string {
	return "quizzes"
}

func (q *QuizModel) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type QuestionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType string    `gorm:"type:varchar(30);not null;default:'multiple_choice'" json:"question_type"`
	Points       int       `gorm:"not null;default:1" json:"points"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Options []QuestionOptionModel `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

func (q *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type QuestionOptionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	OptionText  string    `gorm:"type:text;not null" json:"option_text"`
	IsCorrect   bool      `gorm:"not null;default:false" json:"is_correct"`
	OptionOrder int       `gorm:"not null" json:"option_order"`
}

func (QuestionOptionModel) TableName() string {
	return "question_options"
}

func (o *QuestionOptionModel) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
