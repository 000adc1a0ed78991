package service

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"eduplay_backend/internals/features/quizzes/quizzes/dto"
	"eduplay_backend/internals/features/quizzes/quizzes/model"
)

// ValidateQuestions enforces the authoring rule the scorer depends on:
// every question carries exactly one correct option.
func ValidateQuestions(questions []dto.QuestionInput) error {
	for i, q := range questions {
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fiber.NewError(fiber.StatusBadRequest,
				"Each question must have exactly one correct option (question "+strconv.Itoa(i+1)+")")
		}
	}
	return nil
}

// CreateQuiz persists quiz → questions → options in one transaction; any
// failure rolls the whole quiz back. Both the manual and the AI path land
// here.
func CreateQuiz(db *gorm.DB, teacherID uuid.UUID, in dto.CreateQuizRequest, meta datatypes.JSON) (*model.QuizModel, error) {
	if err := ValidateQuestions(in.Questions); err != nil {
		return nil, err
	}

	quiz := model.QuizModel{
		Title:           in.Title,
		SubjectID:       in.SubjectID,
		TeacherID:       teacherID,
		DifficultyLevel: in.DifficultyLevel,
		TotalQuestions:  len(in.Questions),
		DurationMinutes: in.DurationMinutes,
		GenerationMeta:  meta,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for _, q := range in.Questions {
			qType := q.QuestionType
			if qType == "" {
				qType = "multiple_choice"
			}
			points := q.Points
			if points <= 0 {
				points = 1
			}
			question := model.QuestionModel{
				QuizID:       quiz.ID,
				QuestionText: q.QuestionText,
				QuestionType: qType,
				Points:       points,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for i, o := range q.Options {
				option := model.QuestionOptionModel{
					QuestionID:  question.ID,
					OptionText:  o.Text,
					IsCorrect:   o.IsCorrect,
					OptionOrder: i + 1,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] create quiz tx:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create quiz")
	}

	return &quiz, nil
}

// DeleteQuiz removes a quiz owned by teacherID together with its questions,
// options, assignments, attempts and answers. Returns NotFound when the quiz
// does not exist or belongs to another teacher.
func DeleteQuiz(db *gorm.DB, teacherID, quizID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var quiz model.QuizModel
		if err := tx.Where("id = ? AND teacher_id = ?", quizID, teacherID).First(&quiz).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Quiz not found or unauthorized")
		}

		if err := tx.Exec(`DELETE FROM student_answers WHERE attempt_id IN (SELECT id FROM quiz_attempts WHERE quiz_id = ?)`, quizID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM quiz_attempts WHERE quiz_id = ?`, quizID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM quiz_assignments WHERE quiz_id = ?`, quizID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM question_options WHERE question_id IN (SELECT id FROM questions WHERE quiz_id = ?)`, quizID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM questions WHERE quiz_id = ?`, quizID).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
}

