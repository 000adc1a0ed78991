package service

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	progressService "eduplay_backend/internals/features/progress/progress/service"
	assignmentModel "eduplay_backend/internals/features/quizzes/assignments/model"
	"eduplay_backend/internals/features/quizzes/attempts/dto"
	attemptModel "eduplay_backend/internals/features/quizzes/attempts/model"
	quizModel "eduplay_backend/internals/features/quizzes/quizzes/model"
)

/* ==========================
   Start
========================== */

// StartAttempt creates (or restarts) the single attempt for an assignment.
// The attempt row is keyed by a unique assignment_id, so two concurrent
// starts collapse into one row: the insert either wins or turns into a
// started_at refresh.
func StartAttempt(db *gorm.DB, assignmentID, studentID uuid.UUID) (*dto.StartQuizResponse, error) {
	var out dto.StartQuizResponse

	err := db.Transaction(func(tx *gorm.DB) error {
		// ownership check: an assignment of another student is simply not found
		var assignment assignmentModel.AssignmentModel
		if err := tx.Where("id = ? AND student_id = ?", assignmentID, studentID).
			First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Assignment not found")
			}
			return err
		}

		var quiz quizModel.QuizModel
		if err := tx.First(&quiz, "id = ?", assignment.QuizID).Error; err != nil {
			return err
		}

		var completed int64
		if err := tx.Model(&attemptModel.AttemptModel{}).
			Where("assignment_id = ? AND completed_at IS NOT NULL", assignmentID).
			Count(&completed).Error; err != nil {
			return err
		}
		if completed > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quiz already completed")
		}

		now := time.Now()
		attempt := attemptModel.AttemptModel{
			AssignmentID: assignmentID,
			StudentID:    studentID,
			QuizID:       quiz.ID,
			TotalPoints:  quiz.TotalQuestions,
			StartedAt:    now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assignment_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"started_at": now}),
		}).Create(&attempt).Error
		if err != nil && !isUniqueViolation(err) {
			return err
		}
		// re-read into a fresh value: on restart the row keeps its original
		// id, not the one BeforeCreate put on the insert candidate
		var current attemptModel.AttemptModel
		if err := tx.Where("assignment_id = ?", assignmentID).First(&current).Error; err != nil {
			return err
		}
		attempt = current

		if err := tx.Model(&assignment).
			Update("status", assignmentModel.StatusInProgress).Error; err != nil {
			return err
		}

		questions, err := loadQuestionsForStudent(tx, quiz.ID)
		if err != nil {
			return err
		}

		out = dto.StartQuizResponse{
			Attempt: attempt,
			Quiz: dto.QuizPayload{
				Title:           quiz.Title,
				DurationMinutes: quiz.DurationMinutes,
				Questions:       questions,
			},
		}
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return nil, err
		}
		log.Println("[ERROR] start attempt tx:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to start quiz")
	}
	return &out, nil
}

// loadQuestionsForStudent returns the question set without correctness flags.
func loadQuestionsForStudent(tx *gorm.DB, quizID uuid.UUID) ([]dto.QuestionPublic, error) {
	var questions []quizModel.QuestionModel
	if err := tx.Where("quiz_id = ?", quizID).Order("created_at, id").Find(&questions).Error; err != nil {
		return nil, err
	}

	out := make([]dto.QuestionPublic, 0, len(questions))
	for _, q := range questions {
		var options []quizModel.QuestionOptionModel
		if err := tx.Where("question_id = ?", q.ID).Order("option_order").Find(&options).Error; err != nil {
			return nil, err
		}
		pub := dto.QuestionPublic{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			Options:      make([]dto.OptionPublic, 0, len(options)),
		}
		for _, o := range options {
			pub.Options = append(pub.Options, dto.OptionPublic{
				ID:          o.ID,
				OptionText:  o.OptionText,
				OptionOrder: o.OptionOrder,
			})
		}
		out = append(out, pub)
	}
	return out, nil
}

/* ==========================
   Submit
========================== */

// SubmitAttempt scores the attempt and persists answers, attempt result,
// assignment status and the progress rollup in one transaction. Resubmission
// of a completed attempt is rejected before anything is written.
func SubmitAttempt(db *gorm.DB, attemptID, studentID uuid.UUID, answers []dto.AnswerInput) (*dto.SubmitQuizResponse, error) {
	var out dto.SubmitQuizResponse

	err := db.Transaction(func(tx *gorm.DB) error {
		var attempt attemptModel.AttemptModel
		if err := tx.Where("id = ? AND student_id = ?", attemptID, studentID).
			First(&attempt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Attempt not found")
			}
			return err
		}
		if attempt.CompletedAt != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Quiz already submitted")
		}

		totalScore := 0
		correctAnswers := 0
		answered := make(map[uuid.UUID]bool, len(answers))
		for _, answer := range answers {
			// one answer per question; repeats can never push the score
			// past 100
			if answered[answer.QuestionID] {
				continue
			}

			var question quizModel.QuestionModel
			if err := tx.First(&question, "id = ? AND quiz_id = ?", answer.QuestionID, attempt.QuizID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // question from another quiz: no credit, no error
				}
				return err
			}

			var option quizModel.QuestionOptionModel
			if err := tx.First(&option, "id = ? AND question_id = ?", answer.SelectedOptionID, answer.QuestionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // unknown or foreign option: no credit, no error
				}
				return err
			}
			answered[answer.QuestionID] = true

			pointsEarned := 0
			if option.IsCorrect {
				pointsEarned = 1
				correctAnswers++
				totalScore += pointsEarned
			}

			selected := answer.SelectedOptionID
			row := attemptModel.AnswerModel{
				AttemptID:        attempt.ID,
				QuestionID:       answer.QuestionID,
				SelectedOptionID: &selected,
				IsCorrect:        option.IsCorrect,
				PointsEarned:     pointsEarned,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		scorePercentage := 0.0
		if attempt.TotalPoints > 0 {
			scorePercentage = float64(totalScore) / float64(attempt.TotalPoints) * 100
		}

		now := time.Now()
		timeTaken := int(math.Floor(now.Sub(attempt.StartedAt).Minutes()))
		if timeTaken < 0 {
			timeTaken = 0
		}

		if err := tx.Model(&attempt).Updates(map[string]interface{}{
			"score":              scorePercentage,
			"completed_at":       now,
			"time_taken_minutes": timeTaken,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&assignmentModel.AssignmentModel{}).
			Where("id = ?", attempt.AssignmentID).
			Update("status", assignmentModel.StatusCompleted).Error; err != nil {
			return err
		}

		var subjectID int
		if err := tx.Raw(`SELECT subject_id FROM quizzes WHERE id = ?`, attempt.QuizID).
			Scan(&subjectID).Error; err != nil {
			return err
		}
		if err := progressService.RecordCompletion(tx, studentID, subjectID, scorePercentage); err != nil {
			return err
		}

		out = dto.SubmitQuizResponse{
			Message:        "Quiz submitted successfully",
			Score:          scorePercentage,
			CorrectAnswers: correctAnswers,
			TotalQuestions: attempt.TotalPoints,
			TimeTaken:      timeTaken,
		}
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return nil, err
		}
		log.Println("[ERROR] submit attempt tx:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to submit quiz")
	}
	return &out, nil
}

/* ==========================
   Results
========================== */

// GetResults returns the attempt summary plus each answer with the question
// text, the chosen option and the text of the option flagged correct.
func GetResults(db *gorm.DB, attemptID, studentID uuid.UUID) (*dto.QuizResultsResponse, error) {
	var summary dto.AttemptSummary
	res := db.Raw(`
		SELECT qat.id, qat.quiz_id, qat.assignment_id, q.title, s.name AS subject_name,
		       q.total_questions, qat.score, qat.started_at, qat.completed_at,
		       qat.time_taken_minutes
		FROM quiz_attempts qat
		JOIN quizzes q ON qat.quiz_id = q.id
		JOIN subjects s ON q.subject_id = s.id
		WHERE qat.id = ? AND qat.student_id = ?`, attemptID, studentID).Scan(&summary)
	if res.Error != nil {
		log.Println("[ERROR] results summary:", res.Error)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch quiz results")
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Results not found")
	}

	var answers []dto.AnswerDetail
	err := db.Raw(`
		SELECT sa.question_id, q.question_text, sa.is_correct, sa.points_earned,
		       sa.selected_option_id AS selected_id,
		       qo.option_text AS selected_option,
		       (SELECT option_text FROM question_options
		        WHERE question_id = q.id AND is_correct = ? LIMIT 1) AS correct_option
		FROM student_answers sa
		JOIN questions q ON sa.question_id = q.id
		LEFT JOIN question_options qo ON sa.selected_option_id = qo.id
		WHERE sa.attempt_id = ?
		ORDER BY q.created_at, q.id`, true, attemptID).Scan(&answers).Error
	if err != nil {
		log.Println("[ERROR] results answers:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch quiz results")
	}

	return &dto.QuizResultsResponse{Attempt: summary, Answers: answers}, nil
}

/* ==========================
   Helpers
========================== */

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
