package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduplay_backend/internals/features/progress/progress/model"
)

// RecordCompletion upserts the (student, subject) rollup after a completed
// attempt. The average is an online mean: each completed attempt contributes
// one equally-weighted score, so
// new_avg = (old_avg * old_count + score) / (old_count + 1) stays exact.
// Runs inside the caller's submit transaction.
func RecordCompletion(tx *gorm.DB, studentID uuid.UUID, subjectID int, score float64) error {
	now := time.Now()
	row := model.StudentProgress{
		StudentID:            studentID,
		SubjectID:            subjectID,
		TotalQuizzesAssigned: 1,
		QuizzesCompleted:     1,
		AverageScore:         score,
		LastActivity:         now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quizzes_completed": gorm.Expr("student_progress.quizzes_completed + 1"),
			"average_score": gorm.Expr(
				"(student_progress.average_score * student_progress.quizzes_completed + ?) / (student_progress.quizzes_completed + 1)",
				score),
			"last_activity": now,
		}),
	}).Create(&row).Error
}
