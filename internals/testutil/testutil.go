// file: internals/testutil/testutil.go
// Test fixtures shared by the service and controller tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	progressModel "eduplay_backend/internals/features/progress/progress/model"
	assignmentModel "eduplay_backend/internals/features/quizzes/assignments/model"
	attemptModel "eduplay_backend/internals/features/quizzes/attempts/model"
	quizModel "eduplay_backend/internals/features/quizzes/quizzes/model"
	subjectModel "eduplay_backend/internals/features/school/subjects/model"
	blacklistModel "eduplay_backend/internals/features/users/auth/model"
	userModel "eduplay_backend/internals/features/users/user/model"
	"eduplay_backend/internals/seeds"
)

// OpenTestDB gives each test its own in-memory database with the full
// schema and the subject seed applied.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&blacklistModel.TokenBlacklist{},
		&subjectModel.SubjectModel{},
		&quizModel.QuizModel{},
		&quizModel.QuestionModel{},
		&quizModel.QuestionOptionModel{},
		&assignmentModel.AssignmentModel{},
		&attemptModel.AttemptModel{},
		&attemptModel.AnswerModel{},
		&progressModel.StudentProgress{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := seeds.SeedSubjects(db); err != nil {
		t.Fatalf("seed subjects: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, role, email string) *userModel.UserModel {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	pw := string(hash)
	u := &userModel.UserModel{
		Email:    email,
		Password: &pw,
		FullName: "Test " + role,
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateQuiz builds a two-question quiz owned by teacherID. Each question
// has one correct option (the first) and one wrong option.
func CreateQuiz(t *testing.T, db *gorm.DB, teacherID uuid.UUID, subjectID int) *quizModel.QuizModel {
	t.Helper()

	quiz := &quizModel.QuizModel{
		Title:           "Fractions Basics",
		SubjectID:       subjectID,
		TeacherID:       teacherID,
		DifficultyLevel: "easy",
		DurationMinutes: 30,
		TotalQuestions:  2,
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	for i := 0; i < 2; i++ {
		q := &quizModel.QuestionModel{
			QuizID:       quiz.ID,
			QuestionText: fmt.Sprintf("Question %d", i+1),
			QuestionType: "multiple_choice",
			Points:       1,
		}
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		for j, correct := range []bool{true, false} {
			o := &quizModel.QuestionOptionModel{
				QuestionID:  q.ID,
				OptionText:  fmt.Sprintf("Option %d", j+1),
				IsCorrect:   correct,
				OptionOrder: j,
			}
			if err := db.Create(o).Error; err != nil {
				t.Fatalf("create option: %v", err)
			}
		}
	}
	return quiz
}

func AssignQuiz(t *testing.T, db *gorm.DB, quizID, studentID uuid.UUID) *assignmentModel.AssignmentModel {
	t.Helper()

	a := &assignmentModel.AssignmentModel{
		QuizID:    quizID,
		StudentID: studentID,
		Status:    assignmentModel.StatusAssigned,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("assign quiz: %v", err)
	}
	return a
}

// CorrectOption returns the correct option id for a question.
func CorrectOption(t *testing.T, db *gorm.DB, questionID uuid.UUID) uuid.UUID {
	t.Helper()

	var o quizModel.QuestionOptionModel
	if err := db.Where("question_id = ? AND is_correct = ?", questionID, true).First(&o).Error; err != nil {
		t.Fatalf("find correct option: %v", err)
	}
	return o.ID
}

// WrongOption returns a wrong option id for a question.
func WrongOption(t *testing.T, db *gorm.DB, questionID uuid.UUID) uuid.UUID {
	t.Helper()

	var o quizModel.QuestionOptionModel
	if err := db.Where("question_id = ? AND is_correct = ?", questionID, false).First(&o).Error; err != nil {
		t.Fatalf("find wrong option: %v", err)
	}
	return o.ID
}

// Questions returns a quiz's questions in presentation order.
func Questions(t *testing.T, db *gorm.DB, quizID uuid.UUID) []quizModel.QuestionModel {
	t.Helper()

	var qs []quizModel.QuestionModel
	if err := db.Where("quiz_id = ?", quizID).Order("created_at, id").Find(&qs).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	return qs
}
