package service_test

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduplay_backend/internals/constants"
	progressModel "eduplay_backend/internals/features/progress/progress/model"
	assignmentModel "eduplay_backend/internals/features/quizzes/assignments/model"
	"eduplay_backend/internals/features/quizzes/attempts/dto"
	attemptModel "eduplay_backend/internals/features/quizzes/attempts/model"
	"eduplay_backend/internals/features/quizzes/attempts/service"
	"eduplay_backend/internals/testutil"
)

func expectFiberStatus(t *testing.T, err error, want int) {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected fiber error, got %v", err)
	}
	if fe.Code != want {
		t.Fatalf("expected status %d, got %d (%s)", want, fe.Code, fe.Message)
	}
}

func setupAttempt(t *testing.T, db *gorm.DB) (teacherID, studentID, quizID, assignmentID uuid.UUID) {
	t.Helper()
	teacher := testutil.CreateUser(t, db, constants.RoleTeacher, "teacher@school.test")
	student := testutil.CreateUser(t, db, constants.RoleStudent, "student@school.test")
	quiz := testutil.CreateQuiz(t, db, teacher.ID, 1)
	assignment := testutil.AssignQuiz(t, db, quiz.ID, student.ID)
	return teacher.ID, student.ID, quiz.ID, assignment.ID
}

func TestStartAttempt(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, _, assignmentID := setupAttempt(t, db)

	out, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	if out.Attempt.AssignmentID != assignmentID {
		t.Fatalf("attempt bound to wrong assignment")
	}
	if len(out.Quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(out.Quiz.Questions))
	}
	for _, q := range out.Quiz.Questions {
		if len(q.Options) != 2 {
			t.Fatalf("expected 2 options, got %d", len(q.Options))
		}
	}

	var assignment assignmentModel.AssignmentModel
	if err := db.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		t.Fatalf("reload assignment: %v", err)
	}
	if assignment.Status != assignmentModel.StatusInProgress {
		t.Fatalf("expected status in_progress, got %s", assignment.Status)
	}
}

func TestStartAttemptForeignAssignment(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, _, _, assignmentID := setupAttempt(t, db)
	other := testutil.CreateUser(t, db, constants.RoleStudent, "other@school.test")

	_, err := service.StartAttempt(db, assignmentID, other.ID)
	expectFiberStatus(t, err, fiber.StatusNotFound)
}

func TestStartAttemptRestartKeepsSingleRow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, _, assignmentID := setupAttempt(t, db)

	first, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if first.Attempt.ID != second.Attempt.ID {
		t.Fatalf("restart created a new attempt row")
	}

	var count int64
	if err := db.Model(&attemptModel.AttemptModel{}).
		Where("assignment_id = ?", assignmentID).Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 attempt row, got %d", count)
	}
}

func submitWith(t *testing.T, db *gorm.DB, quizID uuid.UUID, correct int) []dto.AnswerInput {
	t.Helper()
	questions := testutil.Questions(t, db, quizID)
	answers := make([]dto.AnswerInput, 0, len(questions))
	for i, q := range questions {
		optionID := testutil.WrongOption(t, db, q.ID)
		if i < correct {
			optionID = testutil.CorrectOption(t, db, q.ID)
		}
		answers = append(answers, dto.AnswerInput{QuestionID: q.ID, SelectedOptionID: optionID})
	}
	return answers
}

func TestSubmitAttemptScoresAndRollsUpProgress(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, quizID, assignmentID := setupAttempt(t, db)

	started, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	out, err := service.SubmitAttempt(db, started.Attempt.ID, studentID, submitWith(t, db, quizID, 1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 50 {
		t.Fatalf("expected score 50, got %v", out.Score)
	}
	if out.CorrectAnswers != 1 {
		t.Fatalf("expected 1 correct answer, got %d", out.CorrectAnswers)
	}
	if out.TotalQuestions != 2 {
		t.Fatalf("expected 2 total questions, got %d", out.TotalQuestions)
	}

	var attempt attemptModel.AttemptModel
	if err := db.First(&attempt, "id = ?", started.Attempt.ID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if attempt.CompletedAt == nil || attempt.Score == nil || *attempt.Score != 50 {
		t.Fatalf("attempt not finalized: %+v", attempt)
	}

	var assignment assignmentModel.AssignmentModel
	if err := db.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		t.Fatalf("reload assignment: %v", err)
	}
	if assignment.Status != assignmentModel.StatusCompleted {
		t.Fatalf("expected assignment completed, got %s", assignment.Status)
	}

	var progress progressModel.StudentProgress
	if err := db.Where("student_id = ? AND subject_id = ?", studentID, 1).
		First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if progress.QuizzesCompleted != 1 || progress.AverageScore != 50 {
		t.Fatalf("unexpected progress row: %+v", progress)
	}
}

func TestSubmitAttemptResubmitRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, quizID, assignmentID := setupAttempt(t, db)

	started, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.SubmitAttempt(db, started.Attempt.ID, studentID, submitWith(t, db, quizID, 2)); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err = service.SubmitAttempt(db, started.Attempt.ID, studentID, submitWith(t, db, quizID, 0))
	expectFiberStatus(t, err, fiber.StatusBadRequest)

	// first result stands
	var attempt attemptModel.AttemptModel
	if err := db.First(&attempt, "id = ?", started.Attempt.ID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if attempt.Score == nil || *attempt.Score != 100 {
		t.Fatalf("resubmission changed score: %+v", attempt.Score)
	}
}

func TestStartAttemptAfterCompletionRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, quizID, assignmentID := setupAttempt(t, db)

	started, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.SubmitAttempt(db, started.Attempt.ID, studentID, submitWith(t, db, quizID, 2)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = service.StartAttempt(db, assignmentID, studentID)
	expectFiberStatus(t, err, fiber.StatusBadRequest)
}

func TestSubmitAttemptEmptyAnswersScoresZero(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, _, assignmentID := setupAttempt(t, db)

	started, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := service.SubmitAttempt(db, started.Attempt.ID, studentID, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 0 || out.CorrectAnswers != 0 {
		t.Fatalf("expected zero score, got %+v", out)
	}
}

func TestProgressAverageAcrossQuizzes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	teacherID, studentID, quiz1, assignment1 := setupAttempt(t, db)

	quiz2 := testutil.CreateQuiz(t, db, teacherID, 1)
	assignment2 := testutil.AssignQuiz(t, db, quiz2.ID, studentID)

	a1, err := service.StartAttempt(db, assignment1, studentID)
	if err != nil {
		t.Fatalf("start 1: %v", err)
	}
	if _, err := service.SubmitAttempt(db, a1.Attempt.ID, studentID, submitWith(t, db, quiz1, 2)); err != nil {
		t.Fatalf("submit 1: %v", err)
	}

	a2, err := service.StartAttempt(db, assignment2.ID, studentID)
	if err != nil {
		t.Fatalf("start 2: %v", err)
	}
	if _, err := service.SubmitAttempt(db, a2.Attempt.ID, studentID, submitWith(t, db, quiz2.ID, 1)); err != nil {
		t.Fatalf("submit 2: %v", err)
	}

	var progress progressModel.StudentProgress
	if err := db.Where("student_id = ? AND subject_id = ?", studentID, 1).
		First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if progress.QuizzesCompleted != 2 {
		t.Fatalf("expected 2 completed, got %d", progress.QuizzesCompleted)
	}
	// (100 + 50) / 2
	if progress.AverageScore != 75 {
		t.Fatalf("expected average 75, got %v", progress.AverageScore)
	}
}

func TestGetResults(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, quizID, assignmentID := setupAttempt(t, db)

	started, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.SubmitAttempt(db, started.Attempt.ID, studentID, submitWith(t, db, quizID, 1)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	results, err := service.GetResults(db, started.Attempt.ID, studentID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if results.Attempt.Score == nil || *results.Attempt.Score != 50 {
		t.Fatalf("unexpected summary score: %+v", results.Attempt.Score)
	}
	if len(results.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(results.Answers))
	}
	for _, a := range results.Answers {
		if a.CorrectOption == nil || *a.CorrectOption == "" {
			t.Fatalf("correct option text missing for %s", a.QuestionID)
		}
	}

	other := testutil.CreateUser(t, db, constants.RoleStudent, "peek@school.test")
	_, err = service.GetResults(db, started.Attempt.ID, other.ID)
	expectFiberStatus(t, err, fiber.StatusNotFound)
}

func TestSubmitAttemptDuplicateAnswersScoreOnce(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, quizID, assignmentID := setupAttempt(t, db)

	started, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	questions := testutil.Questions(t, db, quizID)
	c1 := testutil.CorrectOption(t, db, questions[0].ID)
	c2 := testutil.CorrectOption(t, db, questions[1].ID)

	// the first question answered twice must count once
	out, err := service.SubmitAttempt(db, started.Attempt.ID, studentID, []dto.AnswerInput{
		{QuestionID: questions[0].ID, SelectedOptionID: c1},
		{QuestionID: questions[0].ID, SelectedOptionID: c1},
		{QuestionID: questions[1].ID, SelectedOptionID: c2},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 100 {
		t.Fatalf("expected score 100, got %v", out.Score)
	}
	if out.CorrectAnswers != 2 {
		t.Fatalf("expected 2 correct answers, got %d", out.CorrectAnswers)
	}

	var count int64
	if err := db.Model(&attemptModel.AnswerModel{}).
		Where("attempt_id = ?", started.Attempt.ID).Count(&count).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 answer rows, got %d", count)
	}
}

func TestSubmitAttemptIgnoresForeignOption(t *testing.T) {
	db := testutil.OpenTestDB(t)
	_, studentID, quizID, assignmentID := setupAttempt(t, db)

	started, err := service.StartAttempt(db, assignmentID, studentID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	questions := testutil.Questions(t, db, quizID)
	// an option belonging to a different question earns nothing
	out, err := service.SubmitAttempt(db, started.Attempt.ID, studentID, []dto.AnswerInput{
		{QuestionID: questions[0].ID, SelectedOptionID: testutil.CorrectOption(t, db, questions[1].ID)},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 0 || out.CorrectAnswers != 0 {
		t.Fatalf("mismatched option earned credit: %+v", out)
	}
}
