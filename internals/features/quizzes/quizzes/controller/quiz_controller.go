// file: internals/features/quizzes/quizzes/controller/quiz_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduplay_backend/internals/configs"
	"eduplay_backend/internals/constants"
	assignmentModel "eduplay_backend/internals/features/quizzes/assignments/model"
	generation "eduplay_backend/internals/features/quizzes/generation/service"
	"eduplay_backend/internals/features/quizzes/quizzes/dto"
	"eduplay_backend/internals/features/quizzes/quizzes/model"
	"eduplay_backend/internals/features/quizzes/quizzes/service"
	helper "eduplay_backend/internals/helpers"
)

type QuizController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Generator *generation.Generator
}

func NewQuizController(db *gorm.DB, gen *generation.Generator) *QuizController {
	return &QuizController{
		DB:        db,
		Validator: validator.New(),
		Generator: gen,
	}
}

/* =========================
   Authoring
   ========================= */

// POST /api/quiz/create
func (ctl *QuizController) Create(c *fiber.Ctx) error {
	teacherID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}

	var in dto.CreateQuizRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(in); err != nil {
		return helper.JsonValidationError(c, err)
	}

	quiz, err := service.CreateQuiz(ctl.DB, teacherID, in, nil)
	if err != nil {
		return err
	}

	return helper.JsonCreated(c, "Quiz created successfully", fiber.Map{"quiz": quiz})
}

// POST /api/quiz/generate — multipart: pdf + topics (JSON array) +
// numQuestions + difficulty + subjectId. Generation failures degrade to the
// placeholder quiz; the only user-facing errors are input errors.
func (ctl *QuizController) Generate(c *fiber.Ctx) error {
	teacherID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "PDF file is required")
	}
	if fileHeader.Size > configs.MaxUploadSize {
		return helper.JsonError(c, fiber.StatusBadRequest, "File too large")
	}
	if constants.DetectFileTypeFromExt(fileHeader.Filename) != constants.FileTypePDF {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Only PDF files are allowed")
	}

	in := dto.GenerateQuizRequest{
		Difficulty: strings.TrimSpace(c.FormValue("difficulty")),
	}
	in.SubjectID, _ = strconv.Atoi(c.FormValue("subjectId"))
	in.NumQuestions, _ = strconv.Atoi(c.FormValue("numQuestions"))
	in.Topics = parseTopics(c.FormValue("topics"))
	if err := ctl.Validator.Struct(in); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// uploaded file lands in a transient dir, keyed by upload time; the
	// generator removes it on every exit path
	uploadDir := filepath.Join(configs.UploadDir, "pdf")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Println("[ERROR] upload dir:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store upload")
	}
	pdfPath := filepath.Join(uploadDir,
		strconv.FormatInt(time.Now().UnixNano(), 10)+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, pdfPath); err != nil {
		log.Println("[ERROR] save upload:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store upload")
	}

	generated, usedFallback := ctl.Generator.GenerateFromPDF(
		c.Context(), pdfPath, in.Topics, in.NumQuestions, in.Difficulty)

	createReq := dto.CreateQuizRequest{
		Title:           generated.Title,
		SubjectID:       in.SubjectID,
		DifficultyLevel: in.Difficulty,
		DurationMinutes: 30,
		Questions:       toQuestionInputs(generated.Questions),
	}

	meta, _ := json.Marshal(fiber.Map{
		"topics":      in.Topics,
		"source_file": fileHeader.Filename,
		"fallback":    usedFallback,
		"model":       generationModelName(usedFallback),
	})

	quiz, err := service.CreateQuiz(ctl.DB, teacherID, createReq, datatypes.JSON(meta))
	if err != nil {
		return err
	}

	return helper.JsonCreated(c, "Quiz generated successfully", fiber.Map{"quiz": quiz})
}

func generationModelName(usedFallback bool) string {
	if usedFallback {
		return "fallback"
	}
	return "gpt-3.5-turbo"
}

func parseTopics(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var topics []string
	if err := json.Unmarshal([]byte(raw), &topics); err == nil {
		return topics
	}
	// tolerate a plain comma-separated list
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

func toQuestionInputs(questions []generation.GeneratedQuestion) []dto.QuestionInput {
	out := make([]dto.QuestionInput, 0, len(questions))
	for _, q := range questions {
		opts := make([]dto.OptionInput, 0, len(q.Options))
		for i, o := range q.Options {
			opts = append(opts, dto.OptionInput{Text: o, IsCorrect: i == q.CorrectAnswer})
		}
		out = append(out, dto.QuestionInput{
			QuestionText: q.Question,
			QuestionType: "multiple_choice",
			Points:       1,
			Options:      opts,
		})
	}
	return out
}

/* =========================
   Reads
   ========================= */

// GET /api/quiz/list
func (ctl *QuizController) List(c *fiber.Ctx) error {
	teacherID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}

	var quizzes []dto.QuizSummary
	err = ctl.DB.Raw(`
		SELECT q.id, q.title, q.subject_id, s.name AS subject_name,
		       q.difficulty_level, q.total_questions, q.duration_minutes,
		       q.generation_meta, q.created_at,
		       (SELECT COUNT(*) FROM quiz_assignments qa WHERE qa.quiz_id = q.id) AS students_assigned,
		       (SELECT COALESCE(AVG(score), 0) FROM quiz_attempts qat WHERE qat.quiz_id = q.id) AS avg_score
		FROM quizzes q
		LEFT JOIN subjects s ON q.subject_id = s.id
		WHERE q.teacher_id = ?
		ORDER BY q.created_at DESC`, teacherID).Scan(&quizzes).Error
	if err != nil {
		log.Println("[ERROR] quiz list:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch quizzes")
	}

	return helper.JsonOK(c, "", fiber.Map{"quizzes": quizzes})
}

// GET /api/quiz/:quizId — teacher-facing detail; options include the
// correctness flag, so this route is never exposed to students.
func (ctl *QuizController) Detail(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid quiz id")
	}

	var quiz model.QuizModel
	err = ctl.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("option_order") }).
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Quiz not found")
		}
		log.Println("[ERROR] quiz detail:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch quiz details")
	}

	var subjectName string
	ctl.DB.Raw(`SELECT name FROM subjects WHERE id = ?`, quiz.SubjectID).Scan(&subjectName)
	var teacherName string
	ctl.DB.Raw(`SELECT full_name FROM users WHERE id = ?`, quiz.TeacherID).Scan(&teacherName)

	return helper.JsonOK(c, "", fiber.Map{
		"quiz":         quiz,
		"subject_name": subjectName,
		"teacher_name": teacherName,
	})
}

/* =========================
   Assignment / deletion
   ========================= */

// POST /api/quiz/:quizId/assign — batch insert; an existing (quiz, student)
// pair is skipped, not an error, so one duplicate never aborts the batch.
func (ctl *QuizController) Assign(c *fiber.Ctx) error {
	teacherID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid quiz id")
	}

	var in dto.AssignQuizRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(in); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var quiz model.QuizModel
	if err := ctl.DB.Where("id = ? AND teacher_id = ?", quizID, teacherID).First(&quiz).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Quiz not found")
	}

	assigned := 0
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		for _, studentID := range in.StudentIDs {
			a := assignmentModel.AssignmentModel{
				QuizID:    quizID,
				StudentID: studentID,
				DueDate:   in.DueDate,
				Status:    assignmentModel.StatusAssigned,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&a)
			if res.Error != nil {
				return res.Error
			}
			assigned += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] assign quiz:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to assign quiz")
	}

	return helper.JsonOK(c, "Quiz assigned successfully", fiber.Map{
		"assigned": assigned,
		"skipped":  len(in.StudentIDs) - assigned,
	})
}

// DELETE /api/quiz/:quizId
func (ctl *QuizController) Delete(c *fiber.Ctx) error {
	teacherID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid quiz id")
	}

	if err := service.DeleteQuiz(ctl.DB, teacherID, quizID); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Quiz deleted successfully", nil)
}
