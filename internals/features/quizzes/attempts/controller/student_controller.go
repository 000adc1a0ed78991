// file: internals/features/quizzes/attempts/controller/student_controller.go
package controller

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduplay_backend/internals/features/quizzes/attempts/dto"
	"eduplay_backend/internals/features/quizzes/attempts/service"
	userDTO "eduplay_backend/internals/features/users/user/dto"
	helper "eduplay_backend/internals/helpers"
)

type StudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================
   Attempt lifecycle
   ========================= */

// POST /api/student/quiz/:assignmentId/start
func (ctl *StudentController) StartQuiz(c *fiber.Ctx) error {
	studentID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	assignmentID, err := uuid.Parse(c.Params("assignmentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid assignment id")
	}

	result, err := service.StartAttempt(ctl.DB, assignmentID, studentID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// POST /api/student/quiz/:attemptId/submit
func (ctl *StudentController) SubmitQuiz(c *fiber.Ctx) error {
	studentID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	attemptID, err := uuid.Parse(c.Params("attemptId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attempt id")
	}

	var in dto.SubmitQuizRequest
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(in); err != nil {
		return helper.JsonValidationError(c, err)
	}

	result, err := service.SubmitAttempt(ctl.DB, attemptID, studentID, in.Answers)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GET /api/student/quiz/:attemptId/results
func (ctl *StudentController) GetQuizResults(c *fiber.Ctx) error {
	studentID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	attemptID, err := uuid.Parse(c.Params("attemptId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attempt id")
	}

	results, err := service.GetResults(ctl.DB, attemptID, studentID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(results)
}

/* =========================
   Dashboard / profile
   ========================= */

type assignedQuizRow struct {
	ID              uuid.UUID  `json:"id"`
	QuizID          uuid.UUID  `json:"quiz_id"`
	Title           string     `json:"title"`
	SubjectName     string     `json:"subject_name"`
	SubjectIcon     string     `json:"subject_icon"`
	TotalQuestions  int        `json:"total_questions"`
	DurationMinutes int        `json:"duration_minutes"`
	DueDate         *time.Time `json:"due_date"`
	Status          string     `json:"status"`
	Score           *float64   `json:"score"`
	CompletedAt     *time.Time `json:"completed_at"`
	AssignedAt      time.Time  `json:"assigned_at"`
}

type subjectProgressRow struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	QuizzesCompleted int     `json:"quizzes_completed"`
	TotalQuizzes     int     `json:"total_quizzes"`
	AverageScore     float64 `json:"average_score"`
}

// GET /api/student/dashboard — assigned quizzes with derived status plus the
// per-subject progress rollup.
func (ctl *StudentController) GetDashboard(c *fiber.Ctx) error {
	studentID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}

	var quizzes []assignedQuizRow
	err = ctl.DB.Raw(`
		SELECT qa.id, qa.quiz_id, q.title, s.name AS subject_name, s.icon AS subject_icon,
		       q.total_questions, q.duration_minutes, qa.due_date, qa.assigned_at,
		       qat.score, qat.completed_at,
		       CASE
		         WHEN qat.completed_at IS NOT NULL THEN 'completed'
		         WHEN qat.started_at IS NOT NULL THEN 'in_progress'
		         ELSE 'assigned'
		       END AS status
		FROM quiz_assignments qa
		JOIN quizzes q ON qa.quiz_id = q.id
		JOIN subjects s ON q.subject_id = s.id
		LEFT JOIN quiz_attempts qat ON qa.id = qat.assignment_id
		WHERE qa.student_id = ?
		ORDER BY qa.assigned_at DESC`, studentID).Scan(&quizzes).Error
	if err != nil {
		log.Println("[ERROR] student dashboard quizzes:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	var subjects []subjectProgressRow
	err = ctl.DB.Raw(`
		SELECT s.id, s.name, s.icon,
		       COALESCE(sp.quizzes_completed, 0) AS quizzes_completed,
		       COALESCE(sp.total_quizzes_assigned, 0) AS total_quizzes,
		       COALESCE(sp.average_score, 0) AS average_score
		FROM subjects s
		LEFT JOIN student_progress sp ON s.id = sp.subject_id AND sp.student_id = ?
		ORDER BY s.id`, studentID).Scan(&subjects).Error
	if err != nil {
		log.Println("[ERROR] student dashboard subjects:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"quizzes":  quizzes,
		"subjects": subjects,
	})
}

type studentStatsRow struct {
	TotalQuizzesAssigned int     `json:"total_quizzes_assigned"`
	QuizzesCompleted     int     `json:"quizzes_completed"`
	AverageScore         float64 `json:"average_score"`
}

type recentActivityRow struct {
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	Score       *float64   `json:"score"`
	CompletedAt *time.Time `json:"completed_at"`
}

// GET /api/student/profile
func (ctl *StudentController) GetProfile(c *fiber.Ctx) error {
	user, err := helper.CurrentUser(c)
	if err != nil {
		return err
	}

	var stats studentStatsRow
	err = ctl.DB.Raw(`
		SELECT COUNT(DISTINCT qa.id) AS total_quizzes_assigned,
		       COUNT(DISTINCT CASE WHEN qat.completed_at IS NOT NULL THEN qat.id END) AS quizzes_completed,
		       COALESCE(AVG(qat.score), 0) AS average_score
		FROM quiz_assignments qa
		LEFT JOIN quiz_attempts qat ON qa.id = qat.assignment_id
		WHERE qa.student_id = ?`, user.ID).Scan(&stats).Error
	if err != nil {
		log.Println("[ERROR] student profile stats:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch profile")
	}

	var activity []recentActivityRow
	err = ctl.DB.Raw(`
		SELECT q.title, s.name AS subject, qat.score, qat.completed_at
		FROM quiz_attempts qat
		JOIN quizzes q ON qat.quiz_id = q.id
		JOIN subjects s ON q.subject_id = s.id
		WHERE qat.student_id = ? AND qat.completed_at IS NOT NULL
		ORDER BY qat.completed_at DESC
		LIMIT 10`, user.ID).Scan(&activity).Error
	if err != nil {
		log.Println("[ERROR] student profile activity:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch profile")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":           userDTO.ToUserResponse(user),
		"stats":          stats,
		"recentActivity": activity,
	})
}
