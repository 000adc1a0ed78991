// file: internals/features/reports/teacher/controller/teacher_controller.go
package controller

import (
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduplay_backend/internals/constants"
	helper "eduplay_backend/internals/helpers"
)

type TeacherController struct {
	DB *gorm.DB
}

func NewTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{DB: db}
}

/* =========================
   Dashboard
   ========================= */

type teacherStatsRow struct {
	TotalQuizzes      int     `json:"total_quizzes"`
	TotalStudents     int     `json:"total_students"`
	TotalAssignments  int     `json:"total_assignments"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageScore      float64 `json:"average_score"`
}

type recentQuizRow struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	SubjectName      string    `json:"subject_name"`
	StudentsAssigned int       `json:"students_assigned"`
	StudentsDone     int       `json:"students_completed"`
	AverageScore     float64   `json:"average_score"`
	CreatedAt        time.Time `json:"created_at"`
}

type classOverviewRow struct {
	SubjectName  string  `json:"subject_name"`
	SubjectIcon  string  `json:"subject_icon"`
	QuizCount    int     `json:"quiz_count"`
	AverageScore float64 `json:"average_score"`
}

// GET /api/teacher/dashboard
func (ctl *TeacherController) GetDashboard(c *fiber.Ctx) error {
	teacherID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}

	var stats teacherStatsRow
	err = ctl.DB.Raw(`
		SELECT
		  (SELECT COUNT(*) FROM quizzes WHERE teacher_id = ?) AS total_quizzes,
		  (SELECT COUNT(*) FROM users WHERE role = ?) AS total_students,
		  (SELECT COUNT(*) FROM quiz_assignments qa JOIN quizzes q ON qa.quiz_id = q.id WHERE q.teacher_id = ?) AS total_assignments,
		  (SELECT COUNT(*) FROM quiz_attempts qat JOIN quizzes q ON qat.quiz_id = q.id WHERE q.teacher_id = ? AND qat.completed_at IS NOT NULL) AS completed_attempts,
		  (SELECT COALESCE(AVG(qat.score), 0) FROM quiz_attempts qat JOIN quizzes q ON qat.quiz_id = q.id WHERE q.teacher_id = ? AND qat.completed_at IS NOT NULL) AS average_score`,
		teacherID, constants.RoleStudent, teacherID, teacherID, teacherID).Scan(&stats).Error
	if err != nil {
		log.Println("[ERROR] teacher dashboard stats:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	var recent []recentQuizRow
	err = ctl.DB.Raw(`
		SELECT q.id, q.title, s.name AS subject_name, q.created_at,
		       (SELECT COUNT(*) FROM quiz_assignments qa WHERE qa.quiz_id = q.id) AS students_assigned,
		       (SELECT COUNT(*) FROM quiz_attempts qat WHERE qat.quiz_id = q.id AND qat.completed_at IS NOT NULL) AS students_done,
		       (SELECT COALESCE(AVG(qat.score), 0) FROM quiz_attempts qat WHERE qat.quiz_id = q.id AND qat.completed_at IS NOT NULL) AS average_score
		FROM quizzes q
		JOIN subjects s ON q.subject_id = s.id
		WHERE q.teacher_id = ?
		ORDER BY q.created_at DESC
		LIMIT 5`, teacherID).Scan(&recent).Error
	if err != nil {
		log.Println("[ERROR] teacher dashboard recent quizzes:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	var overview []classOverviewRow
	err = ctl.DB.Raw(`
		SELECT s.name AS subject_name, s.icon AS subject_icon,
		       COUNT(DISTINCT q.id) AS quiz_count,
		       COALESCE(AVG(qat.score), 0) AS average_score
		FROM quizzes q
		JOIN subjects s ON q.subject_id = s.id
		LEFT JOIN quiz_attempts qat ON qat.quiz_id = q.id AND qat.completed_at IS NOT NULL
		WHERE q.teacher_id = ?
		GROUP BY s.id, s.name, s.icon
		ORDER BY s.name`, teacherID).Scan(&overview).Error
	if err != nil {
		log.Println("[ERROR] teacher dashboard class overview:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch dashboard data")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"stats":         stats,
		"recentQuizzes": recent,
		"classOverview": overview,
	})
}

/* =========================
   Students
   ========================= */

type studentListRow struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	QuizzesCompleted int       `json:"quizzes_completed"`
	AverageScore     float64   `json:"average_score"`
	LastActivity     *time.Time `json:"last_activity"`
}

// GET /api/teacher/students
func (ctl *TeacherController) GetStudents(c *fiber.Ctx) error {
	var students []studentListRow
	err := ctl.DB.Raw(`
		SELECT u.id, u.full_name, u.email,
		       COALESCE(SUM(sp.quizzes_completed), 0) AS quizzes_completed,
		       COALESCE(AVG(CASE WHEN sp.quizzes_completed > 0 THEN sp.average_score END), 0) AS average_score,
		       MAX(sp.last_activity) AS last_activity
		FROM users u
		LEFT JOIN student_progress sp ON u.id = sp.student_id
		WHERE u.role = ?
		GROUP BY u.id, u.full_name, u.email
		ORDER BY u.full_name`, constants.RoleStudent).Scan(&students).Error
	if err != nil {
		log.Println("[ERROR] teacher students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"students": students})
}

type studentHeaderRow struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"-"`
}

type progressBySubjectRow struct {
	SubjectName      string     `json:"subject_name"`
	SubjectIcon      string     `json:"subject_icon"`
	QuizzesCompleted int        `json:"quizzes_completed"`
	TotalAssigned    int        `json:"total_assigned"`
	AverageScore     float64    `json:"average_score"`
	LastActivity     *time.Time `json:"last_activity"`
}

type attemptHistoryRow struct {
	Title            string     `json:"title"`
	SubjectName      string     `json:"subject_name"`
	Score            *float64   `json:"score"`
	TimeTakenMinutes *int       `json:"time_taken_minutes"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// GET /api/teacher/student/:studentId/progress
func (ctl *TeacherController) GetStudentProgress(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var student studentHeaderRow
	res := ctl.DB.Raw(`SELECT id, full_name, email, role FROM users WHERE id = ?`, studentID).Scan(&student)
	if res.Error != nil {
		log.Println("[ERROR] teacher student progress lookup:", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch student progress")
	}
	if res.RowsAffected == 0 || student.Role != constants.RoleStudent {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	var progress []progressBySubjectRow
	err = ctl.DB.Raw(`
		SELECT s.name AS subject_name, s.icon AS subject_icon,
		       sp.quizzes_completed, sp.total_quizzes_assigned AS total_assigned,
		       sp.average_score, sp.last_activity
		FROM student_progress sp
		JOIN subjects s ON sp.subject_id = s.id
		WHERE sp.student_id = ?
		ORDER BY s.name`, studentID).Scan(&progress).Error
	if err != nil {
		log.Println("[ERROR] teacher student progress rollup:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch student progress")
	}

	var history []attemptHistoryRow
	err = ctl.DB.Raw(`
		SELECT q.title, s.name AS subject_name, qat.score, qat.time_taken_minutes, qat.completed_at
		FROM quiz_attempts qat
		JOIN quizzes q ON qat.quiz_id = q.id
		JOIN subjects s ON q.subject_id = s.id
		WHERE qat.student_id = ? AND qat.completed_at IS NOT NULL
		ORDER BY qat.completed_at DESC
		LIMIT 20`, studentID).Scan(&history).Error
	if err != nil {
		log.Println("[ERROR] teacher student progress history:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch student progress")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"student": fiber.Map{
			"id":       student.ID,
			"fullName": student.FullName,
			"email":    student.Email,
		},
		"progress":      progress,
		"quizHistory":   history,
	})
}

/* =========================
   Quiz analytics
   ========================= */

type questionStatRow struct {
	QuestionID   uuid.UUID `json:"question_id"`
	QuestionText string    `json:"question_text"`
	TotalAnswers int       `json:"total_answers"`
	CorrectCount int       `json:"correct_count"`
	SuccessRate  float64   `json:"success_rate"`
}

type studentPerformanceRow struct {
	StudentID        uuid.UUID  `json:"student_id"`
	FullName         string     `json:"fullName"`
	Status           string     `json:"status"`
	Score            *float64   `json:"score"`
	TimeTakenMinutes *int       `json:"time_taken_minutes"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// GET /api/teacher/quiz/:quizId/analytics
func (ctl *TeacherController) GetQuizAnalytics(c *fiber.Ctx) error {
	teacherID, err := helper.CurrentUserID(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid quiz id")
	}

	var quiz struct {
		ID          uuid.UUID `json:"id"`
		Title       string    `json:"title"`
		SubjectName string    `json:"subject_name"`
	}
	res := ctl.DB.Raw(`
		SELECT q.id, q.title, s.name AS subject_name
		FROM quizzes q
		JOIN subjects s ON q.subject_id = s.id
		WHERE q.id = ? AND q.teacher_id = ?`, quizID, teacherID).Scan(&quiz)
	if res.Error != nil {
		log.Println("[ERROR] quiz analytics lookup:", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch analytics")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Quiz not found or unauthorized")
	}

	var questions []questionStatRow
	err = ctl.DB.Raw(`
		SELECT qs.id AS question_id, qs.question_text,
		       COUNT(sa.id) AS total_answers,
		       COALESCE(SUM(CASE WHEN sa.is_correct THEN 1 ELSE 0 END), 0) AS correct_count
		FROM questions qs
		LEFT JOIN student_answers sa ON sa.question_id = qs.id
		WHERE qs.quiz_id = ?
		GROUP BY qs.id, qs.question_text, qs.created_at
		ORDER BY qs.created_at, qs.id`, quizID).Scan(&questions).Error
	if err != nil {
		log.Println("[ERROR] quiz analytics questions:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch analytics")
	}
	for i := range questions {
		if questions[i].TotalAnswers > 0 {
			questions[i].SuccessRate = float64(questions[i].CorrectCount) / float64(questions[i].TotalAnswers) * 100
		}
	}

	var performance []studentPerformanceRow
	err = ctl.DB.Raw(`
		SELECT u.id AS student_id, u.full_name,
		       CASE
		         WHEN qat.completed_at IS NOT NULL THEN 'completed'
		         WHEN qat.started_at IS NOT NULL THEN 'in_progress'
		         ELSE 'assigned'
		       END AS status,
		       qat.score, qat.time_taken_minutes, qat.completed_at
		FROM quiz_assignments qa
		JOIN users u ON qa.student_id = u.id
		LEFT JOIN quiz_attempts qat ON qa.id = qat.assignment_id
		WHERE qa.quiz_id = ?
		ORDER BY qat.score DESC NULLS LAST, u.full_name`, quizID).Scan(&performance).Error
	if err != nil {
		log.Println("[ERROR] quiz analytics performance:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch analytics")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"quiz":               quiz,
		"questionStats":      questions,
		"studentPerformance": performance,
	})
}

/* =========================
   Export
   ========================= */

type exportRow struct {
	FullName         string     `json:"fullName"`
	Email            string     `json:"email"`
	SubjectName      string     `json:"subject_name"`
	QuizzesCompleted int        `json:"quizzes_completed"`
	TotalAssigned    int        `json:"total_assigned"`
	AverageScore     float64    `json:"average_score"`
	LastActivity     *time.Time `json:"last_activity"`
}

// GET /api/teacher/export/students?format=csv
func (ctl *TeacherController) ExportStudentData(c *fiber.Ctx) error {
	var rows []exportRow
	err := ctl.DB.Raw(`
		SELECT u.full_name, u.email, s.name AS subject_name,
		       sp.quizzes_completed, sp.total_quizzes_assigned AS total_assigned,
		       sp.average_score, sp.last_activity
		FROM student_progress sp
		JOIN users u ON sp.student_id = u.id
		JOIN subjects s ON sp.subject_id = s.id
		WHERE u.role = ?
		ORDER BY u.full_name, s.name`, constants.RoleStudent).Scan(&rows).Error
	if err != nil {
		log.Println("[ERROR] export students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to export student data")
	}

	if c.Query("format") != "csv" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"students": rows})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="student-progress.csv"`)

	w := csv.NewWriter(c)
	_ = w.Write([]string{"Full Name", "Email", "Subject", "Quizzes Completed", "Total Assigned", "Average Score", "Last Activity"})
	for _, r := range rows {
		last := ""
		if r.LastActivity != nil {
			last = r.LastActivity.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			r.FullName,
			r.Email,
			r.SubjectName,
			strconv.Itoa(r.QuizzesCompleted),
			strconv.Itoa(r.TotalAssigned),
			fmt.Sprintf("%.2f", r.AverageScore),
			last,
		})
	}
	w.Flush()
	return w.Error()
}
