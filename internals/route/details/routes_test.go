package details_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduplay_backend/internals/configs"
	helper "eduplay_backend/internals/helpers"
	routes "eduplay_backend/internals/route"
	"eduplay_backend/internals/testutil"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	configs.JWTSecret = "route-test-secret"
	t.Cleanup(func() { configs.JWTSecret = "" })

	db := testutil.OpenTestDB(t)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal server error"
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				msg = fe.Message
			}
			return helper.JsonError(c, code, msg)
		},
	})
	routes.SetupRoutes(app, db)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func register(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    email,
		"password": "supersecret",
		"fullName": "Flow " + role,
		"role":     role,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d (%v)", email, status, body)
	}
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestQuizFlowOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	teacherToken := register(t, app, "flow-teacher@school.test", "teacher")
	studentToken := register(t, app, "flow-student@school.test", "student")

	// role gates
	status, _ := doJSON(t, app, http.MethodGet, "/api/quiz/list", studentToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("student reached teacher surface: %d", status)
	}
	status, _ = doJSON(t, app, http.MethodGet, "/api/student/dashboard", teacherToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("teacher reached student surface: %d", status)
	}
	status, _ = doJSON(t, app, http.MethodGet, "/api/quiz/list", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous reached protected surface: %d", status)
	}

	// author a quiz
	status, body := doJSON(t, app, http.MethodPost, "/api/quiz/create", teacherToken, fiber.Map{
		"title":           "HTTP Flow Quiz",
		"subjectId":       1,
		"difficultyLevel": "easy",
		"durationMinutes": 15,
		"questions": []fiber.Map{
			{
				"questionText": "2 + 2 = ?",
				"options": []fiber.Map{
					{"text": "4", "isCorrect": true},
					{"text": "5", "isCorrect": false},
				},
			},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("create quiz: status %d (%v)", status, body)
	}
	quizID := body["data"].(map[string]interface{})["quiz"].(map[string]interface{})["id"].(string)

	// find the student id through the teacher surface
	status, body = doJSON(t, app, http.MethodGet, "/api/teacher/students", teacherToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list students: status %d (%v)", status, body)
	}
	students := body["students"].([]interface{})
	if len(students) != 1 {
		t.Fatalf("expected 1 student, got %d", len(students))
	}
	studentID := students[0].(map[string]interface{})["id"].(string)

	// assign; a repeat assignment is skipped, not duplicated
	assignBody := fiber.Map{"studentIds": []string{studentID}}
	status, body = doJSON(t, app, http.MethodPost, "/api/quiz/"+quizID+"/assign", teacherToken, assignBody)
	if status != http.StatusOK {
		t.Fatalf("assign: status %d (%v)", status, body)
	}
	if got := body["data"].(map[string]interface{})["assigned"].(float64); got != 1 {
		t.Fatalf("expected 1 assigned, got %v", got)
	}
	status, body = doJSON(t, app, http.MethodPost, "/api/quiz/"+quizID+"/assign", teacherToken, assignBody)
	if status != http.StatusOK {
		t.Fatalf("re-assign: status %d (%v)", status, body)
	}
	if got := body["data"].(map[string]interface{})["assigned"].(float64); got != 0 {
		t.Fatalf("duplicate assignment not skipped: %v", got)
	}

	// student sees it on the dashboard
	status, body = doJSON(t, app, http.MethodGet, "/api/student/dashboard", studentToken, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard: status %d (%v)", status, body)
	}
	quizzes := body["quizzes"].([]interface{})
	if len(quizzes) != 1 {
		t.Fatalf("expected 1 assigned quiz, got %d", len(quizzes))
	}
	assignment := quizzes[0].(map[string]interface{})
	if assignment["status"] != "assigned" {
		t.Fatalf("expected status assigned, got %v", assignment["status"])
	}
	assignmentID := assignment["id"].(string)

	// start and answer correctly
	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/student/quiz/%s/start", assignmentID), studentToken, nil)
	if status != http.StatusOK {
		t.Fatalf("start: status %d (%v)", status, body)
	}
	attemptID := body["attempt"].(map[string]interface{})["id"].(string)
	questions := body["quiz"].(map[string]interface{})["questions"].([]interface{})
	question := questions[0].(map[string]interface{})
	options := question["options"].([]interface{})
	for _, o := range options {
		if _, leaked := o.(map[string]interface{})["isCorrect"]; leaked {
			t.Fatalf("correctness flag leaked to student payload")
		}
	}

	var answers []fiber.Map
	for _, o := range options {
		opt := o.(map[string]interface{})
		if opt["optionText"] == "4" {
			answers = append(answers, fiber.Map{
				"questionId":       question["id"],
				"selectedOptionId": opt["id"],
			})
		}
	}
	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/student/quiz/%s/submit", attemptID), studentToken, fiber.Map{"answers": answers})
	if status != http.StatusOK {
		t.Fatalf("submit: status %d (%v)", status, body)
	}
	if body["score"].(float64) != 100 {
		t.Fatalf("expected score 100, got %v", body["score"])
	}

	// results
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/student/quiz/%s/results", attemptID), studentToken, nil)
	if status != http.StatusOK {
		t.Fatalf("results: status %d (%v)", status, body)
	}

	// teacher analytics reflect the attempt
	status, body = doJSON(t, app, http.MethodGet, "/api/teacher/quiz/"+quizID+"/analytics", teacherToken, nil)
	if status != http.StatusOK {
		t.Fatalf("analytics: status %d (%v)", status, body)
	}
	perf := body["studentPerformance"].([]interface{})
	if len(perf) != 1 || perf[0].(map[string]interface{})["status"] != "completed" {
		t.Fatalf("unexpected performance rows: %v", perf)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "logout@school.test", "student")

	status, _ := doJSON(t, app, http.MethodGet, "/api/auth/current", token, nil)
	if status != http.StatusOK {
		t.Fatalf("current before logout: %d", status)
	}
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	if status != http.StatusOK {
		t.Fatalf("logout: %d", status)
	}
	status, _ = doJSON(t, app, http.MethodGet, "/api/auth/current", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("blacklisted token still accepted: %d", status)
	}
}
