package service_test

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"eduplay_backend/internals/configs"
	"eduplay_backend/internals/constants"
	"eduplay_backend/internals/features/users/auth/service"
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

func TestRegisterHashesPassword(t *testing.T) {
	db := testutil.OpenTestDB(t)

	user, err := service.Register(db, service.RegisterInput{
		Email:    "Ana@School.Test",
		Password: "supersecret",
		FullName: "Ana Silva",
		Role:     constants.RoleStudent,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@school.test" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.Password == nil || *user.Password == "supersecret" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte("supersecret")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testutil.OpenTestDB(t)
	in := service.RegisterInput{
		Email:    "ana@school.test",
		Password: "supersecret",
		FullName: "Ana Silva",
		Role:     constants.RoleStudent,
	}
	if _, err := service.Register(db, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := service.Register(db, in)
	expectFiberStatus(t, err, fiber.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	db := testutil.OpenTestDB(t)
	if _, err := service.Register(db, service.RegisterInput{
		Email:    "ana@school.test",
		Password: "supersecret",
		FullName: "Ana Silva",
		Role:     constants.RoleTeacher,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := service.Login(db, service.LoginInput{Email: "ANA@school.test", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Role != constants.RoleTeacher {
		t.Fatalf("expected teacher role, got %s", user.Role)
	}

	// wrong password and unknown email produce the same 401
	_, err = service.Login(db, service.LoginInput{Email: "ana@school.test", Password: "wrong"})
	expectFiberStatus(t, err, fiber.StatusUnauthorized)
	_, err = service.Login(db, service.LoginInput{Email: "nobody@school.test", Password: "supersecret"})
	expectFiberStatus(t, err, fiber.StatusUnauthorized)
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	if _, err := service.UpsertGoogleUser(db, service.GoogleProfile{
		Sub:   "google-sub-1",
		Email: "g@school.test",
		Name:  "G User",
	}); err != nil {
		t.Fatalf("upsert google user: %v", err)
	}

	_, err := service.Login(db, service.LoginInput{Email: "g@school.test", Password: "anything"})
	expectFiberStatus(t, err, fiber.StatusUnauthorized)
}

func TestUpsertGoogleUserLinksExistingEmail(t *testing.T) {
	db := testutil.OpenTestDB(t)
	registered, err := service.Register(db, service.RegisterInput{
		Email:    "ana@school.test",
		Password: "supersecret",
		FullName: "Ana Silva",
		Role:     constants.RoleStudent,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	linked, err := service.UpsertGoogleUser(db, service.GoogleProfile{
		Sub:     "google-sub-2",
		Email:   "ana@school.test",
		Name:    "Ana Silva",
		Picture: "https://lh3.example/avatar.png",
	})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if linked.ID != registered.ID {
		t.Fatalf("link created a second account")
	}

	// second sign-in resolves by google_id
	again, err := service.UpsertGoogleUser(db, service.GoogleProfile{Sub: "google-sub-2", Email: "ana@school.test"})
	if err != nil {
		t.Fatalf("repeat sign-in: %v", err)
	}
	if again.ID != registered.ID {
		t.Fatalf("repeat sign-in resolved a different account")
	}
}

func TestUpsertGoogleUserCreatesStudent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user, err := service.UpsertGoogleUser(db, service.GoogleProfile{
		Sub:   "google-sub-3",
		Email: "new@school.test",
		Name:  "New Student",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != constants.RoleStudent {
		t.Fatalf("expected student role, got %s", user.Role)
	}
	if user.Password != nil {
		t.Fatalf("google account should have no local password")
	}
}

func TestGenerateToken(t *testing.T) {
	configs.JWTSecret = "test-secret"
	t.Cleanup(func() { configs.JWTSecret = "" })

	signed, err := service.GenerateToken("some-user-id")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != "some-user-id" {
		t.Fatalf("unexpected user_id claim: %v", claims["user_id"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("missing exp claim")
	}
}
