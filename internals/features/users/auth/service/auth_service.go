package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eduplay_backend/internals/configs"
	"eduplay_backend/internals/constants"
	userModel "eduplay_backend/internals/features/users/user/model"
)

/* ==========================
   Const & Types
========================== */

const (
	accessTTLDefault = 24 * time.Hour
	bcryptCost       = 10
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleProfile is what the verified ID token gives us.
type GoogleProfile struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

/* ==========================
   Token
========================== */

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
	}
	return secret, nil
}

// GenerateToken issues the stateless access token. Only the user id and
// expiry go in; role is re-derived from the DB on every request.
func GenerateToken(userID string) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(accessTTLDefault).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Failed to sign token")
	}
	return signed, nil
}

/* ==========================
   Local register / login
========================== */

func Register(db *gorm.DB, in RegisterInput) (*userModel.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var existing userModel.UserModel
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[ERROR] register lookup:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}

	hash := string(hashed)
	user := userModel.UserModel{
		Email:    email,
		Password: &hash,
		FullName: strings.TrimSpace(in.FullName),
		Role:     in.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Println("[ERROR] register create:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}
	return &user, nil
}

func Login(db *gorm.DB, in LoginInput) (*userModel.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var user userModel.UserModel
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		log.Println("[ERROR] login lookup:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	// Google-only account has no stored hash
	if user.Password == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Please sign in with Google")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(in.Password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	return &user, nil
}

/* ==========================
   Google federated login
========================== */

// UpsertGoogleUser implements the link-or-create flow:
// find by google_id → find by email and link → create a student account.
func UpsertGoogleUser(db *gorm.DB, p GoogleProfile) (*userModel.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if p.Sub == "" || email == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Incomplete Google profile")
	}

	var user userModel.UserModel
	err := db.Where("google_id = ?", p.Sub).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[ERROR] google lookup:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	err = db.Where("email = ?", email).First(&user).Error
	if err == nil {
		updates := map[string]interface{}{"google_id": p.Sub}
		if p.Picture != "" && user.ProfilePicture == nil {
			updates["profile_picture"] = p.Picture
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			log.Println("[ERROR] google link:", err)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Login failed")
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[ERROR] google email lookup:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	sub := p.Sub
	user = userModel.UserModel{
		Email:    email,
		FullName: p.Name,
		GoogleID: &sub,
		Role:     constants.RoleStudent, // new federated accounts default to student
	}
	if p.Picture != "" {
		pic := p.Picture
		user.ProfilePicture = &pic
	}
	if err := db.Create(&user).Error; err != nil {
		log.Println("[ERROR] google create:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}
	return &user, nil
}
