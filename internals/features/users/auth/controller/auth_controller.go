package controller

import (
	"log"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"eduplay_backend/internals/configs"
	"eduplay_backend/internals/constants"
	blacklistModel "eduplay_backend/internals/features/users/auth/model"
	"eduplay_backend/internals/features/users/auth/service"
	userDTO "eduplay_backend/internals/features/users/user/dto"
	helper "eduplay_backend/internals/helpers"
	authMiddleware "eduplay_backend/internals/middlewares/auth"
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================
   Local auth
   ========================= */

// POST /api/auth/register
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(in); err != nil {
		return helper.JsonValidationError(c, err)
	}

	user, err := service.Register(ctl.DB, in)
	if err != nil {
		return err
	}

	token, err := service.GenerateToken(user.ID.String())
	if err != nil {
		return err
	}

	return helper.JsonCreated(c, "User registered successfully", fiber.Map{
		"token": token,
		"user":  userDTO.ToUserResponse(user),
	})
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var in service.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(in); err != nil {
		return helper.JsonValidationError(c, err)
	}

	user, err := service.Login(ctl.DB, in)
	if err != nil {
		return err
	}

	token, err := service.GenerateToken(user.ID.String())
	if err != nil {
		return err
	}

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"token": token,
		"user":  userDTO.ToUserResponse(user),
	})
}

// GET /api/auth/current
func (ctl *AuthController) GetCurrentUser(c *fiber.Ctx) error {
	user, err := helper.CurrentUser(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "", fiber.Map{"user": userDTO.ToUserResponse(user)})
}

// POST /api/auth/logout — blacklists the presented token until it expires.
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Access token required")
	}

	entry := blacklistModel.TokenBlacklist{
		Token:     raw,
		ExpiredAt: authMiddleware.TokenExpiry(raw),
	}
	// duplicate logout is a no-op
	if err := ctl.DB.Where("token = ?", raw).FirstOrCreate(&entry).Error; err != nil {
		log.Println("[ERROR] logout blacklist insert:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Logout failed")
	}

	return helper.JsonOK(c, "Logout successful", nil)
}

/* =========================
   Avatar
   ========================= */

// POST /api/auth/avatar — multipart "avatar" image, stored as webp.
func (ctl *AuthController) UploadAvatar(c *fiber.Ctx) error {
	user, err := helper.CurrentUser(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Avatar image is required")
	}
	if fileHeader.Size > configs.MaxUploadSize {
		return helper.JsonError(c, fiber.StatusBadRequest, "Image too large")
	}
	if constants.DetectFileTypeFromExt(fileHeader.Filename) != constants.FileTypeImage {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Only image files are allowed")
	}

	path, err := helper.SaveAvatarWebp(configs.UploadDir, fileHeader)
	if err != nil {
		log.Println("[ERROR] avatar save:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store avatar")
	}

	if err := ctl.DB.Model(user).Update("profile_picture", path).Error; err != nil {
		log.Println("[ERROR] avatar update:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store avatar")
	}
	user.ProfilePicture = &path

	return helper.JsonOK(c, "Avatar updated", fiber.Map{"user": userDTO.ToUserResponse(user)})
}

/* =========================
   Google OAuth
   ========================= */

const oauthStateCookie = "oauth_state"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

func (ctl *AuthController) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     configs.GoogleClientID,
		ClientSecret: configs.GoogleClientSecret,
		RedirectURL:  configs.GoogleRedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     googleEndpoint,
	}
}

// GET /api/auth/google — redirect to the Google consent screen.
func (ctl *AuthController) GoogleLogin(c *fiber.Ctx) error {
	if configs.GoogleClientID == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Google login is not configured")
	}

	state := uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(ctl.oauthConfig().AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GET /api/auth/google/callback — exchange the code, verify the ID token and
// redirect back to the frontend with our own API token.
func (ctl *AuthController) GoogleCallback(c *fiber.Ctx) error {
	failure := configs.FrontendURL + "/login.html?error=auth_failed"

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	code := c.Query("code")
	if code == "" {
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	tok, err := ctl.oauthConfig().Exchange(c.Context(), code)
	if err != nil {
		log.Println("[ERROR] google exchange:", err)
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(rawIDToken, []string{configs.GoogleClientID}); err != nil {
		log.Println("[ERROR] google id_token verify:", err)
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	claims, err := googleAuthIDTokenVerifier.Decode(rawIDToken)
	if err != nil {
		log.Println("[ERROR] google id_token decode:", err)
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	user, err := service.UpsertGoogleUser(ctl.DB, service.GoogleProfile{
		Sub:     claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})
	if err != nil {
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	token, err := service.GenerateToken(user.ID.String())
	if err != nil {
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	return c.Redirect(
		configs.FrontendURL+"/auth-success.html?token="+token+"&role="+user.Role,
		fiber.StatusTemporaryRedirect,
	)
}
