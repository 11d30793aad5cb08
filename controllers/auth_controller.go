package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/models"
	"leadboard/store"
	"leadboard/utils"
)

const sessionTTL = 7 * 24 * time.Hour

type AuthController struct {
	DB     *gorm.DB
	Users  *store.UserStore
	Logger *logrus.Logger
}

func NewAuthController(db *gorm.DB, logger *logrus.Logger) *AuthController {
	return &AuthController{
		DB:     db,
		Users:  store.NewUserStore(db),
		Logger: logger,
	}
}

// AuthResponse is the token bundle returned by Register and Login.
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Register creates a new account and logs it in.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name" validate:"required,max=200"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	email := strings.ToLower(input.Email)
	existing, err := ac.Users.ByEmail(email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check email", err)
	}
	if existing != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email is already registered", nil)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	user := models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := ac.Users.Create(&user); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user", err)
	}

	resp, err := ac.startSession(c, &user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create session", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(resp))
}

// Login verifies credentials and issues a fresh session.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	user, err := ac.Users.ByEmail(strings.ToLower(input.Email))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to look up user", err)
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, input.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
	}
	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is not active", nil)
	}

	resp, err := ac.startSession(c, user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create session", err)
	}
	return c.JSON(utils.SuccessResponse(resp))
}

// RefreshToken exchanges a valid refresh token for a fresh token pair. The
// session row must still exist and be unexpired; logout kills refresh too.
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	claims, err := utils.ParseJWTToken(input.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}

	var session models.Session
	if err := ac.DB.First(&session, claims.SessionID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Session has been revoked", nil)
	}
	if session.ExpiresAt.Before(time.Now()) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Session has expired", nil)
	}

	user, err := ac.Users.ByID(claims.UserID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to look up user", err)
	}
	if user == nil || !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Account is not active", nil)
	}

	accessToken, refreshToken, err := utils.GenerateJWTToken(user, session.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to issue tokens", err)
	}

	cookie := new(fiber.Cookie)
	cookie.Name = "access_token"
	cookie.Value = accessToken
	cookie.Expires = time.Now().Add(15 * time.Minute)
	cookie.HTTPOnly = true
	cookie.Secure = true
	cookie.SameSite = "Lax"
	c.Cookie(cookie)

	return c.JSON(utils.SuccessResponse(&AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}))
}

// Logout deletes the current session, revoking its tokens.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	sessionID := c.Locals("sessionID").(uint)

	if err := ac.DB.Delete(&models.Session{}, sessionID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to log out", err)
	}

	c.ClearCookie("access_token")
	return c.JSON(utils.SuccessResponse(fiber.Map{"message": "Logged out"}))
}

// GetCurrentUser returns the authenticated user.
func (ac *AuthController) GetCurrentUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.JSON(utils.SuccessResponse(user))
}

func (ac *AuthController) startSession(c *fiber.Ctx, user *models.User) (*AuthResponse, error) {
	session := models.Session{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(sessionTTL),
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
	if err := ac.DB.Create(&session).Error; err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := utils.GenerateJWTToken(user, session.ID)
	if err != nil {
		return nil, err
	}

	cookie := new(fiber.Cookie)
	cookie.Name = "access_token"
	cookie.Value = accessToken
	cookie.Expires = time.Now().Add(15 * time.Minute)
	cookie.HTTPOnly = true
	cookie.Secure = true
	cookie.SameSite = "Lax"
	c.Cookie(cookie)

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
