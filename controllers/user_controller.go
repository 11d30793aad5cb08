package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/models"
	"leadboard/store"
	"leadboard/utils"
)

type UserController struct {
	DB     *gorm.DB
	Users  *store.UserStore
	Logger *logrus.Logger
}

func NewUserController(db *gorm.DB, logger *logrus.Logger) *UserController {
	return &UserController{
		DB:     db,
		Users:  store.NewUserStore(db),
		Logger: logger,
	}
}

func isAdmin(c *fiber.Ctx) bool {
	user := c.Locals("user").(*models.User)
	return user.Role == "admin"
}

// GetUsers returns a paginated, filtered, sorted page of users. Admin only.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin access required", nil)
	}

	filters := store.UserFilters{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	}
	switch c.Query("is_active") {
	case "true":
		filters.IsActive = utils.Pointer(true)
	case "false":
		filters.IsActive = utils.Pointer(false)
	}

	result, err := uc.Users.List(filters, utils.PaginationFromQuery(c))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sort field", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch users", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// GetUser returns one user. Users may read themselves; admins may read
// anyone.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))
	if id != c.Locals("userID").(uint) && !isAdmin(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin access required", nil)
	}

	user, err := uc.Users.ByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", err)
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}
	return c.JSON(utils.SuccessResponse(user))
}

// UpdateUser applies a partial profile update. Role and active flag changes
// are admin only.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))
	admin := isAdmin(c)
	if id != c.Locals("userID").(uint) && !admin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin access required", nil)
	}

	user, err := uc.Users.ByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", err)
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}

	var input struct {
		Name      string  `json:"name" validate:"omitempty,max=200"`
		Email     string  `json:"email" validate:"omitempty,email"`
		AvatarURL *string `json:"avatar_url"`
		Password  string  `json:"password" validate:"omitempty,min=8"`
		Role      string  `json:"role" validate:"omitempty,oneof=user admin"`
		IsActive  *bool   `json:"is_active"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if (input.Role != "" || input.IsActive != nil) && !admin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin access required", nil)
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		email := strings.ToLower(input.Email)
		existing, err := uc.Users.ByEmail(email)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check email", err)
		}
		if existing != nil && existing.ID != user.ID {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Email is already registered", nil)
		}
		user.Email = email
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Password != "" {
		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", err)
		}
		user.PasswordHash = hash
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := uc.Users.Update(user); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user", err)
	}
	return c.JSON(utils.SuccessResponse(user))
}

// DeleteUser hard-deletes a user and their sessions. Admin only; campaigns,
// leads and messages are kept for the books.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin access required", nil)
	}

	id := utils.ParseUint(c.Params("id"))
	deleted, err := uc.Users.Delete(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user", err)
	}
	if deleted == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}

// GetUserStats returns the dashboard counters for one user. Users may read
// their own; admins may read anyone's.
func (uc *UserController) GetUserStats(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))
	if id != c.Locals("userID").(uint) && !isAdmin(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Admin access required", nil)
	}

	stats, err := uc.Users.Stats(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute user stats", err)
	}
	return c.JSON(utils.SuccessResponse(stats))
}
