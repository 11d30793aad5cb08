package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/models"
	"leadboard/store"
	"leadboard/utils"
)

type LinkedInController struct {
	DB       *gorm.DB
	Accounts *store.LinkedInStore
	Activity *store.ActivityStore
	Logger   *logrus.Logger
}

func NewLinkedInController(db *gorm.DB, logger *logrus.Logger) *LinkedInController {
	return &LinkedInController{
		DB:       db,
		Accounts: store.NewLinkedInStore(db),
		Activity: store.NewActivityStore(db),
		Logger:   logger,
	}
}

// GetAccounts returns a paginated, filtered, sorted page of the user's
// LinkedIn accounts.
func (lic *LinkedInController) GetAccounts(c *fiber.Ctx) error {
	filters := store.LinkedInFilters{
		Search: c.Query("search"),
		Status: c.Query("status"),
		UserID: c.Locals("userID").(uint),
	}

	result, err := lic.Accounts.List(filters, utils.PaginationFromQuery(c))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sort field", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch accounts", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// GetAccount returns one LinkedIn account.
func (lic *LinkedInController) GetAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	row, err := lic.Accounts.ByID(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch account", err)
	}
	if row == nil || row.User == nil || row.User.ID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Account not found", nil)
	}
	return c.JSON(utils.SuccessResponse(row))
}

// GetStats returns the aggregate rollup across the user's accounts.
func (lic *LinkedInController) GetStats(c *fiber.Ctx) error {
	stats, err := lic.Accounts.Stats(c.Locals("userID").(uint))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute account stats", err)
	}
	return c.JSON(utils.SuccessResponse(stats))
}

// CreateAccount connects a new LinkedIn account.
func (lic *LinkedInController) CreateAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		Name       string `json:"name" validate:"required,max=200"`
		Email      string `json:"email" validate:"required,email"`
		ProfileURL string `json:"profile_url" validate:"omitempty,url"`
		Status     string `json:"status" validate:"omitempty,oneof=active paused error"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	account := models.LinkedInAccount{
		UserID:     userID,
		Name:       input.Name,
		Email:      strings.ToLower(input.Email),
		ProfileURL: input.ProfileURL,
		Status:     input.Status,
	}
	if err := lic.Accounts.Create(&account); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create account", err)
	}

	lic.recordActivity(userID, "linkedin_account_connected", "Connected LinkedIn account "+account.Name, fiber.Map{"account_id": account.ID})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(account))
}

// UpdateAccount applies a partial update to the account profile fields.
func (lic *LinkedInController) UpdateAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	account, err := lic.Accounts.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch account", err)
	}
	if account == nil || account.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Account not found", nil)
	}

	var input struct {
		Name       string  `json:"name" validate:"omitempty,max=200"`
		Email      string  `json:"email" validate:"omitempty,email"`
		ProfileURL *string `json:"profile_url"`
		Status     string  `json:"status" validate:"omitempty,oneof=active paused error"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Name != "" {
		account.Name = input.Name
	}
	if input.Email != "" {
		account.Email = strings.ToLower(input.Email)
	}
	if input.ProfileURL != nil {
		account.ProfileURL = *input.ProfileURL
	}
	if input.Status != "" {
		account.Status = input.Status
	}

	if err := lic.Accounts.Update(account); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update account", err)
	}
	return c.JSON(utils.SuccessResponse(account))
}

// UpdateAccountStats applies a partial write to the account's cached
// counters; omitted fields are left untouched.
func (lic *LinkedInController) UpdateAccountStats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	account, err := lic.Accounts.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch account", err)
	}
	if account == nil || account.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Account not found", nil)
	}

	var input struct {
		Connections  *int       `json:"connections" validate:"omitempty,min=0"`
		MessagesSent *int       `json:"messages_sent" validate:"omitempty,min=0"`
		ResponseRate *float64   `json:"response_rate" validate:"omitempty,min=0,max=100"`
		LastActivity *time.Time `json:"last_activity"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	update := store.LinkedInStatsUpdate{
		Connections:  input.Connections,
		MessagesSent: input.MessagesSent,
		ResponseRate: input.ResponseRate,
		LastActivity: input.LastActivity,
	}
	updated, err := lic.Accounts.UpdateStats(account.ID, update)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update account stats", err)
	}
	return c.JSON(utils.SuccessResponse(updated))
}

// DeleteAccount hard-deletes a LinkedIn account.
func (lic *LinkedInController) DeleteAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	account, err := lic.Accounts.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch account", err)
	}
	if account == nil || account.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Account not found", nil)
	}

	if _, err := lic.Accounts.Delete(account.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete account", err)
	}

	lic.recordActivity(userID, "linkedin_account_removed", "Removed LinkedIn account "+account.Name, fiber.Map{"account_id": account.ID})

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}

func (lic *LinkedInController) recordActivity(userID uint, action, description string, metadata fiber.Map) {
	if err := lic.Activity.Record(userID, action, description, metadata); err != nil {
		lic.Logger.WithError(err).Warn("failed to record activity")
	}
}
