package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/store"
	"leadboard/utils"
)

type ActivityController struct {
	DB       *gorm.DB
	Activity *store.ActivityStore
	Logger   *logrus.Logger
}

func NewActivityController(db *gorm.DB, logger *logrus.Logger) *ActivityController {
	return &ActivityController{
		DB:       db,
		Activity: store.NewActivityStore(db),
		Logger:   logger,
	}
}

// GetActivity returns a paginated page of the user's audit feed, newest
// first by default.
func (ac *ActivityController) GetActivity(c *fiber.Ctx) error {
	filters := store.ActivityFilters{
		Search: c.Query("search"),
		Action: c.Query("action"),
		UserID: c.Locals("userID").(uint),
	}

	result, err := ac.Activity.List(filters, utils.PaginationFromQuery(c))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sort field", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch activity", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}
