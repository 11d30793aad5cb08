package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/store"
	"leadboard/utils"
)

type DashboardController struct {
	DB     *gorm.DB
	Users  *store.UserStore
	Cache  *utils.Cache
	Logger *logrus.Logger
}

func NewDashboardController(db *gorm.DB, cache *utils.Cache, logger *logrus.Logger) *DashboardController {
	return &DashboardController{
		DB:     db,
		Users:  store.NewUserStore(db),
		Cache:  cache,
		Logger: logger,
	}
}

// GetStats returns the authenticated user's dashboard counters, served
// from cache when fresh enough.
func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	key := fmt.Sprintf("dashboard:stats:%d", userID)

	var cached store.UserStats
	if dc.Cache.Get(c.Context(), key, &cached) {
		return c.JSON(utils.SuccessResponse(&cached))
	}

	stats, err := dc.Users.Stats(userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute dashboard stats", err)
	}

	dc.Cache.Set(c.Context(), key, stats)
	return c.JSON(utils.SuccessResponse(stats))
}

// GetDashboard returns the stats rollup plus the recent campaigns and
// leads shown on the landing page.
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	key := fmt.Sprintf("dashboard:full:%d", userID)

	var cached store.UserDashboard
	if dc.Cache.Get(c.Context(), key, &cached) {
		return c.JSON(utils.SuccessResponse(&cached))
	}

	dashboard, err := dc.Users.Dashboard(userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build dashboard", err)
	}

	dc.Cache.Set(c.Context(), key, dashboard)
	return c.JSON(utils.SuccessResponse(dashboard))
}
