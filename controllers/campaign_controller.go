package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/models"
	"leadboard/store"
	"leadboard/utils"
)

type CampaignController struct {
	DB        *gorm.DB
	Campaigns *store.CampaignStore
	Leads     *store.LeadStore
	Activity  *store.ActivityStore
	Logger    *logrus.Logger
}

func NewCampaignController(db *gorm.DB, logger *logrus.Logger) *CampaignController {
	return &CampaignController{
		DB:        db,
		Campaigns: store.NewCampaignStore(db),
		Leads:     store.NewLeadStore(db),
		Activity:  store.NewActivityStore(db),
		Logger:    logger,
	}
}

// GetCampaigns returns a paginated, filtered, sorted page of the user's
// campaigns. The status filter accepts the synthetic value "inactive".
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	filters := store.CampaignFilters{
		Search: c.Query("search"),
		Status: c.Query("status"),
		UserID: c.Locals("userID").(uint),
	}

	result, err := cc.Campaigns.List(filters, utils.PaginationFromQuery(c))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sort field", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaigns", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// GetCampaign returns one campaign with its owner projection.
func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	row, err := cc.Campaigns.ByID(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}
	if row == nil || row.User == nil || row.User.ID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}
	return c.JSON(utils.SuccessResponse(row))
}

// GetCampaignLeads returns all leads attached to a campaign, newest first.
func (cc *CampaignController) GetCampaignLeads(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	campaign, err := cc.Campaigns.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}
	if campaign == nil || campaign.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	leads, err := cc.Leads.ByCampaign(campaign.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign leads", err)
	}
	return c.JSON(utils.SuccessResponse(leads))
}

// GetMetrics returns the aggregate rollup across the user's campaigns.
func (cc *CampaignController) GetMetrics(c *fiber.Ctx) error {
	metrics, err := cc.Campaigns.Metrics(c.Locals("userID").(uint))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute campaign metrics", err)
	}
	return c.JSON(utils.SuccessResponse(metrics))
}

// RecomputeStats recomputes one campaign's cached aggregates from its live
// lead rows and returns the fresh numbers.
func (cc *CampaignController) RecomputeStats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	campaign, err := cc.Campaigns.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}
	if campaign == nil || campaign.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	stats, err := cc.Campaigns.RecomputeStats(campaign.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to recompute campaign stats", err)
	}
	return c.JSON(utils.SuccessResponse(stats))
}

// CreateCampaign creates a new campaign in draft status unless told
// otherwise.
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description"`
		Status      string `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	campaign := models.Campaign{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
	}
	if err := cc.Campaigns.Create(&campaign); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign", err)
	}

	cc.recordActivity(userID, "campaign_created", "Created campaign "+campaign.Name, fiber.Map{"campaign_id": campaign.ID})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(campaign))
}

// UpdateCampaign applies a partial update to name, description or status.
func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	campaign, err := cc.Campaigns.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}
	if campaign == nil || campaign.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	var input struct {
		Name        string  `json:"name" validate:"omitempty,max=200"`
		Description *string `json:"description"`
		Status      string  `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Name != "" {
		campaign.Name = input.Name
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}
	action := "campaign_updated"
	if input.Status != "" && input.Status != campaign.Status {
		campaign.Status = input.Status
		if input.Status == models.CampaignStatusActive {
			action = "campaign_started"
		}
	}

	if err := cc.Campaigns.Update(campaign); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign", err)
	}

	cc.recordActivity(userID, action, "Updated campaign "+campaign.Name, fiber.Map{"campaign_id": campaign.ID})

	return c.JSON(utils.SuccessResponse(campaign))
}

// DeleteCampaign hard-deletes a campaign. Its leads survive with their
// campaign reference nulled out.
func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	campaign, err := cc.Campaigns.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
	}
	if campaign == nil || campaign.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	if _, err := cc.Campaigns.Delete(campaign.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete campaign", err)
	}

	cc.recordActivity(userID, "campaign_deleted", "Deleted campaign "+campaign.Name, fiber.Map{"campaign_id": campaign.ID})

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}

func (cc *CampaignController) recordActivity(userID uint, action, description string, metadata fiber.Map) {
	if err := cc.Activity.Record(userID, action, description, metadata); err != nil {
		cc.Logger.WithError(err).Warn("failed to record activity")
	}
}
