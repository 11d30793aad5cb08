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

type LeadController struct {
	DB        *gorm.DB
	Leads     *store.LeadStore
	Campaigns *store.CampaignStore
	Activity  *store.ActivityStore
	Logger    *logrus.Logger
}

func NewLeadController(db *gorm.DB, logger *logrus.Logger) *LeadController {
	return &LeadController{
		DB:        db,
		Leads:     store.NewLeadStore(db),
		Campaigns: store.NewCampaignStore(db),
		Activity:  store.NewActivityStore(db),
		Logger:    logger,
	}
}

func (lc *LeadController) filtersFromQuery(c *fiber.Ctx) store.LeadFilters {
	return store.LeadFilters{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		Source:     c.Query("source"),
		CampaignID: utils.ParseUint(c.Query("campaign_id")),
		UserID:     c.Locals("userID").(uint),
	}
}

// GetLeads returns a paginated, filtered, sorted page of the user's leads.
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	result, err := lc.Leads.List(lc.filtersFromQuery(c), utils.PaginationFromQuery(c))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sort field", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// GetLeadsInfinite is the infinite-scroll variant of GetLeads: the cursor
// arrives as page_param and the response carries next_page/has_more.
func (lc *LeadController) GetLeadsInfinite(c *fiber.Ctx) error {
	result, err := lc.Leads.List(lc.filtersFromQuery(c), utils.InfinitePaginationFromQuery(c))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sort field", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// GetLead returns one lead with its campaign and owner projections.
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	row, err := lc.Leads.ByID(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}
	if row == nil || row.User == nil || row.User.ID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}
	return c.JSON(utils.SuccessResponse(row))
}

// CreateLead creates a new lead and refreshes the cached stats of the
// campaign it joins.
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		Name         string                 `json:"name" validate:"required,max=200"`
		Email        string                 `json:"email" validate:"required,email"`
		Phone        string                 `json:"phone" validate:"omitempty,max=50"`
		Company      string                 `json:"company" validate:"required,max=200"`
		Source       string                 `json:"source" validate:"required,max=100"`
		Status       string                 `json:"status" validate:"omitempty,oneof=pending contacted responded converted"`
		CampaignID   *uint                  `json:"campaign_id"`
		Notes        string                 `json:"notes"`
		CustomFields map[string]interface{} `json:"custom_fields"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.CampaignID != nil {
		ok, err := lc.campaignOwned(*input.CampaignID, userID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
		}
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
	}

	lead := models.Lead{
		Name:         input.Name,
		Email:        strings.ToLower(input.Email),
		Phone:        input.Phone,
		Company:      input.Company,
		Source:       input.Source,
		Status:       input.Status,
		CampaignID:   input.CampaignID,
		UserID:       userID,
		Notes:        input.Notes,
		CustomFields: input.CustomFields,
	}
	if err := lc.Leads.Create(&lead); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	lc.refreshCampaignStats(lead.CampaignID)
	lc.recordActivity(userID, "lead_created", "Created lead "+lead.Name, fiber.Map{"lead_id": lead.ID})

	row, err := lc.Leads.ByID(lead.ID)
	if err != nil || row == nil {
		return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(lead))
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(row))
}

// UpdateLead applies a partial update. Campaign stats are refreshed for
// both the old and the new campaign when the lead moves or changes status.
func (lc *LeadController) UpdateLead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	lead, err := lc.Leads.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}
	if lead == nil || lead.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	var input struct {
		Name          string                 `json:"name" validate:"omitempty,max=200"`
		Email         string                 `json:"email" validate:"omitempty,email"`
		Phone         *string                `json:"phone"`
		Company       string                 `json:"company" validate:"omitempty,max=200"`
		Source        string                 `json:"source" validate:"omitempty,max=100"`
		Status        string                 `json:"status" validate:"omitempty,oneof=pending contacted responded converted"`
		CampaignID    *uint                  `json:"campaign_id"`
		ClearCampaign bool                   `json:"clear_campaign"`
		LastContacted *time.Time             `json:"last_contacted"`
		Notes         *string                `json:"notes"`
		CustomFields  map[string]interface{} `json:"custom_fields"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	oldCampaignID := lead.CampaignID

	if input.Name != "" {
		lead.Name = input.Name
	}
	if input.Email != "" {
		lead.Email = strings.ToLower(input.Email)
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Company != "" {
		lead.Company = input.Company
	}
	if input.Source != "" {
		lead.Source = input.Source
	}
	if input.Status != "" {
		lead.Status = input.Status
		if input.Status != models.LeadStatusPending && lead.LastContacted == nil {
			now := time.Now()
			lead.LastContacted = &now
		}
	}
	if input.ClearCampaign {
		lead.CampaignID = nil
	} else if input.CampaignID != nil {
		ok, err := lc.campaignOwned(*input.CampaignID, userID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaign", err)
		}
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		lead.CampaignID = input.CampaignID
	}
	if input.LastContacted != nil {
		lead.LastContacted = input.LastContacted
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.CustomFields != nil {
		lead.CustomFields = input.CustomFields
	}

	if err := lc.Leads.Update(lead); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
	}

	lc.refreshCampaignStats(oldCampaignID)
	if lead.CampaignID != nil && (oldCampaignID == nil || *oldCampaignID != *lead.CampaignID) {
		lc.refreshCampaignStats(lead.CampaignID)
	}
	lc.recordActivity(userID, "lead_updated", "Updated lead "+lead.Name, fiber.Map{"lead_id": lead.ID})

	row, err := lc.Leads.ByID(lead.ID)
	if err != nil || row == nil {
		return c.JSON(utils.SuccessResponse(lead))
	}
	return c.JSON(utils.SuccessResponse(row))
}

// DeleteLead hard-deletes a lead and refreshes its campaign's stats.
func (lc *LeadController) DeleteLead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	lead, err := lc.Leads.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}
	if lead == nil || lead.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	if _, err := lc.Leads.Delete(lead.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete lead", err)
	}

	lc.refreshCampaignStats(lead.CampaignID)
	lc.recordActivity(userID, "lead_deleted", "Deleted lead "+lead.Name, fiber.Map{"lead_id": lead.ID})

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}

// campaignOwned reports whether the campaign exists and belongs to the user.
func (lc *LeadController) campaignOwned(campaignID, userID uint) (bool, error) {
	campaign, err := lc.Campaigns.Get(campaignID)
	if err != nil {
		return false, err
	}
	return campaign != nil && campaign.UserID == userID, nil
}

// refreshCampaignStats recomputes a campaign's cached aggregates after a
// lead write. Failures are logged and left for the stats worker to
// reconcile.
func (lc *LeadController) refreshCampaignStats(campaignID *uint) {
	if campaignID == nil {
		return
	}
	if _, err := lc.Campaigns.RecomputeStats(*campaignID); err != nil {
		lc.Logger.WithError(err).WithField("campaign_id", *campaignID).
			Warn("failed to refresh campaign stats")
	}
}

func (lc *LeadController) recordActivity(userID uint, action, description string, metadata fiber.Map) {
	if err := lc.Activity.Record(userID, action, description, metadata); err != nil {
		lc.Logger.WithError(err).Warn("failed to record activity")
	}
}
