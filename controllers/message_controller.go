package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadboard/models"
	"leadboard/store"
	"leadboard/utils"
)

type MessageController struct {
	DB       *gorm.DB
	Messages *store.MessageStore
	Leads    *store.LeadStore
	Activity *store.ActivityStore
	Logger   *logrus.Logger
}

func NewMessageController(db *gorm.DB, logger *logrus.Logger) *MessageController {
	return &MessageController{
		DB:       db,
		Messages: store.NewMessageStore(db),
		Leads:    store.NewLeadStore(db),
		Activity: store.NewActivityStore(db),
		Logger:   logger,
	}
}

// GetMessages returns a paginated, filtered, sorted page of the user's
// messages, newest first by default.
func (mc *MessageController) GetMessages(c *fiber.Ctx) error {
	filters := store.MessageFilters{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Type:   c.Query("type"),
		LeadID: utils.ParseUint(c.Query("lead_id")),
		UserID: c.Locals("userID").(uint),
	}

	result, err := mc.Messages.List(filters, utils.PaginationFromQuery(c))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sort field", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch messages", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// GetMessage returns one message with its lead and sender projections.
func (mc *MessageController) GetMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	row, err := mc.Messages.ByID(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch message", err)
	}
	if row == nil || row.User == nil || row.User.ID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
	}
	return c.JSON(utils.SuccessResponse(row))
}

// GetLeadMessages returns the full conversation with one lead, newest
// first.
func (mc *MessageController) GetLeadMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	lead, err := mc.Leads.Get(utils.ParseUint(c.Params("leadId")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}
	if lead == nil || lead.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	messages, err := mc.Messages.ByLead(lead.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch conversation", err)
	}
	return c.JSON(utils.SuccessResponse(messages))
}

// GetStats returns the aggregate rollup across the user's messages.
func (mc *MessageController) GetStats(c *fiber.Ctx) error {
	stats, err := mc.Messages.Stats(c.Locals("userID").(uint))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute message stats", err)
	}
	return c.JSON(utils.SuccessResponse(stats))
}

// CreateMessage records a message exchanged with a lead. Outbound sends
// also stamp the lead's last_contacted.
func (mc *MessageController) CreateMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		LeadID  uint       `json:"lead_id" validate:"required"`
		Content string     `json:"content" validate:"required"`
		Type    string     `json:"type" validate:"omitempty,oneof=outbound inbound"`
		Status  string     `json:"status" validate:"omitempty,oneof=sent delivered read replied"`
		SentAt  *time.Time `json:"sent_at"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	lead, err := mc.Leads.Get(input.LeadID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}
	if lead == nil || lead.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	message := models.Message{
		LeadID:  lead.ID,
		UserID:  userID,
		Content: input.Content,
		Type:    input.Type,
		Status:  input.Status,
	}
	if input.SentAt != nil {
		message.SentAt = *input.SentAt
	}
	if err := mc.Messages.Create(&message); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create message", err)
	}

	if message.Type == models.MessageTypeOutbound {
		lead.LastContacted = &message.SentAt
		if lead.Status == models.LeadStatusPending {
			lead.Status = models.LeadStatusContacted
		}
		if err := mc.Leads.Update(lead); err != nil {
			mc.Logger.WithError(err).WithField("lead_id", lead.ID).
				Warn("failed to stamp lead contact time")
		}
	}

	mc.recordActivity(userID, "message_sent", "Messaged lead "+lead.Name, fiber.Map{"message_id": message.ID, "lead_id": lead.ID})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(message))
}

// MarkAsRead transitions a message to read and stamps read_at. Marking an
// already-read message again restamps read_at and is otherwise harmless.
func (mc *MessageController) MarkAsRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	message, err := mc.Messages.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch message", err)
	}
	if message == nil || message.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
	}

	updated, err := mc.Messages.MarkAsRead(message.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark message as read", err)
	}
	if updated == nil {
		return c.JSON(utils.SuccessResponse(message))
	}
	return c.JSON(utils.SuccessResponse(updated))
}

// UpdateMessage applies a partial update to a message's content, type or
// status. Moving to read stamps read_at; updated_at does not exist on
// messages and is never stamped.
func (mc *MessageController) UpdateMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	message, err := mc.Messages.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch message", err)
	}
	if message == nil || message.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
	}

	var input struct {
		Content string     `json:"content"`
		Type    string     `json:"type" validate:"omitempty,oneof=outbound inbound"`
		Status  string     `json:"status" validate:"omitempty,oneof=sent delivered read replied"`
		SentAt  *time.Time `json:"sent_at"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Content != "" {
		message.Content = input.Content
	}
	if input.Type != "" {
		message.Type = input.Type
	}
	if input.Status != "" {
		message.Status = input.Status
		if input.Status == models.MessageStatusRead && message.ReadAt == nil {
			now := time.Now()
			message.ReadAt = &now
		}
	}
	if input.SentAt != nil {
		message.SentAt = *input.SentAt
	}

	if err := mc.Messages.Update(message); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update message", err)
	}
	return c.JSON(utils.SuccessResponse(message))
}

// DeleteMessage hard-deletes a message.
func (mc *MessageController) DeleteMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	message, err := mc.Messages.Get(utils.ParseUint(c.Params("id")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch message", err)
	}
	if message == nil || message.UserID != userID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
	}

	if _, err := mc.Messages.Delete(message.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete message", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}

func (mc *MessageController) recordActivity(userID uint, action, description string, metadata fiber.Map) {
	if err := mc.Activity.Record(userID, action, description, metadata); err != nil {
		mc.Logger.WithError(err).Warn("failed to record activity")
	}
}
