package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/dto"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/repository"
	"github.com/spec-kit/case-service/internal/service"
)

// ActivityHandler exposes admin audit queries over the journal.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activityService}
}

// List GET /activity with optional event_type/entity_type/actor filters.
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	filter := repository.ActivityLogFilter{}
	if raw := c.Query("event_type"); raw != "" {
		eventType := domain.ActivityEventType(raw)
		filter.EventType = &eventType
	}
	if raw := c.Query("entity_type"); raw != "" {
		entityType := domain.EntityType(raw)
		filter.EntityType = &entityType
	}
	if raw := c.Query("actor"); raw != "" {
		actor := raw
		filter.ActorUserID = &actor
	}

	entries, err := h.activity.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityLogResponses(entries)})
}

// ListByEntity GET /activity/entity/:kind/:id.
func (h *ActivityHandler) ListByEntity(c *fiber.Ctx) error {
	entries, err := h.activity.ListByEntity(c.UserContext(), domain.EntityType(c.Params("kind")), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityLogResponses(entries)})
}

// ListByActor GET /activity/actor/:id.
func (h *ActivityHandler) ListByActor(c *fiber.Ctx) error {
	entries, err := h.activity.ListByActor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityLogResponses(entries)})
}
