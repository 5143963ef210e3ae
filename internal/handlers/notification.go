package handlers

import (
	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/services/notification"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService *notification.Service
}

func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: svc}
}

func (h *NotificationHandler) ListMine(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	p := pagination.ParseFromRequest(c)
	items, total, err := h.notificationService.ListForUser(c.UserContext(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list notifications")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid notification id")
	}
	if err := h.notificationService.MarkRead(c.UserContext(), claims.UserID, uint(id)); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Notification marked read", nil)
}
