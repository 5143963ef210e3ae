package handlers

import (
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/services/audit"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	auditService *audit.Service
}

func NewAuditHandler(svc *audit.Service) *AuditHandler {
	return &AuditHandler{auditService: svc}
}

func (h *AuditHandler) ListOperations(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	filter := repositories.AuditFilter{
		OperationType: c.Query("operation_type"),
		TargetType:    c.Query("target_type"),
	}
	if id := c.QueryInt("admin_user_id"); id > 0 {
		uid := uint(id)
		filter.AdminUserID = &uid
	}

	entries, total, err := h.auditService.List(c.UserContext(), filter, p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list operations")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, entries))
}
