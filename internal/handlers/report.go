package handlers

import (
	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/services/report"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"
	"github.com/gungun88/merchant-platform-sub002/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *report.Service
	store         *repositories.ReportStore
}

func NewReportHandler(svc *report.Service, store *repositories.ReportStore) *ReportHandler {
	return &ReportHandler{reportService: svc, store: store}
}

// FileReport lets any authenticated user report a merchant.
func (h *ReportHandler) FileReport(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		MerchantID  uint   `json:"merchant_id" validate:"required"`
		Category    string `json:"category" validate:"required"`
		Content     string `json:"content"`
		EvidenceURL string `json:"evidence_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	if _, err := h.store.GetMerchant(input.MerchantID); err != nil {
		return response.DomainError(c, err)
	}

	r := &models.AbuseReport{
		ReporterUserID: claims.UserID,
		MerchantID:     input.MerchantID,
		Category:       input.Category,
		Content:        input.Content,
		EvidenceURL:    input.EvidenceURL,
		Status:         models.ReportStatusPending,
	}
	if err := h.store.CreateReport(r); err != nil {
		return response.ServerError(c, "failed to file report")
	}
	return response.Success(c, "Report filed", r)
}

func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	var merchantID *uint
	if id := c.QueryInt("merchant_id"); id > 0 {
		mid := uint(id)
		merchantID = &mid
	}

	reports, total, err := h.store.ListReports(c.Query("status"), merchantID, p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list reports")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, reports))
}

func (h *ReportHandler) ResolveReport(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid report id")
	}

	var input struct {
		Penalty    int    `json:"penalty" validate:"required,gt=0"`
		Resolution string `json:"resolution" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	result, err := h.reportService.Resolve(c.UserContext(), admin, uint(id), input.Penalty, input.Resolution)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Report resolved", result)
}

func (h *ReportHandler) DismissReport(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid report id")
	}

	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	if err := h.reportService.Dismiss(c.UserContext(), admin, uint(id), input.Reason); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Report dismissed", nil)
}
