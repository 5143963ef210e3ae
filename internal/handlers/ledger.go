package handlers

import (
	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/services/ledger"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"
	"github.com/gungun88/merchant-platform-sub002/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	ledgerService *ledger.Service
}

func NewLedgerHandler(svc *ledger.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: svc}
}

func (h *LedgerHandler) ListEntries(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	filter := repositories.LedgerFilter{
		TransactionType: c.Query("transaction_type"),
		IncomeType:      c.Query("income_type"),
	}
	if id := c.QueryInt("merchant_id"); id > 0 {
		mid := uint(id)
		filter.MerchantID = &mid
	}
	if id := c.QueryInt("partner_id"); id > 0 {
		pid := uint(id)
		filter.PartnerID = &pid
	}

	entries, total, err := h.ledgerService.List(c.UserContext(), filter, p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list ledger entries")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, entries))
}

func (h *LedgerHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.ledgerService.Summary(c.UserContext())
	if err != nil {
		return response.ServerError(c, "failed to summarize ledger")
	}
	return c.JSON(summary)
}

// CreateManualEntry books a hand-entered income or expense.
func (h *LedgerHandler) CreateManualEntry(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		TransactionType string  `json:"transaction_type" validate:"required,oneof=income expense"`
		IncomeType      string  `json:"income_type" validate:"required"`
		Amount          float64 `json:"amount" validate:"required,gt=0"`
		Description     string  `json:"description"`
		AdminNote       string  `json:"admin_note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	entry := &models.PlatformLedgerEntry{
		TransactionType: input.TransactionType,
		IncomeType:      input.IncomeType,
		Amount:          input.Amount,
		Description:     input.Description,
		AdminNote:       input.AdminNote,
	}
	if err := h.ledgerService.AppendManual(c.UserContext(), admin, entry); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Ledger entry created", entry)
}

// UpdateAdminNote edits the single mutable field of an entry.
func (h *LedgerHandler) UpdateAdminNote(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid entry id")
	}

	var input struct {
		AdminNote string `json:"admin_note" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	if err := h.ledgerService.UpdateAdminNote(c.UserContext(), admin, uint(id), input.AdminNote); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Admin note updated", nil)
}
