package handlers

import (
	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/services/partner"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"
	"github.com/gungun88/merchant-platform-sub002/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type PartnerHandler struct {
	partnerService *partner.Service
	store          *repositories.PartnerStore
}

func NewPartnerHandler(svc *partner.Service, store *repositories.PartnerStore) *PartnerHandler {
	return &PartnerHandler{partnerService: svc, store: store}
}

func (h *PartnerHandler) ListPartners(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	partners, total, err := h.store.ListPartners(c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list partners")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, partners))
}

func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		Name       string `json:"name" validate:"required"`
		LogoURL    string `json:"logo_url"`
		WebsiteURL string `json:"website_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	p := &models.Partner{
		OwnerUserID: claims.UserID,
		Name:        input.Name,
		LogoURL:     input.LogoURL,
		WebsiteURL:  input.WebsiteURL,
		Status:      models.PartnerStatusPending,
	}
	if err := h.store.CreatePartner(p); err != nil {
		return response.ServerError(c, "failed to create partner")
	}
	return response.Success(c, "Partner created", p)
}

// SubmitSubscription files a subscription application for a partner.
func (h *PartnerHandler) SubmitSubscription(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	partnerID, err := c.ParamsInt("id")
	if err != nil || partnerID <= 0 {
		return response.BadRequest(c, "invalid partner id")
	}

	var input struct {
		PlanMonths      int     `json:"plan_months" validate:"required,gt=0"`
		Amount          float64 `json:"amount" validate:"required,gt=0"`
		ProofImageURL   string  `json:"proof_image_url" validate:"required"`
		TransactionHash string  `json:"transaction_hash" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	if _, err := h.store.GetPartner(uint(partnerID)); err != nil {
		return response.DomainError(c, err)
	}

	app := &models.PartnerSubscriptionApplication{
		PartnerID:       uint(partnerID),
		ApplicantUserID: claims.UserID,
		PlanMonths:      input.PlanMonths,
		Amount:          input.Amount,
		ProofImageURL:   input.ProofImageURL,
		TransactionHash: input.TransactionHash,
		Status:          models.ApplicationStatusPending,
	}
	if err := h.store.CreateApplication(app); err != nil {
		return response.ServerError(c, "failed to submit application")
	}
	return response.Success(c, "Subscription application submitted", app)
}

func (h *PartnerHandler) ListApplications(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	apps, total, err := h.store.ListApplications(c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list applications")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, apps))
}

func (h *PartnerHandler) ApproveSubscription(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid application id")
	}

	var input struct {
		AdminNote string `json:"admin_note"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.partnerService.ApproveSubscription(c.UserContext(), admin, uint(id), input.AdminNote)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Subscription approved", result)
}

func (h *PartnerHandler) RejectSubscription(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid application id")
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

	result, err := h.partnerService.RejectSubscription(c.UserContext(), admin, uint(id), input.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Subscription rejected", result)
}
