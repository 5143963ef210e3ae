package handlers

import (
	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/services/deposit"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"
	"github.com/gungun88/merchant-platform-sub002/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type MerchantHandler struct {
	merchantRepo   repositories.MerchantRepository
	depositService *deposit.Service
}

func NewMerchantHandler(merchantRepo repositories.MerchantRepository, depositService *deposit.Service) *MerchantHandler {
	return &MerchantHandler{
		merchantRepo:   merchantRepo,
		depositService: depositService,
	}
}

// ListMerchants returns merchants with optional deposit-status and
// active filters, pinned first.
func (h *MerchantHandler) ListMerchants(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	filter := repositories.MerchantFilter{
		DepositStatus: c.Query("deposit_status"),
		DepositOnly:   c.QueryBool("deposit_only"),
	}
	if c.Query("is_active") != "" {
		active := c.QueryBool("is_active")
		filter.IsActive = &active
	}

	merchants, total, err := h.merchantRepo.List(c.UserContext(), filter, p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list merchants")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, merchants))
}

func (h *MerchantHandler) GetMerchant(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid merchant id")
	}
	m, err := h.merchantRepo.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}
	return c.JSON(m)
}

func (h *MerchantHandler) SetPinned(c *fiber.Ctx) error {
	return h.setFlag(c, "pinned")
}

func (h *MerchantHandler) SetTop(c *fiber.Ctx) error {
	return h.setFlag(c, "top")
}

func (h *MerchantHandler) setFlag(c *fiber.Ctx, flag string) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid merchant id")
	}
	var input struct {
		Value bool `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if flag == "pinned" {
		err = h.merchantRepo.SetPinned(c.UserContext(), uint(id), input.Value)
	} else {
		err = h.merchantRepo.SetTop(c.UserContext(), uint(id), input.Value)
	}
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Merchant updated", fiber.Map{flag: input.Value})
}

// ActivateMerchant re-enables a deactivated merchant.
func (h *MerchantHandler) ActivateMerchant(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid merchant id")
	}
	if err := h.depositService.ActivateMerchant(c.UserContext(), admin, uint(id)); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Merchant activated", nil)
}

// DeactivateMerchant takes a merchant off the platform. A reason is
// mandatory; the deposit is left untouched.
func (h *MerchantHandler) DeactivateMerchant(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid merchant id")
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
	if err := h.depositService.DeactivateMerchant(c.UserContext(), admin, uint(id), input.Reason); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Merchant deactivated", nil)
}
