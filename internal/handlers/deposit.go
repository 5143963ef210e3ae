package handlers

import (
	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/services/deposit"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"
	"github.com/gungun88/merchant-platform-sub002/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// DepositHandler serves the admin review operations of the deposit
// lifecycle plus the merchant-facing application submissions.
type DepositHandler struct {
	depositService *deposit.Service
	store          *repositories.DepositStore
	merchantRepo   repositories.MerchantRepository
	refundFeeRate  float64
}

func NewDepositHandler(svc *deposit.Service, store *repositories.DepositStore, merchantRepo repositories.MerchantRepository, refundFeeRate float64) *DepositHandler {
	if refundFeeRate <= 0 {
		refundFeeRate = 10
	}
	return &DepositHandler{
		depositService: svc,
		store:          store,
		merchantRepo:   merchantRepo,
		refundFeeRate:  refundFeeRate,
	}
}

// --- admin review operations ---

func (h *DepositHandler) ApproveDepositApplication(c *fiber.Ctx) error {
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

	result, err := h.depositService.ApproveDepositApplication(c.UserContext(), admin, uint(id), input.AdminNote)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Deposit application approved", result)
}

func (h *DepositHandler) RejectDepositApplication(c *fiber.Ctx) error {
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

	result, err := h.depositService.RejectDepositApplication(c.UserContext(), admin, uint(id), input.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Deposit application rejected", result)
}

func (h *DepositHandler) ApproveTopUpApplication(c *fiber.Ctx) error {
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

	result, err := h.depositService.ApproveTopUpApplication(c.UserContext(), admin, uint(id), input.AdminNote)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Top-up application approved", result)
}

func (h *DepositHandler) RejectTopUpApplication(c *fiber.Ctx) error {
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

	result, err := h.depositService.RejectTopUpApplication(c.UserContext(), admin, uint(id), input.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Top-up application rejected", result)
}

func (h *DepositHandler) ApproveRefundApplication(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid application id")
	}

	var input struct {
		TransactionHash string `json:"transaction_hash" validate:"required"`
		AdminNote       string `json:"admin_note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	result, err := h.depositService.ApproveRefundApplication(c.UserContext(), admin, uint(id), input.TransactionHash, input.AdminNote)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Refund application approved", result)
}

func (h *DepositHandler) RejectRefundApplication(c *fiber.Ctx) error {
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

	result, err := h.depositService.RejectRefundApplication(c.UserContext(), admin, uint(id), input.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Refund application rejected", result)
}

func (h *DepositHandler) ViolateMerchant(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid merchant id")
	}

	var input struct {
		Reason       string  `json:"reason" validate:"required"`
		DeductAmount float64 `json:"deduct_amount" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	result, err := h.depositService.ViolateMerchant(c.UserContext(), admin, uint(id), input.Reason, input.DeductAmount)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Merchant marked in violation", result)
}

func (h *DepositHandler) CompleteCompensation(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid merchant id")
	}

	var input struct {
		CompensationAmount float64 `json:"compensation_amount" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	result, err := h.depositService.CompleteCompensation(c.UserContext(), admin, uint(id), input.CompensationAmount)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Compensation recorded", result)
}

// --- admin listings ---

func (h *DepositHandler) ListDepositApplications(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	apps, total, err := h.store.ListDepositApplications(c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list applications")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, apps))
}

func (h *DepositHandler) ListTopUpApplications(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	apps, total, err := h.store.ListTopUpApplications(c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list applications")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, apps))
}

func (h *DepositHandler) ListRefundApplications(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	apps, total, err := h.store.ListRefundApplications(c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list applications")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, apps))
}

// --- merchant-facing submissions ---

// SubmitDepositApplication files a request to become a deposit merchant.
func (h *DepositHandler) SubmitDepositApplication(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
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

	m, err := h.merchantRepo.GetByOwner(c.UserContext(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	if m.DepositStatus == models.DepositStatusPaid || m.DepositStatus == models.DepositStatusFrozen {
		return response.Error(c, fiber.StatusUnprocessableEntity, "merchant already holds a deposit")
	}
	pending, err := h.store.HasPendingDepositApplication(m.ID)
	if err != nil {
		return response.ServerError(c, "failed to check pending applications")
	}
	if pending {
		return response.Error(c, fiber.StatusUnprocessableEntity, "a deposit application is already pending")
	}

	app := &models.DepositApplication{
		MerchantID:      m.ID,
		ApplicantUserID: claims.UserID,
		Amount:          input.Amount,
		ProofImageURL:   input.ProofImageURL,
		TransactionHash: input.TransactionHash,
		Status:          models.ApplicationStatusPending,
	}
	if err := h.store.CreateDepositApplication(app); err != nil {
		return response.ServerError(c, "failed to submit application")
	}
	return response.Success(c, "Deposit application submitted", app)
}

// SubmitTopUpApplication files a top-up request. The merchant's current
// deposit amount is snapshotted so approval can detect drift.
func (h *DepositHandler) SubmitTopUpApplication(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		TopUpAmount     float64 `json:"top_up_amount" validate:"required,gt=0"`
		ProofImageURL   string  `json:"proof_image_url" validate:"required"`
		TransactionHash string  `json:"transaction_hash" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	m, err := h.merchantRepo.GetByOwner(c.UserContext(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	if m.DepositStatus != models.DepositStatusPaid {
		return response.Error(c, fiber.StatusUnprocessableEntity, "top-up requires a paid deposit")
	}
	pending, err := h.store.HasPendingTopUpApplication(m.ID)
	if err != nil {
		return response.ServerError(c, "failed to check pending applications")
	}
	if pending {
		return response.Error(c, fiber.StatusUnprocessableEntity, "a top-up application is already pending")
	}

	app := &models.DepositTopUpApplication{
		MerchantID:      m.ID,
		ApplicantUserID: claims.UserID,
		OriginalAmount:  m.DepositAmount,
		TopUpAmount:     input.TopUpAmount,
		TotalAmount:     m.DepositAmount + input.TopUpAmount,
		ProofImageURL:   input.ProofImageURL,
		TransactionHash: input.TransactionHash,
		Status:          models.ApplicationStatusPending,
	}
	if err := h.store.CreateTopUpApplication(app); err != nil {
		return response.ServerError(c, "failed to submit application")
	}
	return response.Success(c, "Top-up application submitted", app)
}

// SubmitRefundApplication files a withdrawal request. The handling fee
// is computed from the configured rate; fee + refund equals the deposit.
func (h *DepositHandler) SubmitRefundApplication(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		WalletAddress string `json:"wallet_address" validate:"required"`
		WalletNetwork string `json:"wallet_network" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	m, err := h.merchantRepo.GetByOwner(c.UserContext(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	if m.DepositStatus != models.DepositStatusPaid {
		return response.Error(c, fiber.StatusUnprocessableEntity, "refund requires a paid deposit")
	}
	pending, err := h.store.HasPendingRefundApplication(m.ID)
	if err != nil {
		return response.ServerError(c, "failed to check pending applications")
	}
	if pending {
		return response.Error(c, fiber.StatusUnprocessableEntity, "a refund application is already pending")
	}

	feeAmount := m.DepositAmount * h.refundFeeRate / 100
	app := &models.DepositRefundApplication{
		MerchantID:      m.ID,
		ApplicantUserID: claims.UserID,
		DepositAmount:   m.DepositAmount,
		FeeRate:         h.refundFeeRate,
		FeeAmount:       feeAmount,
		RefundAmount:    m.DepositAmount - feeAmount,
		WalletAddress:   input.WalletAddress,
		WalletNetwork:   input.WalletNetwork,
		DepositPaidAt:   m.DepositPaidAt,
		Status:          models.ApplicationStatusPending,
	}
	if err := h.store.CreateRefundApplication(app); err != nil {
		return response.ServerError(c, "failed to submit application")
	}
	if err := h.store.SetMerchantRefundStatus(m.ID, "pending"); err != nil {
		return response.ServerError(c, "failed to submit application")
	}
	return response.Success(c, "Refund application submitted", app)
}
