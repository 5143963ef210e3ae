package handlers

import (
	"time"

	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/services/reward"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"
	"github.com/gungun88/merchant-platform-sub002/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type RewardHandler struct {
	rewardService *reward.Service
}

func NewRewardHandler(svc *reward.Service) *RewardHandler {
	return &RewardHandler{rewardService: svc}
}

func (h *RewardHandler) CreatePlan(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		TargetGroup string    `json:"target_group" validate:"required"`
		Points      int       `json:"points" validate:"required,gt=0"`
		Title       string    `json:"title" validate:"required"`
		Content     string    `json:"content"`
		ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	plan := &models.RewardPlan{
		TargetGroup: input.TargetGroup,
		Points:      input.Points,
		Title:       input.Title,
		Content:     input.Content,
		ScheduledAt: input.ScheduledAt,
	}
	if err := h.rewardService.CreatePlan(c.UserContext(), admin, plan); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Reward plan scheduled", plan)
}

func (h *RewardHandler) CancelPlan(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid plan id")
	}
	if err := h.rewardService.CancelPlan(c.UserContext(), admin, uint(id)); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Reward plan cancelled", nil)
}

func (h *RewardHandler) ListPlans(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	plans, total, err := h.rewardService.ListPlans(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list plans")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, plans))
}

// ClaimDailyReward grants the daily login reward to the authenticated
// deposit merchant's owner.
func (h *RewardHandler) ClaimDailyReward(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}
	result, err := h.rewardService.ClaimDailyReward(c.UserContext(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Daily reward claimed", result)
}
