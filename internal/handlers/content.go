package handlers

import (
	"time"

	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/services/content"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/pagination"
	"github.com/gungun88/merchant-platform-sub002/internal/utils/response"
	"github.com/gungun88/merchant-platform-sub002/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	contentService *content.Service
}

func NewContentHandler(svc *content.Service) *ContentHandler {
	return &ContentHandler{contentService: svc}
}

// --- banners ---

func (h *ContentHandler) CreateBanner(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		Title     string     `json:"title" validate:"required"`
		ImageURL  string     `json:"image_url" validate:"required"`
		LinkURL   string     `json:"link_url"`
		SortOrder int        `json:"sort_order"`
		StartsAt  *time.Time `json:"starts_at"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	b := &models.Banner{
		Title:     input.Title,
		ImageURL:  input.ImageURL,
		LinkURL:   input.LinkURL,
		SortOrder: input.SortOrder,
		IsActive:  true,
		StartsAt:  input.StartsAt,
		ExpiresAt: input.ExpiresAt,
		CreatedBy: admin.UserID,
	}
	if err := h.contentService.CreateBanner(c.UserContext(), b); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Banner created", b)
}

func (h *ContentHandler) SetBannerActive(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid banner id")
	}
	var input struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.contentService.SetBannerActive(c.UserContext(), uint(id), input.Active); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Banner updated", fiber.Map{"active": input.Active})
}

// ListBanners serves the public carousel; pass all=true on admin calls
// to include inactive and out-of-window banners.
func (h *ContentHandler) ListBanners(c *fiber.Ctx) error {
	activeOnly := !c.QueryBool("all")
	banners, err := h.contentService.ListBanners(c.UserContext(), activeOnly)
	if err != nil {
		return response.ServerError(c, "failed to list banners")
	}
	return c.JSON(fiber.Map{"data": banners})
}

func (h *ContentHandler) DeleteBanner(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid banner id")
	}
	if err := h.contentService.DeleteBanner(c.UserContext(), uint(id)); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Banner deleted", nil)
}

// --- announcements ---

func (h *ContentHandler) CreateAnnouncement(c *fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		Title       string `json:"title" validate:"required"`
		Content     string `json:"content"`
		IsPinned    bool   `json:"is_pinned"`
		IsPublished *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}
	a := &models.Announcement{
		Title:       input.Title,
		Content:     input.Content,
		IsPinned:    input.IsPinned,
		IsPublished: published,
		CreatedBy:   admin.UserID,
	}
	if err := h.contentService.CreateAnnouncement(c.UserContext(), a); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Announcement created", a)
}

func (h *ContentHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid announcement id")
	}

	var input struct {
		Title       string `json:"title" validate:"required"`
		Content     string `json:"content"`
		IsPinned    bool   `json:"is_pinned"`
		IsPublished bool   `json:"is_published"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Validate(input); err != nil {
		return response.DomainError(c, err)
	}

	a := &models.Announcement{
		Title:       input.Title,
		Content:     input.Content,
		IsPinned:    input.IsPinned,
		IsPublished: input.IsPublished,
	}
	a.ID = uint(id)
	if err := h.contentService.UpdateAnnouncement(c.UserContext(), a); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Announcement updated", a)
}

func (h *ContentHandler) ListAnnouncements(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	publishedOnly := !c.QueryBool("all")
	items, total, err := h.contentService.ListAnnouncements(c.UserContext(), publishedOnly, p.Limit, p.Offset)
	if err != nil {
		return response.ServerError(c, "failed to list announcements")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func (h *ContentHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid announcement id")
	}
	if err := h.contentService.DeleteAnnouncement(c.UserContext(), uint(id)); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Announcement deleted", nil)
}
