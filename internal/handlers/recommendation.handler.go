package handlers

import (
	"errors"

	"carelink/internal/app"
	recommendationController "carelink/internal/controllers/recommendation"
	"carelink/internal/handlers/middleware"
	. "carelink/internal/models"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
	tokenService             *services.TokenService
}

func NewRecommendationHandler(app app.App, router fiber.Router) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationController: app.Controllers.Recommendation,
		tokenService:             app.Services.Token,
		Handler: Handler{
			log:        logger.New("handlers").File("recommendation_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecommendationHandler) Register() {
	recommendations := h.router.Group(
		"/recommendations",
		h.middleware.RequireAuth(h.tokenService),
	)

	recommendations.Get("/", h.list)
	recommendations.Post("/refresh", h.refresh)
	recommendations.Post("/:id/interactions", h.recordInteraction)
	recommendations.Get("/:id/interactions", h.listInteractions)
}

func (h *RecommendationHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var status *RecommendationStatus
	if raw := c.Query("status"); raw != "" {
		parsed := RecommendationStatus(raw)
		switch parsed {
		case RecommendationStatusActive, RecommendationStatusViewed,
			RecommendationStatusClicked, RecommendationStatusPurchased,
			RecommendationStatusDismissed:
			status = &parsed
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status filter",
			})
		}
	}

	recommendations, err := h.recommendationController.ListForUser(c.Context(), user, status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list recommendations",
		})
	}

	return c.JSON(fiber.Map{"recommendations": recommendations})
}

func (h *RecommendationHandler) refresh(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	created, err := h.recommendationController.Refresh(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to refresh recommendations",
		})
	}

	return c.JSON(fiber.Map{
		"created": len(created),
		"recommendations": created,
	})
}

func (h *RecommendationHandler) recordInteraction(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	recommendationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recommendation ID",
		})
	}

	var request recommendationController.RecordInteractionRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.recommendationController.RecordInteraction(
		c.Context(),
		user,
		recommendationID,
		&request,
	)
	if err != nil {
		switch {
		case errors.Is(err, recommendationController.ErrInvalidAction):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid interaction action",
			})
		case errors.Is(err, recommendationController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recommendation not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to record interaction",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *RecommendationHandler) listInteractions(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	recommendationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recommendation ID",
		})
	}

	interactions, err := h.recommendationController.ListInteractions(
		c.Context(),
		user,
		recommendationID,
	)
	if err != nil {
		if errors.Is(err, recommendationController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recommendation not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list interactions",
		})
	}

	return c.JSON(fiber.Map{"interactions": interactions})
}
