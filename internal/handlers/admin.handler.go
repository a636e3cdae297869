package handlers

import (
	"errors"

	"carelink/internal/app"
	recommendationController "carelink/internal/controllers/recommendation"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
	tokenService             *services.TokenService
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		recommendationController: app.Controllers.Recommendation,
		tokenService:             app.Services.Token,
		Handler: Handler{
			log:        logger.New("handlers").File("admin_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group(
		"/admin",
		h.middleware.RequireAuth(h.tokenService),
		h.middleware.RequireAdmin(),
	)

	admin.Delete("/recommendations/:id", h.deleteRecommendation)
}

// deleteRecommendation removes a recommendation and its interaction
// history regardless of owner. This is the only hard delete in the
// recommendation surface.
func (h *AdminHandler) deleteRecommendation(c *fiber.Ctx) error {
	recommendationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recommendation ID",
		})
	}

	if err := h.recommendationController.AdminDelete(c.Context(), recommendationID); err != nil {
		if errors.Is(err, recommendationController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recommendation not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete recommendation",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
