package handlers

import (
	"errors"

	"carelink/internal/app"
	careController "carelink/internal/controllers/care"
	"carelink/internal/handlers/middleware"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CareHandler struct {
	Handler
	careController careController.CareControllerInterface
	tokenService   *services.TokenService
}

func NewCareHandler(app app.App, router fiber.Router) *CareHandler {
	return &CareHandler{
		careController: app.Controllers.Care,
		tokenService:   app.Services.Token,
		Handler: Handler{
			log:        logger.New("handlers").File("care_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CareHandler) Register() {
	care := h.router.Group("/care", h.middleware.RequireAuth(h.tokenService))

	care.Get("/grants", h.listGrants)
	care.Post("/grants", h.grant)
	care.Patch("/grants/:id", h.updateGrant)
	care.Delete("/grants/:id", h.revoke)
	care.Get("/patients", h.listPatients)
}

// listGrants returns the grants the caller has issued as a patient.
func (h *CareHandler) listGrants(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	grants, err := h.careController.ListAsPatient(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list care grants",
		})
	}

	return c.JSON(fiber.Map{"grants": grants})
}

// listPatients returns the grants where the caller is the caretaker.
func (h *CareHandler) listPatients(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	grants, err := h.careController.ListAsCaretaker(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list patients",
		})
	}

	return c.JSON(fiber.Map{"patients": grants})
}

func (h *CareHandler) grant(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var request careController.GrantRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	relationship, err := h.careController.Grant(c.Context(), user, &request)
	if err != nil {
		if errors.Is(err, careController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save care grant",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"grant": relationship})
}

func (h *CareHandler) updateGrant(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	relationshipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid grant ID",
		})
	}

	var request careController.UpdateGrantRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	relationship, err := h.careController.UpdateGrant(c.Context(), user, relationshipID, &request)
	if err != nil {
		if errors.Is(err, careController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Care grant not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update care grant",
		})
	}

	return c.JSON(fiber.Map{"grant": relationship})
}

func (h *CareHandler) revoke(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	relationshipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid grant ID",
		})
	}

	if err := h.careController.Revoke(c.Context(), user, relationshipID); err != nil {
		if errors.Is(err, careController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Care grant not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to revoke care grant",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
