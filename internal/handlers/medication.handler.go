package handlers

import (
	"errors"

	"carelink/internal/app"
	medicationController "carelink/internal/controllers/medication"
	"carelink/internal/handlers/middleware"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MedicationHandler struct {
	Handler
	medicationController medicationController.MedicationControllerInterface
	tokenService         *services.TokenService
}

func NewMedicationHandler(app app.App, router fiber.Router) *MedicationHandler {
	return &MedicationHandler{
		medicationController: app.Controllers.Medication,
		tokenService:         app.Services.Token,
		Handler: Handler{
			log:        logger.New("handlers").File("medication_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MedicationHandler) Register() {
	medications := h.router.Group("/medications", h.middleware.RequireAuth(h.tokenService))

	medications.Get("/", h.list)
	medications.Post("/", h.create)
	medications.Patch("/:id", h.update)
	medications.Delete("/:id", h.delete)
}

func (h *MedicationHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var request medicationController.CreateMedicationRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	medication, err := h.medicationController.Create(c.Context(), user, &request)
	if err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, medicationController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create medication",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"medication": medication})
}

func (h *MedicationHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	medications, err := h.medicationController.List(c.Context(), user, patientID)
	if err != nil {
		if accessDenied(err) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list medications",
		})
	}

	return c.JSON(fiber.Map{"medications": medications})
}

func (h *MedicationHandler) update(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	medicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid medication ID",
		})
	}

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	var request medicationController.UpdateMedicationRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	medication, err := h.medicationController.Update(
		c.Context(), user, patientID, medicationID, &request,
	)
	if err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, medicationController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, medicationController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Medication not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update medication",
			})
		}
	}

	return c.JSON(fiber.Map{"medication": medication})
}

func (h *MedicationHandler) delete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	medicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid medication ID",
		})
	}

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	if err := h.medicationController.Delete(c.Context(), user, patientID, medicationID); err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, medicationController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Medication not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete medication",
			})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
