package handlers

import (
	"errors"

	"carelink/internal/app"
	reminderController "carelink/internal/controllers/reminder"
	"carelink/internal/handlers/middleware"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReminderHandler struct {
	Handler
	reminderController reminderController.ReminderControllerInterface
	tokenService       *services.TokenService
}

func NewReminderHandler(app app.App, router fiber.Router) *ReminderHandler {
	return &ReminderHandler{
		reminderController: app.Controllers.Reminder,
		tokenService:       app.Services.Token,
		Handler: Handler{
			log:        logger.New("handlers").File("reminder_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReminderHandler) Register() {
	reminders := h.router.Group("/reminders", h.middleware.RequireAuth(h.tokenService))

	reminders.Get("/", h.list)
	reminders.Post("/", h.create)
	reminders.Post("/:id/complete", h.complete)
	reminders.Delete("/:id", h.delete)
}

func (h *ReminderHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var request reminderController.CreateReminderRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reminder, err := h.reminderController.Create(c.Context(), user, &request)
	if err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, reminderController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create reminder",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reminder": reminder})
}

func (h *ReminderHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	reminders, err := h.reminderController.List(c.Context(), user, patientID)
	if err != nil {
		if accessDenied(err) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list reminders",
		})
	}

	return c.JSON(fiber.Map{"reminders": reminders})
}

func (h *ReminderHandler) complete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	if err := h.reminderController.Complete(c.Context(), user, patientID, reminderID); err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, reminderController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Reminder not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to complete reminder",
			})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ReminderHandler) delete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	if err := h.reminderController.Delete(c.Context(), user, patientID, reminderID); err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, reminderController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Reminder not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete reminder",
			})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
