package handlers

import (
	"errors"

	"carelink/internal/app"
	diaryController "carelink/internal/controllers/diary"
	"carelink/internal/handlers/middleware"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DiaryHandler struct {
	Handler
	diaryController diaryController.DiaryControllerInterface
	tokenService    *services.TokenService
}

func NewDiaryHandler(app app.App, router fiber.Router) *DiaryHandler {
	return &DiaryHandler{
		diaryController: app.Controllers.Diary,
		tokenService:    app.Services.Token,
		Handler: Handler{
			log:        logger.New("handlers").File("diary_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DiaryHandler) Register() {
	diary := h.router.Group("/diary", h.middleware.RequireAuth(h.tokenService))

	diary.Get("/", h.list)
	diary.Post("/", h.create)
	diary.Get("/:id", h.get)
	diary.Delete("/:id", h.delete)
}

// parsePatientID reads the optional patientId query parameter. Absent
// means self-access.
func parsePatientID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Query("patientId")
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

func (h *DiaryHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var request diaryController.CreateEntryRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	entry, err := h.diaryController.CreateEntry(c.Context(), user, &request)
	if err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, diaryController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create diary entry",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

func (h *DiaryHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	entries, err := h.diaryController.ListEntries(c.Context(), user, patientID)
	if err != nil {
		if accessDenied(err) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list diary entries",
		})
	}

	return c.JSON(fiber.Map{"entries": entries})
}

func (h *DiaryHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry ID",
		})
	}

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	entry, err := h.diaryController.GetEntry(c.Context(), user, patientID, entryID)
	if err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, diaryController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Diary entry not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to get diary entry",
			})
		}
	}

	return c.JSON(fiber.Map{"entry": entry})
}

func (h *DiaryHandler) delete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry ID",
		})
	}

	patientID, err := parsePatientID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid patient ID",
		})
	}

	if err := h.diaryController.DeleteEntry(c.Context(), user, patientID, entryID); err != nil {
		switch {
		case accessDenied(err):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		case errors.Is(err, diaryController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Diary entry not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete diary entry",
			})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
