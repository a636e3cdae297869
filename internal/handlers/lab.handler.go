package handlers

import (
	"errors"

	"carelink/internal/app"
	labController "carelink/internal/controllers/lab"
	"carelink/internal/handlers/middleware"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LabHandler struct {
	Handler
	labController labController.LabControllerInterface
	tokenService  *services.TokenService
}

func NewLabHandler(app app.App, router fiber.Router) *LabHandler {
	return &LabHandler{
		labController: app.Controllers.Lab,
		tokenService:  app.Services.Token,
		Handler: Handler{
			log:        logger.New("handlers").File("lab_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LabHandler) Register() {
	labs := h.router.Group("/labs", h.middleware.RequireAuth(h.tokenService))

	labs.Get("/", h.list)
	labs.Post("/", h.submit)
	labs.Get("/:id", h.get)
}

func (h *LabHandler) submit(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var request labController.SubmitResultRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.labController.SubmitResult(c.Context(), user, &request)
	if err != nil {
		if errors.Is(err, labController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record lab result",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *LabHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	results, err := h.labController.ListResults(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list lab results",
		})
	}

	return c.JSON(fiber.Map{"results": results})
}

func (h *LabHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	resultID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lab result ID",
		})
	}

	result, err := h.labController.GetResult(c.Context(), user, resultID)
	if err != nil {
		if errors.Is(err, labController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lab result not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get lab result",
		})
	}

	return c.JSON(fiber.Map{"result": result})
}
