package handlers

import (
	"errors"

	"carelink/internal/app"
	"carelink/internal/handlers/middleware"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) error {
	api := router.Group("/api")

	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewCareHandler(*app, api).Register()
	NewLabHandler(*app, api).Register()
	NewDiaryHandler(*app, api).Register()
	NewMedicationHandler(*app, api).Register()
	NewReminderHandler(*app, api).Register()
	NewRecommendationHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

// accessDenied reports whether the error is a delegation denial from
// the access resolver. Both denial modes map to 403.
func accessDenied(err error) bool {
	return errors.Is(err, services.ErrNoDelegation) ||
		errors.Is(err, services.ErrCapabilityNotGranted)
}
