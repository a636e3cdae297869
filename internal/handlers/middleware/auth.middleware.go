package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"carelink/internal/models"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User" // Fiber context key (string)
)

// RequireAuth verifies the bearer token and resolves its subject to a
// User row. A verified subject without a row is provisioned on the
// spot; identity lives at the provider, our row only anchors foreign
// keys.
func (m *Middleware) RequireAuth(tokenService *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := tokenParts[1]
		if token == "" {
			log.Info("empty token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		claims, err := tokenService.ValidateToken(c.Context(), token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		user, err := m.resolveUser(c.Context(), claims)
		if err != nil {
			log.Info("failed to resolve user", "subject", claims.Subject, "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if !user.IsActive {
			log.Info("inactive user rejected", "userID", user.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is deactivated",
			})
		}

		c.Locals(UserKeyFiber, user)

		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func (m *Middleware) resolveUser(
	ctx context.Context,
	claims *services.TokenClaims,
) (*models.User, error) {
	user, err := m.userRepo.GetByAuthSubject(ctx, claims.Subject)
	if err == nil {
		now := time.Now()
		user.LastLoginAt = &now
		if updateErr := m.userRepo.Update(ctx, user); updateErr != nil {
			m.log.Warn("failed to record login time", "userID", user.ID, "error", updateErr)
		}
		return user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &models.User{
		AuthSubject: claims.Subject,
		FirstName:   claims.GivenName,
		LastName:    claims.FamilyName,
		IsActive:    true,
		LastLoginAt: &now,
	}
	if claims.Email != "" {
		user.Email = &claims.Email
	}

	if err := m.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	m.log.Info("provisioned user on first login", "userID", user.ID, "name", user.DisplayName())
	return user, nil
}

// GetUser extracts the authenticated user from Fiber context.
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
