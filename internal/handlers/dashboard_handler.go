package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/services"
)

type dashboardLoader interface {
	LoadDashboard(ctx context.Context, contact string) (*services.DashboardData, error)
}

type profileContactReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type dashboardUserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type DashboardHandler struct {
	dashboard dashboardLoader
	profiles  profileContactReader
	users     dashboardUserReader
}

func NewDashboardHandler(dashboard dashboardLoader, profiles profileContactReader, users dashboardUserReader) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, profiles: profiles, users: users}
}

// GetDashboard resolves the caller's contact phone and loads every instructor
// activity and student record tied to it, including legacy rows that predate
// the canonical instructor foreign key.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	contact, err := h.resolveContact(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve contact"})
	}
	if contact == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No contact phone registered for this account"})
	}

	data, err := h.dashboard.LoadDashboard(c.Context(), contact)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	return c.JSON(data)
}

func (h *DashboardHandler) resolveContact(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	if profile != nil && profile.Contact != nil && *profile.Contact != "" {
		return *profile.Contact, nil
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return user.Phone, nil
}
