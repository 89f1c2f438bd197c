package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/services"
)

type chargeApplicationService interface {
	List(ctx context.Context, instructorID uuid.UUID) ([]models.Charge, error)
	Create(ctx context.Context, instructorID uuid.UUID, input services.ChargeInput) (*models.Charge, error)
	Update(ctx context.Context, instructorID, chargeID uuid.UUID, input services.ChargeInput) (*models.Charge, error)
	Delete(ctx context.Context, instructorID, chargeID uuid.UUID) error
}

type chargePaymentIssuer interface {
	IssueCardLinkForCharge(ctx context.Context, userID, chargeID uuid.UUID) (*models.Charge, *services.CheckoutResult, error)
	IssuePixForCharge(ctx context.Context, userID, chargeID uuid.UUID) (*models.Charge, *services.PixResult, error)
}

type ChargeHandler struct {
	charges  chargeApplicationService
	payments chargePaymentIssuer
}

func NewChargeHandler(charges *services.ChargeService, payments *services.PaymentService) *ChargeHandler {
	return &ChargeHandler{charges: charges, payments: payments}
}

type chargeRequest struct {
	Activity     string `json:"activity"`
	StudentName  string `json:"student_name"`
	StudentPhone string `json:"student_phone"`
	Amount       string `json:"amount"`
	DueDate      string `json:"due_date"`
	IssueDate    string `json:"issue_date"`
}

func (r chargeRequest) toInput() services.ChargeInput {
	return services.ChargeInput{
		Activity:     r.Activity,
		StudentName:  r.StudentName,
		StudentPhone: r.StudentPhone,
		Amount:       r.Amount,
		DueDate:      r.DueDate,
		IssueDate:    r.IssueDate,
	}
}

func (h *ChargeHandler) ListCharges(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	charges, err := h.charges.List(c.Context(), userID)
	if err != nil {
		return mapChargeError(c, err)
	}

	return c.JSON(fiber.Map{"charges": charges})
}

func (h *ChargeHandler) CreateCharge(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req chargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	charge, err := h.charges.Create(c.Context(), userID, req.toInput())
	if err != nil {
		return mapChargeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"charge": charge})
}

func (h *ChargeHandler) UpdateCharge(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chargeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid charge id"})
	}

	var req chargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	charge, err := h.charges.Update(c.Context(), userID, chargeID, req.toInput())
	if err != nil {
		return mapChargeError(c, err)
	}

	return c.JSON(fiber.Map{"charge": charge})
}

func (h *ChargeHandler) DeleteCharge(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chargeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid charge id"})
	}

	if err := h.charges.Delete(c.Context(), userID, chargeID); err != nil {
		return mapChargeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ChargeHandler) IssueCardLink(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chargeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid charge id"})
	}

	charge, result, err := h.payments.IssueCardLinkForCharge(c.Context(), userID, chargeID)
	if err != nil {
		return mapChargeError(c, err)
	}

	return c.JSON(fiber.Map{"charge": charge, "checkout": result})
}

func (h *ChargeHandler) IssuePix(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	chargeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid charge id"})
	}

	charge, result, err := h.payments.IssuePixForCharge(c.Context(), userID, chargeID)
	if err != nil {
		return mapChargeError(c, err)
	}

	return c.JSON(fiber.Map{"charge": charge, "pix": result})
}

func mapChargeError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": validationErr.Fields,
		})
	}

	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   gatewayErr.Message,
			"details": gatewayErr.Details,
		})
	}

	switch {
	case errors.Is(err, services.ErrTableMissing):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "The charges table was not found",
			"hint":  "Run the pending database migrations (cmd/migrate) and retry",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Charge not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
