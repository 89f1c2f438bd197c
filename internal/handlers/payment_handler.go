package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/services"
)

// PaymentHandler exposes the gateway-facing endpoints. Their request and
// response bodies mirror the hosted functions the mobile and web clients
// already call, so the shapes here are load-bearing.
type PaymentHandler struct {
	payments paymentGatewayService
	email    services.EmailSender
}

type paymentGatewayService interface {
	CreateCheckout(ctx context.Context, input services.CheckoutInput) (*services.CheckoutResult, error)
	CreatePix(ctx context.Context, input services.PixInput) (*services.PixResult, error)
}

func NewPaymentHandler(payments *services.PaymentService, email services.EmailSender) *PaymentHandler {
	return &PaymentHandler{payments: payments, email: email}
}

type checkoutRequest struct {
	Amount         int64    `json:"amount"`
	Currency       string   `json:"currency"`
	Description    string   `json:"description"`
	InstructorID   string   `json:"instructor_id"`
	Students       []string `json:"students"`
	StudentName    string   `json:"student_name"`
	StudentEmail   string   `json:"student_email"`
	InstructorName string   `json:"instructor_name"`
	Activity       string   `json:"activity"`
	PaymentAmount  float64  `json:"payment_amount"`
	DueDate        string   `json:"due_date"`
}

type pixRequest struct {
	Amount         int64   `json:"amount"`
	Description    string  `json:"description"`
	StudentName    string  `json:"student_name"`
	StudentEmail   string  `json:"student_email"`
	InstructorName string  `json:"instructor_name"`
	Activity       string  `json:"activity"`
	PaymentAmount  float64 `json:"payment_amount"`
	DueDate        string  `json:"due_date"`
	PayerEmail     string  `json:"payer_email"`
}

type testEmailRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *PaymentHandler) CreateCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	result, err := h.payments.CreateCheckout(c.Context(), services.CheckoutInput{
		AmountCents:    req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		InstructorID:   req.InstructorID,
		StudentsCount:  len(req.Students),
		StudentName:    req.StudentName,
		StudentEmail:   req.StudentEmail,
		InstructorName: req.InstructorName,
		Activity:       req.Activity,
		PaymentAmount:  req.PaymentAmount,
		DueDate:        req.DueDate,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   err.Error(),
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"url":        result.URL,
		"session_id": result.SessionID,
		"email_sent": result.EmailSent,
	})
}

func (h *PaymentHandler) CreatePix(c *fiber.Ctx) error {
	var req pixRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	result, err := h.payments.CreatePix(c.Context(), services.PixInput{
		AmountCents:    req.Amount,
		Description:    req.Description,
		StudentName:    req.StudentName,
		StudentEmail:   req.StudentEmail,
		InstructorName: req.InstructorName,
		Activity:       req.Activity,
		PaymentAmount:  req.PaymentAmount,
		DueDate:        req.DueDate,
		PayerEmail:     req.PayerEmail,
	})
	if err != nil {
		// A gateway rejection is the caller's problem to present, not an
		// internal fault, and it keeps the provider's payload.
		var gatewayErr *services.GatewayError
		if errors.As(err, &gatewayErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Erro Mercado Pago: " + gatewayErr.Message,
				"details": gatewayErr.Details,
				"status":  gatewayErr.Status,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"payment_id":     result.PaymentID,
		"pix_code":       result.PixCode,
		"qr_code_base64": result.QRCodeBase64,
		"payment_url":    result.PaymentURL,
		"email_sent":     result.EmailSent,
		"message":        "Pagamento PIX criado com sucesso",
	})
}

func (h *PaymentHandler) SendTestEmail(c *fiber.Ctx) error {
	var req testEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Email == "" || req.Name == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Email e nome são obrigatórios",
		})
	}

	status, err := h.email.SendTestEmail(c.Context(), req.Email, req.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email enviado com sucesso",
		"status":  status,
	})
}
