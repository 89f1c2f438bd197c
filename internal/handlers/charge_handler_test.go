package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/services"
)

type stubChargeService struct {
	listResult   []models.Charge
	listErr      error
	createResult *models.Charge
	createErr    error
	updateResult *models.Charge
	updateErr    error
	deleteErr    error

	lastInstructorID uuid.UUID
	lastChargeID     uuid.UUID
	lastInput        services.ChargeInput
}

func (s *stubChargeService) List(_ context.Context, instructorID uuid.UUID) ([]models.Charge, error) {
	s.lastInstructorID = instructorID
	return s.listResult, s.listErr
}

func (s *stubChargeService) Create(_ context.Context, instructorID uuid.UUID, input services.ChargeInput) (*models.Charge, error) {
	s.lastInstructorID = instructorID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubChargeService) Update(_ context.Context, instructorID, chargeID uuid.UUID, input services.ChargeInput) (*models.Charge, error) {
	s.lastInstructorID = instructorID
	s.lastChargeID = chargeID
	s.lastInput = input
	return s.updateResult, s.updateErr
}

func (s *stubChargeService) Delete(_ context.Context, instructorID, chargeID uuid.UUID) error {
	s.lastInstructorID = instructorID
	s.lastChargeID = chargeID
	return s.deleteErr
}

type stubPaymentIssuer struct {
	charge      *models.Charge
	checkout    *services.CheckoutResult
	pix         *services.PixResult
	cardErr     error
	pixIssueErr error
}

func (s *stubPaymentIssuer) IssueCardLinkForCharge(context.Context, uuid.UUID, uuid.UUID) (*models.Charge, *services.CheckoutResult, error) {
	if s.cardErr != nil {
		return nil, nil, s.cardErr
	}
	return s.charge, s.checkout, nil
}

func (s *stubPaymentIssuer) IssuePixForCharge(context.Context, uuid.UUID, uuid.UUID) (*models.Charge, *services.PixResult, error) {
	if s.pixIssueErr != nil {
		return nil, nil, s.pixIssueErr
	}
	return s.charge, s.pix, nil
}

func newChargeTestApp(handler *ChargeHandler, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		c.Locals("role", "instructor")
		return c.Next()
	})
	app.Get("/api/v1/charges", handler.ListCharges)
	app.Post("/api/v1/charges", handler.CreateCharge)
	app.Put("/api/v1/charges/:id", handler.UpdateCharge)
	app.Delete("/api/v1/charges/:id", handler.DeleteCharge)
	app.Post("/api/v1/charges/:id/payment-link", handler.IssueCardLink)
	app.Post("/api/v1/charges/:id/pix", handler.IssuePix)
	return app
}

func TestCreateChargeReturnsCreated(t *testing.T) {
	userID := uuid.New()
	service := &stubChargeService{createResult: &models.Charge{ID: uuid.New(), InstructorID: userID, Amount: 250}}
	app := newChargeTestApp(&ChargeHandler{charges: service}, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges", strings.NewReader(`{
		"activity": "Surf",
		"student_name": "Maria Silva",
		"student_phone": "21992370808",
		"amount": "250,00",
		"due_date": "2025-09-15"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastInstructorID != userID {
		t.Fatalf("expected instructor id %s, got %s", userID, service.lastInstructorID)
	}
	if service.lastInput.Amount != "250,00" {
		t.Fatalf("expected raw amount string to pass through, got %q", service.lastInput.Amount)
	}
}

func TestCreateChargeReturnsMissingFields(t *testing.T) {
	service := &stubChargeService{createErr: &services.ValidationError{Fields: []string{"amount", "due_date"}}}
	app := newChargeTestApp(&ChargeHandler{charges: service}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges", strings.NewReader(`{"activity":"Surf"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Fields) != 2 || body.Fields[0] != "amount" {
		t.Fatalf("expected missing fields in body, got %+v", body)
	}
}

func TestListChargesMissingTableGivesRemediationHint(t *testing.T) {
	service := &stubChargeService{listErr: services.ErrTableMissing}
	app := newChargeTestApp(&ChargeHandler{charges: service}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/charges", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
		Hint  string `json:"hint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body.Hint, "migrations") {
		t.Fatalf("expected migration hint, got %q", body.Hint)
	}
}

func TestUpdateChargeNotFound(t *testing.T) {
	service := &stubChargeService{updateErr: services.ErrNotFound}
	app := newChargeTestApp(&ChargeHandler{charges: service}, uuid.New())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/charges/"+uuid.NewString(), strings.NewReader(`{
		"activity": "Surf",
		"student_name": "Maria",
		"student_phone": "21992370808",
		"amount": "250,00",
		"due_date": "2025-09-15"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdateChargeRejectsBadID(t *testing.T) {
	app := newChargeTestApp(&ChargeHandler{charges: &stubChargeService{}}, uuid.New())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/charges/not-a-uuid", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteChargeReturnsNoContent(t *testing.T) {
	service := &stubChargeService{}
	app := newChargeTestApp(&ChargeHandler{charges: service}, uuid.New())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/charges/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestIssueCardLinkReturnsChargeAndCheckout(t *testing.T) {
	userID := uuid.New()
	charge := &models.Charge{ID: uuid.New(), InstructorID: userID}
	issuer := &stubPaymentIssuer{
		charge:   charge,
		checkout: &services.CheckoutResult{URL: "https://checkout.stripe.com/c/pay/cs_123", SessionID: "cs_123", EmailSent: true},
	}
	app := newChargeTestApp(&ChargeHandler{charges: &stubChargeService{}, payments: issuer}, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges/"+charge.ID.String()+"/payment-link", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Checkout services.CheckoutResult `json:"checkout"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Checkout.SessionID != "cs_123" || !body.Checkout.EmailSent {
		t.Fatalf("unexpected checkout payload %+v", body.Checkout)
	}
}

func TestIssuePixMapsGatewayRejection(t *testing.T) {
	issuer := &stubPaymentIssuer{
		pixIssueErr: &services.GatewayError{Status: 400, Message: "invalid payer"},
	}
	app := newChargeTestApp(&ChargeHandler{charges: &stubChargeService{}, payments: issuer}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges/"+uuid.NewString()+"/pix", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestIssuePixForbiddenForOtherInstructor(t *testing.T) {
	issuer := &stubPaymentIssuer{pixIssueErr: services.ErrForbidden}
	app := newChargeTestApp(&ChargeHandler{charges: &stubChargeService{}, payments: issuer}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges/"+uuid.NewString()+"/pix", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
