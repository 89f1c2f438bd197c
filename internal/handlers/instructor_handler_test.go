package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/repository"
)

type stubInstructorRepo struct {
	instructors  []models.Instructor
	numberExists bool

	lastInput *repository.CreateInstructorInput
}

func (s *stubInstructorRepo) Create(_ context.Context, input repository.CreateInstructorInput) (*models.Instructor, error) {
	s.lastInput = &input
	return &models.Instructor{ID: 1, UserID: input.UserID, Name: input.Name, Activity: input.Activity}, nil
}

func (s *stubInstructorRepo) ListByUserID(context.Context, uuid.UUID) ([]models.Instructor, error) {
	return s.instructors, nil
}

func (s *stubInstructorRepo) ExistsByInstructorNumber(context.Context, string) (bool, error) {
	return s.numberExists, nil
}

func (s *stubInstructorRepo) Update(_ context.Context, id int64, userID uuid.UUID, input repository.CreateInstructorInput) (*models.Instructor, error) {
	s.lastInput = &input
	return &models.Instructor{ID: id, UserID: &userID, Name: input.Name}, nil
}

func (s *stubInstructorRepo) Delete(context.Context, int64, uuid.UUID) (int64, error) {
	return 1, nil
}

func newInstructorTestApp(handler *InstructorHandler, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		c.Locals("role", "instructor")
		return c.Next()
	})
	app.Get("/api/v1/instructors", handler.ListInstructors)
	app.Post("/api/v1/instructors", handler.CreateInstructor)
	app.Put("/api/v1/instructors/:id", handler.UpdateInstructor)
	app.Delete("/api/v1/instructors/:id", handler.DeleteInstructor)
	return app
}

const validInstructorBody = `{
	"name": "João Pereira",
	"contact": "21992370808",
	"activity": "Surf",
	"schedule": "Seg/Qua 7h",
	"location": "Praia de Copacabana",
	"fee": "250,00"
}`

func TestCreateInstructorReturnsCreated(t *testing.T) {
	userID := uuid.New()
	repo := &stubInstructorRepo{}
	handler := &InstructorHandler{repo: repo, validate: validator.New()}
	app := newInstructorTestApp(handler, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/instructors", strings.NewReader(validInstructorBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if repo.lastInput == nil || repo.lastInput.UserID == nil || *repo.lastInput.UserID != userID {
		t.Fatalf("expected instructor bound to caller, got %+v", repo.lastInput)
	}
}

func TestCreateInstructorValidatesRequiredFields(t *testing.T) {
	handler := &InstructorHandler{repo: &stubInstructorRepo{}, validate: validator.New()}
	app := newInstructorTestApp(handler, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/instructors", strings.NewReader(`{"name":"João"}`))
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
		Fields []string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Fields) == 0 {
		t.Fatal("expected failed validation fields in body")
	}
}

func TestCreateInstructorRejectsDuplicateNumber(t *testing.T) {
	handler := &InstructorHandler{repo: &stubInstructorRepo{numberExists: true}, validate: validator.New()}
	app := newInstructorTestApp(handler, uuid.New())

	body := strings.Replace(validInstructorBody, `"name":`, `"instructor_number": "1001", "name":`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/instructors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate instructor number, got %d", resp.StatusCode)
	}
}

func TestListInstructorsReturnsCallerActivities(t *testing.T) {
	repo := &stubInstructorRepo{
		instructors: []models.Instructor{
			{ID: 1, Activity: "Surf"},
			{ID: 2, Activity: "Vôlei"},
		},
	}
	handler := &InstructorHandler{repo: repo, validate: validator.New()}
	app := newInstructorTestApp(handler, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/instructors", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Instructors []models.Instructor `json:"instructors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Instructors) != 2 {
		t.Fatalf("expected 2 instructors, got %d", len(body.Instructors))
	}
}

func TestDeleteInstructorReturnsNoContent(t *testing.T) {
	handler := &InstructorHandler{repo: &stubInstructorRepo{}, validate: validator.New()}
	app := newInstructorTestApp(handler, uuid.New())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/instructors/1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}
