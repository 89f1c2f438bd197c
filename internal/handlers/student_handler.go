package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/repository"
)

type studentRepository interface {
	Create(ctx context.Context, input repository.CreateStudentInput) (*models.Student, error)
	ListByInstructorID(ctx context.Context, instructorID int64, limit, offset int) ([]models.Student, error)
	CountByInstructorID(ctx context.Context, instructorID int64) (int, error)
	Update(ctx context.Context, id, instructorID int64, input repository.CreateStudentInput) (*models.Student, error)
	Delete(ctx context.Context, id, instructorID int64) (int64, error)
}

type instructorOwnershipReader interface {
	GetByID(ctx context.Context, id int64) (*models.Instructor, error)
}

type StudentHandler struct {
	students    studentRepository
	instructors instructorOwnershipReader
	validate    *validator.Validate
}

func NewStudentHandler(students *repository.StudentRepository, instructors *repository.InstructorRepository) *StudentHandler {
	return &StudentHandler{students: students, instructors: instructors, validate: validator.New()}
}

type studentRequest struct {
	InstructorID int64   `json:"instructor_id" validate:"required,gt=0"`
	Name         string  `json:"name" validate:"required"`
	WhatsApp     string  `json:"whatsapp" validate:"required"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Activity     string  `json:"activity" validate:"required"`
	MonthlyFee   float64 `json:"monthly_fee" validate:"required,gt=0"`
	DueDate      *string `json:"due_date"`
}

func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": validationFields(err),
		})
	}

	if errResp := h.checkInstructorOwnership(c, req.InstructorID, userID); errResp != nil {
		return errResp
	}

	input, err := req.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid due_date, expected YYYY-MM-DD"})
	}

	student, err := h.students.Create(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"student": student})
}

func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	instructorID, err := strconv.ParseInt(c.Query("instructor_id"), 10, 64)
	if err != nil || instructorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "instructor_id query parameter is required"})
	}

	if errResp := h.checkInstructorOwnership(c, instructorID, userID); errResp != nil {
		return errResp
	}

	page, limit := parsePagination(c)
	offset := (page - 1) * limit

	students, err := h.students.ListByInstructorID(c.Context(), instructorID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list students"})
	}

	total, err := h.students.CountByInstructorID(c.Context(), instructorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list students"})
	}

	return c.JSON(fiber.Map{
		"students":   students,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": validationFields(err),
		})
	}

	if errResp := h.checkInstructorOwnership(c, req.InstructorID, userID); errResp != nil {
		return errResp
	}

	input, err := req.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid due_date, expected YYYY-MM-DD"})
	}

	student, err := h.students.Update(c.Context(), id, req.InstructorID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}

	return c.JSON(fiber.Map{"student": student})
}

func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	instructorID, err := strconv.ParseInt(c.Query("instructor_id"), 10, 64)
	if err != nil || instructorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "instructor_id query parameter is required"})
	}

	if errResp := h.checkInstructorOwnership(c, instructorID, userID); errResp != nil {
		return errResp
	}

	if _, err := h.students.Delete(c.Context(), id, instructorID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete student"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// checkInstructorOwnership returns a non-nil response when the instructor does
// not exist or belongs to another account.
func (h *StudentHandler) checkInstructorOwnership(c *fiber.Ctx, instructorID int64, userID uuid.UUID) error {
	instructor, err := h.instructors.GetByID(c.Context(), instructorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instructor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load instructor"})
	}
	if instructor.UserID == nil || *instructor.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Instructor belongs to another account"})
	}
	return nil
}

func (r studentRequest) toInput() (repository.CreateStudentInput, error) {
	input := repository.CreateStudentInput{
		InstructorID: r.InstructorID,
		Name:         r.Name,
		WhatsApp:     r.WhatsApp,
		Email:        r.Email,
		Activity:     r.Activity,
		MonthlyFee:   r.MonthlyFee,
	}

	if r.DueDate != nil && *r.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", *r.DueDate)
		if err != nil {
			return repository.CreateStudentInput{}, err
		}
		input.DueDate = &dueDate
	}

	return input, nil
}
