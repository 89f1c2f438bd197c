package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/repository"
)

type instructorRepository interface {
	Create(ctx context.Context, input repository.CreateInstructorInput) (*models.Instructor, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.Instructor, error)
	ExistsByInstructorNumber(ctx context.Context, number string) (bool, error)
	Update(ctx context.Context, id int64, userID uuid.UUID, input repository.CreateInstructorInput) (*models.Instructor, error)
	Delete(ctx context.Context, id int64, userID uuid.UUID) (int64, error)
}

type InstructorHandler struct {
	repo     instructorRepository
	validate *validator.Validate
}

func NewInstructorHandler(repo *repository.InstructorRepository) *InstructorHandler {
	return &InstructorHandler{repo: repo, validate: validator.New()}
}

type instructorRequest struct {
	Name             string  `json:"name" validate:"required"`
	Contact          string  `json:"contact" validate:"required"`
	InstructorNumber *string `json:"instructor_number"`
	Activity         string  `json:"activity" validate:"required"`
	Schedule         string  `json:"schedule" validate:"required"`
	Location         string  `json:"location" validate:"required"`
	Fee              string  `json:"fee" validate:"required"`
	TaxID            *string `json:"tax_id"`
	Bank             *string `json:"bank"`
	Agency           *string `json:"agency"`
	Account          *string `json:"account"`
	PixKey           *string `json:"pix_key"`
}

func (h *InstructorHandler) CreateInstructor(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req instructorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": validationFields(err),
		})
	}

	if req.InstructorNumber != nil && *req.InstructorNumber != "" {
		exists, err := h.repo.ExistsByInstructorNumber(c.Context(), *req.InstructorNumber)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check instructor number"})
		}
		if exists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Instructor number already registered"})
		}
	}

	instructor, err := h.repo.Create(c.Context(), req.toInput(userID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create instructor"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"instructor": instructor})
}

func (h *InstructorHandler) ListInstructors(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	instructors, err := h.repo.ListByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list instructors"})
	}

	return c.JSON(fiber.Map{"instructors": instructors})
}

func (h *InstructorHandler) UpdateInstructor(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instructor id"})
	}

	var req instructorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": validationFields(err),
		})
	}

	instructor, err := h.repo.Update(c.Context(), id, userID, req.toInput(userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instructor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update instructor"})
	}

	return c.JSON(fiber.Map{"instructor": instructor})
}

func (h *InstructorHandler) DeleteInstructor(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instructor id"})
	}

	if _, err := h.repo.Delete(c.Context(), id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete instructor"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (r instructorRequest) toInput(userID uuid.UUID) repository.CreateInstructorInput {
	return repository.CreateInstructorInput{
		UserID:           &userID,
		Name:             r.Name,
		Contact:          r.Contact,
		InstructorNumber: r.InstructorNumber,
		Activity:         r.Activity,
		Schedule:         r.Schedule,
		Location:         r.Location,
		Fee:              r.Fee,
		TaxID:            r.TaxID,
		Bank:             r.Bank,
		Agency:           r.Agency,
		Account:          r.Account,
		PixKey:           r.PixKey,
	}
}

func validationFields(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, fieldErr.Field())
	}
	return fields
}
