package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/repository"
	"github.com/ferreiradrope/praiativa-pay-flow-main/pkg/utils"
)

// Postgres error code for "relation does not exist". Listing charges before
// the billing migration ran must surface a remediation hint, not a crash.
const pgUndefinedTable = "42P01"

const dateLayout = "2006-01-02"

type chargeRepository interface {
	Create(ctx context.Context, input repository.CreateChargeInput) (*models.Charge, error)
	ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Charge, error)
	GetByID(ctx context.Context, chargeID uuid.UUID) (*models.Charge, error)
	Update(ctx context.Context, chargeID, instructorID uuid.UUID, input repository.UpdateChargeInput) (*models.Charge, error)
	Delete(ctx context.Context, chargeID, instructorID uuid.UUID) (int64, error)
}

type ChargeService struct {
	repo chargeRepository
}

func NewChargeService(repo chargeRepository) *ChargeService {
	return &ChargeService{repo: repo}
}

// ChargeInput carries the raw form values; Amount is a Brazilian-formatted
// decimal string ("100,00") and dates use YYYY-MM-DD.
type ChargeInput struct {
	Activity     string
	StudentName  string
	StudentPhone string
	Amount       string
	DueDate      string
	IssueDate    string
}

type parsedCharge struct {
	amount    float64
	dueDate   time.Time
	issueDate time.Time
}

func (s *ChargeService) List(ctx context.Context, instructorID uuid.UUID) ([]models.Charge, error) {
	charges, err := s.repo.ListByInstructor(ctx, instructorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, ErrTableMissing
		}
		return nil, err
	}
	return charges, nil
}

func (s *ChargeService) Create(ctx context.Context, instructorID uuid.UUID, input ChargeInput) (*models.Charge, error) {
	parsed, err := validateChargeInput(input)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, repository.CreateChargeInput{
		InstructorID: instructorID,
		Activity:     strings.TrimSpace(input.Activity),
		StudentName:  strings.TrimSpace(input.StudentName),
		StudentPhone: strings.TrimSpace(input.StudentPhone),
		Amount:       parsed.amount,
		IssueDate:    parsed.issueDate,
		DueDate:      parsed.dueDate,
	})
}

func (s *ChargeService) Update(ctx context.Context, instructorID, chargeID uuid.UUID, input ChargeInput) (*models.Charge, error) {
	parsed, err := validateChargeInput(input)
	if err != nil {
		return nil, err
	}

	charge, err := s.repo.Update(ctx, chargeID, instructorID, repository.UpdateChargeInput{
		Activity:     strings.TrimSpace(input.Activity),
		StudentName:  strings.TrimSpace(input.StudentName),
		StudentPhone: strings.TrimSpace(input.StudentPhone),
		Amount:       parsed.amount,
		IssueDate:    parsed.issueDate,
		DueDate:      parsed.dueDate,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return charge, nil
}

// Delete is a no-op when the charge is already gone; deleting twice from two
// tabs must not surface an error.
func (s *ChargeService) Delete(ctx context.Context, instructorID, chargeID uuid.UUID) error {
	_, err := s.repo.Delete(ctx, chargeID, instructorID)
	return err
}

func (s *ChargeService) Get(ctx context.Context, instructorID, chargeID uuid.UUID) (*models.Charge, error) {
	charge, err := s.repo.GetByID(ctx, chargeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if charge.InstructorID != instructorID {
		return nil, ErrForbidden
	}
	return charge, nil
}

func validateChargeInput(input ChargeInput) (*parsedCharge, error) {
	missing := make([]string, 0)
	if strings.TrimSpace(input.Activity) == "" {
		missing = append(missing, "activity")
	}
	if strings.TrimSpace(input.StudentName) == "" {
		missing = append(missing, "student_name")
	}
	if strings.TrimSpace(input.StudentPhone) == "" {
		missing = append(missing, "student_phone")
	}

	var parsed parsedCharge
	if strings.TrimSpace(input.Amount) == "" {
		missing = append(missing, "amount")
	} else {
		amount, err := utils.ParseBRL(input.Amount)
		if err != nil || amount <= 0 {
			missing = append(missing, "amount")
		}
		parsed.amount = amount
	}

	if strings.TrimSpace(input.DueDate) == "" {
		missing = append(missing, "due_date")
	} else {
		dueDate, err := time.Parse(dateLayout, strings.TrimSpace(input.DueDate))
		if err != nil {
			missing = append(missing, "due_date")
		}
		parsed.dueDate = dueDate
	}

	if strings.TrimSpace(input.IssueDate) == "" {
		parsed.issueDate = time.Now().UTC().Truncate(24 * time.Hour)
	} else {
		issueDate, err := time.Parse(dateLayout, strings.TrimSpace(input.IssueDate))
		if err != nil {
			missing = append(missing, "issue_date")
		}
		parsed.issueDate = issueDate
	}

	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}
	return &parsed, nil
}
