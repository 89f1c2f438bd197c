package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/repository"
)

type stubChargeRepo struct {
	created    *repository.CreateChargeInput
	listErr    error
	updateErr  error
	deleteRows int64
	deleteErr  error
	charge     *models.Charge
}

func (s *stubChargeRepo) Create(_ context.Context, input repository.CreateChargeInput) (*models.Charge, error) {
	s.created = &input
	return &models.Charge{
		ID:           uuid.New(),
		InstructorID: input.InstructorID,
		Activity:     input.Activity,
		StudentName:  input.StudentName,
		StudentPhone: input.StudentPhone,
		Amount:       input.Amount,
		IssueDate:    input.IssueDate,
		DueDate:      input.DueDate,
	}, nil
}

func (s *stubChargeRepo) ListByInstructor(context.Context, uuid.UUID) ([]models.Charge, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []models.Charge{}, nil
}

func (s *stubChargeRepo) GetByID(context.Context, uuid.UUID) (*models.Charge, error) {
	if s.charge == nil {
		return nil, pgx.ErrNoRows
	}
	return s.charge, nil
}

func (s *stubChargeRepo) Update(_ context.Context, _, _ uuid.UUID, _ repository.UpdateChargeInput) (*models.Charge, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.charge, nil
}

func (s *stubChargeRepo) Delete(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return s.deleteRows, s.deleteErr
}

func validChargeInput() ChargeInput {
	return ChargeInput{
		Activity:     "Surf",
		StudentName:  "Maria Silva",
		StudentPhone: "21992370808",
		Amount:       "250,00",
		DueDate:      "2025-09-15",
	}
}

func TestCreateChargeParsesBrazilianAmount(t *testing.T) {
	repo := &stubChargeRepo{}
	service := NewChargeService(repo)

	input := validChargeInput()
	input.Amount = "1.234,56"

	charge, err := service.Create(context.Background(), uuid.New(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if charge.Amount != 1234.56 {
		t.Fatalf("expected amount 1234.56, got %v", charge.Amount)
	}
}

func TestCreateChargeDefaultsIssueDate(t *testing.T) {
	repo := &stubChargeRepo{}
	service := NewChargeService(repo)

	if _, err := service.Create(context.Background(), uuid.New(), validChargeInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if repo.created.IssueDate.IsZero() {
		t.Fatal("expected issue date to default to today")
	}
	if repo.created.IssueDate.After(time.Now().UTC()) {
		t.Fatalf("issue date in the future: %v", repo.created.IssueDate)
	}
}

func TestCreateChargeCollectsMissingFields(t *testing.T) {
	service := NewChargeService(&stubChargeRepo{})

	_, err := service.Create(context.Background(), uuid.New(), ChargeInput{
		StudentPhone: "21992370808",
		Amount:       "abc",
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	want := map[string]bool{"activity": true, "student_name": true, "amount": true, "due_date": true}
	if len(validationErr.Fields) != len(want) {
		t.Fatalf("expected %d missing fields, got %v", len(want), validationErr.Fields)
	}
	for _, field := range validationErr.Fields {
		if !want[field] {
			t.Fatalf("unexpected missing field %q in %v", field, validationErr.Fields)
		}
	}
}

func TestCreateChargeRejectsZeroAmount(t *testing.T) {
	service := NewChargeService(&stubChargeRepo{})

	input := validChargeInput()
	input.Amount = "0,00"

	_, err := service.Create(context.Background(), uuid.New(), input)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestListChargesMapsMissingTable(t *testing.T) {
	repo := &stubChargeRepo{listErr: &pgconn.PgError{Code: "42P01"}}
	service := NewChargeService(repo)

	_, err := service.List(context.Background(), uuid.New())
	if !errors.Is(err, ErrTableMissing) {
		t.Fatalf("expected ErrTableMissing, got %v", err)
	}
}

func TestUpdateChargeMapsNoRowsToNotFound(t *testing.T) {
	repo := &stubChargeRepo{updateErr: pgx.ErrNoRows}
	service := NewChargeService(repo)

	_, err := service.Update(context.Background(), uuid.New(), uuid.New(), validChargeInput())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteChargeIgnoresMissingRow(t *testing.T) {
	repo := &stubChargeRepo{deleteRows: 0}
	service := NewChargeService(repo)

	if err := service.Delete(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected deleting a missing charge to succeed, got %v", err)
	}
}

func TestGetChargeEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	repo := &stubChargeRepo{charge: &models.Charge{ID: uuid.New(), InstructorID: owner}}
	service := NewChargeService(repo)

	_, err := service.Get(context.Background(), uuid.New(), repo.charge.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	charge, err := service.Get(context.Background(), owner, repo.charge.ID)
	if err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	if charge.ID != repo.charge.ID {
		t.Fatalf("expected charge %s, got %s", repo.charge.ID, charge.ID)
	}
}
