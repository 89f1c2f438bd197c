package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
)

type CreateInstructorInput struct {
	UserID           *uuid.UUID
	Name             string
	Contact          string
	InstructorNumber *string
	Activity         string
	Schedule         string
	Location         string
	Fee              string
	TaxID            *string
	Bank             *string
	Agency           *string
	Account          *string
	PixKey           *string
}

type InstructorRepository struct {
	db DBTX
}

func NewInstructorRepository(db DBTX) *InstructorRepository {
	return &InstructorRepository{db: db}
}

const instructorColumns = `
	id, user_id, name, contact, instructor_number, activity, schedule, location,
	fee, tax_id, bank, agency, account, pix_key, created_at, updated_at
`

func scanInstructor(row interface{ Scan(dest ...any) error }, instructor *models.Instructor) error {
	return row.Scan(
		&instructor.ID,
		&instructor.UserID,
		&instructor.Name,
		&instructor.Contact,
		&instructor.InstructorNumber,
		&instructor.Activity,
		&instructor.Schedule,
		&instructor.Location,
		&instructor.Fee,
		&instructor.TaxID,
		&instructor.Bank,
		&instructor.Agency,
		&instructor.Account,
		&instructor.PixKey,
		&instructor.CreatedAt,
		&instructor.UpdatedAt,
	)
}

func (r *InstructorRepository) Create(ctx context.Context, input CreateInstructorInput) (*models.Instructor, error) {
	query := `
		INSERT INTO instructors (user_id, name, contact, instructor_number, activity, schedule, location, fee, tax_id, bank, agency, account, pix_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + instructorColumns

	var instructor models.Instructor
	err := scanInstructor(r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.Name,
		input.Contact,
		input.InstructorNumber,
		input.Activity,
		input.Schedule,
		input.Location,
		input.Fee,
		input.TaxID,
		input.Bank,
		input.Agency,
		input.Account,
		input.PixKey,
	), &instructor)
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	query := `
		SELECT ` + instructorColumns + `
		FROM instructors
		WHERE id = $1
	`
	var instructor models.Instructor
	if err := scanInstructor(r.db.QueryRow(ctx, query, id), &instructor); err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.Instructor, error) {
	query := `
		SELECT ` + instructorColumns + `
		FROM instructors
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, query, userID)
}

func (r *InstructorRepository) ListByContacts(ctx context.Context, contacts []string) ([]models.Instructor, error) {
	if len(contacts) == 0 {
		return []models.Instructor{}, nil
	}

	query := `
		SELECT ` + instructorColumns + `
		FROM instructors
		WHERE contact = ANY($1)
		ORDER BY id ASC
	`
	return r.list(ctx, query, contacts)
}

func (r *InstructorRepository) ListByInstructorNumbers(ctx context.Context, numbers []string) ([]models.Instructor, error) {
	if len(numbers) == 0 {
		return []models.Instructor{}, nil
	}

	query := `
		SELECT ` + instructorColumns + `
		FROM instructors
		WHERE instructor_number = ANY($1)
		ORDER BY id ASC
	`
	return r.list(ctx, query, numbers)
}

func (r *InstructorRepository) ExistsByInstructorNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM instructors WHERE instructor_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *InstructorRepository) Update(ctx context.Context, id int64, userID uuid.UUID, input CreateInstructorInput) (*models.Instructor, error) {
	query := `
		UPDATE instructors
		SET name = $3, contact = $4, instructor_number = $5, activity = $6,
		    schedule = $7, location = $8, fee = $9, tax_id = $10, bank = $11,
		    agency = $12, account = $13, pix_key = $14, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + instructorColumns

	var instructor models.Instructor
	err := scanInstructor(r.db.QueryRow(
		ctx,
		query,
		id,
		userID,
		input.Name,
		input.Contact,
		input.InstructorNumber,
		input.Activity,
		input.Schedule,
		input.Location,
		input.Fee,
		input.TaxID,
		input.Bank,
		input.Agency,
		input.Account,
		input.PixKey,
	), &instructor)
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *InstructorRepository) Delete(ctx context.Context, id int64, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM instructors WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *InstructorRepository) list(ctx context.Context, query string, args ...any) ([]models.Instructor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instructors := make([]models.Instructor, 0)
	for rows.Next() {
		var instructor models.Instructor
		if err := scanInstructor(rows, &instructor); err != nil {
			return nil, err
		}
		instructors = append(instructors, instructor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instructors, nil
}
