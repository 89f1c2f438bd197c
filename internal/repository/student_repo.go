package repository

import (
	"context"
	"time"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
)

type CreateStudentInput struct {
	InstructorID int64
	Name         string
	WhatsApp     string
	Email        *string
	Activity     string
	MonthlyFee   float64
	DueDate      *time.Time
}

type StudentRepository struct {
	db DBTX
}

func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `
	id, instructor_id, legacy_instructor_contact, instructor_number, name,
	whatsapp, email, activity, monthly_fee, due_date, created_at, updated_at
`

func scanStudent(row interface{ Scan(dest ...any) error }, student *models.Student) error {
	return row.Scan(
		&student.ID,
		&student.InstructorID,
		&student.LegacyInstructorContact,
		&student.InstructorNumber,
		&student.Name,
		&student.WhatsApp,
		&student.Email,
		&student.Activity,
		&student.MonthlyFee,
		&student.DueDate,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
}

func (r *StudentRepository) Create(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	query := `
		INSERT INTO students (instructor_id, name, whatsapp, email, activity, monthly_fee, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + studentColumns

	var student models.Student
	err := scanStudent(r.db.QueryRow(
		ctx,
		query,
		input.InstructorID,
		input.Name,
		input.WhatsApp,
		input.Email,
		input.Activity,
		input.MonthlyFee,
		input.DueDate,
	), &student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE id = $1
	`
	var student models.Student
	if err := scanStudent(r.db.QueryRow(ctx, query, id), &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) ListByInstructorID(ctx context.Context, instructorID int64, limit, offset int) ([]models.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE instructor_id = $1
		ORDER BY name ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, instructorID, limit, offset)
}

func (r *StudentRepository) CountByInstructorID(ctx context.Context, instructorID int64) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE instructor_id = $1`, instructorID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *StudentRepository) ListByInstructorIDs(ctx context.Context, instructorIDs []int64) ([]models.Student, error) {
	if len(instructorIDs) == 0 {
		return []models.Student{}, nil
	}

	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE instructor_id = ANY($1) OR legacy_instructor_contact = ANY($1)
		ORDER BY id ASC
	`
	return r.list(ctx, query, instructorIDs)
}

// ListByInstructorPhones finds legacy rows whose linkage column holds a phone
// number instead of an instructor id, either as digits or as a raw string.
func (r *StudentRepository) ListByInstructorPhones(ctx context.Context, numericPhones []int64, rawPhones []string) ([]models.Student, error) {
	if len(numericPhones) == 0 && len(rawPhones) == 0 {
		return []models.Student{}, nil
	}

	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE legacy_instructor_contact = ANY($1) OR instructor_number = ANY($2)
		ORDER BY id ASC
	`
	return r.list(ctx, query, numericPhones, rawPhones)
}

func (r *StudentRepository) Update(ctx context.Context, id, instructorID int64, input CreateStudentInput) (*models.Student, error) {
	query := `
		UPDATE students
		SET name = $3, whatsapp = $4, email = $5, activity = $6,
		    monthly_fee = $7, due_date = $8, updated_at = NOW()
		WHERE id = $1 AND instructor_id = $2
		RETURNING ` + studentColumns

	var student models.Student
	err := scanStudent(r.db.QueryRow(
		ctx,
		query,
		id,
		instructorID,
		input.Name,
		input.WhatsApp,
		input.Email,
		input.Activity,
		input.MonthlyFee,
		input.DueDate,
	), &student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id, instructorID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1 AND instructor_id = $2`, id, instructorID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *StudentRepository) list(ctx context.Context, query string, args ...any) ([]models.Student, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		var student models.Student
		if err := scanStudent(rows, &student); err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}
