package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
)

type CreateChargeInput struct {
	InstructorID uuid.UUID
	Activity     string
	StudentName  string
	StudentPhone string
	Amount       float64
	IssueDate    time.Time
	DueDate      time.Time
}

type UpdateChargeInput struct {
	Activity     string
	StudentName  string
	StudentPhone string
	Amount       float64
	IssueDate    time.Time
	DueDate      time.Time
}

type ChargeRepository struct {
	db DBTX
}

func NewChargeRepository(db DBTX) *ChargeRepository {
	return &ChargeRepository{db: db}
}

const chargeColumns = `
	id, instructor_id, activity, student_name, student_phone, amount,
	issue_date, due_date, stripe_payment_link, pix_qr_url,
	pix_copy_paste_code, gateway_transaction_id, created_at, updated_at
`

func scanCharge(row interface{ Scan(dest ...any) error }, charge *models.Charge) error {
	return row.Scan(
		&charge.ID,
		&charge.InstructorID,
		&charge.Activity,
		&charge.StudentName,
		&charge.StudentPhone,
		&charge.Amount,
		&charge.IssueDate,
		&charge.DueDate,
		&charge.StripePaymentLink,
		&charge.PixQRURL,
		&charge.PixCopyPasteCode,
		&charge.GatewayTransactionID,
		&charge.CreatedAt,
		&charge.UpdatedAt,
	)
}

func (r *ChargeRepository) Create(ctx context.Context, input CreateChargeInput) (*models.Charge, error) {
	query := `
		INSERT INTO charges (instructor_id, activity, student_name, student_phone, amount, issue_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + chargeColumns

	var charge models.Charge
	err := scanCharge(r.db.QueryRow(
		ctx,
		query,
		input.InstructorID,
		input.Activity,
		input.StudentName,
		input.StudentPhone,
		input.Amount,
		input.IssueDate,
		input.DueDate,
	), &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *ChargeRepository) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Charge, error) {
	query := `
		SELECT ` + chargeColumns + `
		FROM charges
		WHERE instructor_id = $1
		ORDER BY due_date ASC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charges := make([]models.Charge, 0)
	for rows.Next() {
		var charge models.Charge
		if err := scanCharge(rows, &charge); err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return charges, nil
}

func (r *ChargeRepository) GetByID(ctx context.Context, chargeID uuid.UUID) (*models.Charge, error) {
	query := `
		SELECT ` + chargeColumns + `
		FROM charges
		WHERE id = $1
	`
	var charge models.Charge
	if err := scanCharge(r.db.QueryRow(ctx, query, chargeID), &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

// Update touches business fields only; payment artifacts are written
// exclusively through SetStripeLink and SetPixArtifacts.
func (r *ChargeRepository) Update(ctx context.Context, chargeID, instructorID uuid.UUID, input UpdateChargeInput) (*models.Charge, error) {
	query := `
		UPDATE charges
		SET activity = $3, student_name = $4, student_phone = $5, amount = $6,
		    issue_date = $7, due_date = $8, updated_at = NOW()
		WHERE id = $1 AND instructor_id = $2
		RETURNING ` + chargeColumns

	var charge models.Charge
	err := scanCharge(r.db.QueryRow(
		ctx,
		query,
		chargeID,
		instructorID,
		input.Activity,
		input.StudentName,
		input.StudentPhone,
		input.Amount,
		input.IssueDate,
		input.DueDate,
	), &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *ChargeRepository) SetStripeLink(ctx context.Context, chargeID uuid.UUID, paymentLink, transactionID string) (*models.Charge, error) {
	query := `
		UPDATE charges
		SET stripe_payment_link = $2, gateway_transaction_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + chargeColumns

	var charge models.Charge
	if err := scanCharge(r.db.QueryRow(ctx, query, chargeID, paymentLink, transactionID), &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *ChargeRepository) SetPixArtifacts(ctx context.Context, chargeID uuid.UUID, copyPasteCode, qrURL, transactionID string) (*models.Charge, error) {
	query := `
		UPDATE charges
		SET pix_copy_paste_code = $2, pix_qr_url = $3, gateway_transaction_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + chargeColumns

	var charge models.Charge
	if err := scanCharge(r.db.QueryRow(ctx, query, chargeID, copyPasteCode, qrURL, transactionID), &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

// Delete reports how many rows went away so callers can treat a missing id
// as a no-op.
func (r *ChargeRepository) Delete(ctx context.Context, chargeID, instructorID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM charges WHERE id = $1 AND instructor_id = $2`, chargeID, instructorID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
