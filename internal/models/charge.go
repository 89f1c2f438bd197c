package models

import (
	"time"

	"github.com/google/uuid"
)

// Charge is one billable record for a student's activity fee. The payment
// artifact fields stay nil until a link or PIX code is generated for it.
type Charge struct {
	ID                   uuid.UUID `json:"id"`
	InstructorID         uuid.UUID `json:"instructor_id"`
	Activity             string    `json:"activity"`
	StudentName          string    `json:"student_name"`
	StudentPhone         string    `json:"student_phone"`
	Amount               float64   `json:"amount"`
	IssueDate            time.Time `json:"issue_date"`
	DueDate              time.Time `json:"due_date"`
	StripePaymentLink    *string   `json:"stripe_payment_link"`
	PixQRURL             *string   `json:"pix_qr_url"`
	PixCopyPasteCode     *string   `json:"pix_copy_paste_code"`
	GatewayTransactionID *string   `json:"gateway_transaction_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
