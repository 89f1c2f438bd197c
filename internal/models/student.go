package models

import "time"

// Student belongs to exactly one instructor via InstructorID. The legacy
// columns carry phone-shaped linkage written by older imports; the dashboard
// reconciliation still reads them so those rows keep showing up.
type Student struct {
	ID                      int64      `json:"id"`
	InstructorID            int64      `json:"instructor_id"`
	LegacyInstructorContact *int64     `json:"legacy_instructor_contact"`
	InstructorNumber        *string    `json:"instructor_number"`
	Name                    string     `json:"name"`
	WhatsApp                string     `json:"whatsapp"`
	Email                   *string    `json:"email"`
	Activity                string     `json:"activity"`
	MonthlyFee              float64    `json:"monthly_fee"`
	DueDate                 *time.Time `json:"due_date"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
