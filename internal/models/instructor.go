package models

import (
	"time"

	"github.com/google/uuid"
)

// Instructor is one offered activity owned by an account. An account can have
// several rows, one per activity, all sharing the same contact phone.
type Instructor struct {
	ID               int64      `json:"id"`
	UserID           *uuid.UUID `json:"user_id"`
	Name             string     `json:"name"`
	Contact          string     `json:"contact"`
	InstructorNumber *string    `json:"instructor_number"`
	Activity         string     `json:"activity"`
	Schedule         string     `json:"schedule"`
	Location         string     `json:"location"`
	Fee              string     `json:"fee"`
	TaxID            *string    `json:"tax_id"`
	Bank             *string    `json:"bank"`
	Agency           *string    `json:"agency"`
	Account          *string    `json:"account"`
	PixKey           *string    `json:"pix_key"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
