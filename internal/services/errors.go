package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrTableMissing = errors.New("charges table missing")
)

// ValidationError reports caller-supplied data that failed a precondition.
// It is always returned before any network or store call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// GatewayError means the external payment provider rejected or failed the
// request. Details carries the provider's structured payload verbatim so the
// caller can tell "the gateway refused this" from "our process failed".
type GatewayError struct {
	Status  int
	Message string
	Details json.RawMessage
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error (status %d): %s", e.Status, e.Message)
}

// EmailError is only ever observed by the issuing operation, which converts
// it into an email_sent=false flag. It never propagates further.
type EmailError struct {
	Status int
	Body   string
}

func (e *EmailError) Error() string {
	return fmt.Sprintf("email provider error (status %d): %s", e.Status, e.Body)
}
