package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	stripe "github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
)

type chargeLinkStore interface {
	GetByID(ctx context.Context, chargeID uuid.UUID) (*models.Charge, error)
	SetStripeLink(ctx context.Context, chargeID uuid.UUID, paymentLink, transactionID string) (*models.Charge, error)
	SetPixArtifacts(ctx context.Context, chargeID uuid.UUID, copyPasteCode, qrURL, transactionID string) (*models.Charge, error)
}

type userReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type pixGateway interface {
	CreatePixPayment(ctx context.Context, payment PixPaymentRequest) (*PixPaymentResponse, error)
}

type PaymentService struct {
	appBaseURL string
	charges    chargeLinkStore
	users      userReader
	pix        pixGateway
	email      EmailSender
}

func NewPaymentService(
	stripeSecretKey string,
	appBaseURL string,
	charges chargeLinkStore,
	users userReader,
	pix pixGateway,
	email EmailSender,
) *PaymentService {
	stripe.Key = stripeSecretKey
	return &PaymentService{
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		charges:    charges,
		users:      users,
		pix:        pix,
		email:      email,
	}
}

// CheckoutInput mirrors the payment-link endpoint body: AmountCents is in
// minor units, PaymentAmount repeats the value in major units for the email.
type CheckoutInput struct {
	AmountCents    int64
	Currency       string
	Description    string
	InstructorID   string
	StudentsCount  int
	StudentName    string
	StudentEmail   string
	InstructorName string
	Activity       string
	PaymentAmount  float64
	DueDate        string
}

type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
	EmailSent bool   `json:"email_sent"`
}

type PixInput struct {
	AmountCents    int64
	Description    string
	StudentName    string
	StudentEmail   string
	InstructorName string
	Activity       string
	PaymentAmount  float64
	DueDate        string
	PayerEmail     string
}

type PixResult struct {
	PaymentID    int64  `json:"payment_id"`
	PixCode      string `json:"pix_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	PaymentURL   string `json:"payment_url"`
	EmailSent    bool   `json:"email_sent"`
}

// CreateCheckout requests a hosted Stripe Checkout session and reports the
// email side effect without ever failing on it.
func (s *PaymentService) CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if input.AmountCents <= 0 {
		return nil, &ValidationError{Fields: []string{"amount"}}
	}

	session, err := checkoutsession.New(buildCheckoutParams(input, s.appBaseURL))
	if err != nil {
		return nil, asGatewayError(err)
	}

	result := &CheckoutResult{URL: session.URL, SessionID: session.ID}
	result.EmailSent = s.trySendEmail(ctx, PaymentEmailInput{
		ToEmail:        input.StudentEmail,
		StudentName:    input.StudentName,
		InstructorName: input.InstructorName,
		Activity:       input.Activity,
		Amount:         majorAmount(input.PaymentAmount, input.AmountCents),
		DueDate:        input.DueDate,
		PaymentLink:    session.URL,
	})
	return result, nil
}

// CreatePix requests a PIX payment from Mercado Pago. The gateway takes the
// amount in major units even though the endpoint body carries cents; both
// representations are kept so the email and the gateway each get theirs.
func (s *PaymentService) CreatePix(ctx context.Context, input PixInput) (*PixResult, error) {
	if input.AmountCents <= 0 {
		return nil, &ValidationError{Fields: []string{"amount"}}
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = "Mensalidade PraiAtiva - " + input.Activity
	}

	firstName, lastName := splitPayerName(input.StudentName)
	payment, err := s.pix.CreatePixPayment(ctx, PixPaymentRequest{
		TransactionAmount: majorAmount(input.PaymentAmount, input.AmountCents),
		Description:       description,
		PaymentMethodID:   "pix",
		Payer: PixPayer{
			Email:     firstNonEmpty(input.PayerEmail, input.StudentEmail, "cliente@exemplo.com"),
			FirstName: firstName,
			LastName:  lastName,
		},
	})
	if err != nil {
		return nil, err
	}

	pixCode := payment.PointOfInteraction.TransactionData.QRCode
	paymentURL := payment.PointOfInteraction.TransactionData.TicketURL
	if paymentURL == "" {
		paymentURL = fmt.Sprintf("https://www.mercadopago.com.br/checkout/v1/redirect?pref_id=%d", payment.ID)
	}

	emailPixCode := pixCode
	if emailPixCode == "" {
		emailPixCode = fmt.Sprintf("Pagamento ID: %d", payment.ID)
	}

	result := &PixResult{
		PaymentID:    payment.ID,
		PixCode:      pixCode,
		QRCodeBase64: payment.PointOfInteraction.TransactionData.QRCodeBase64,
		PaymentURL:   paymentURL,
	}
	result.EmailSent = s.trySendEmail(ctx, PaymentEmailInput{
		ToEmail:        input.StudentEmail,
		StudentName:    input.StudentName,
		InstructorName: input.InstructorName,
		Activity:       input.Activity,
		Amount:         majorAmount(input.PaymentAmount, input.AmountCents),
		DueDate:        input.DueDate,
		PaymentLink:    "PIX: " + emailPixCode,
	})
	return result, nil
}

// IssueCardLinkForCharge generates a checkout link for an existing charge and
// persists the resulting artifacts onto it.
func (s *PaymentService) IssueCardLinkForCharge(ctx context.Context, userID, chargeID uuid.UUID) (*models.Charge, *CheckoutResult, error) {
	charge, instructorName, err := s.loadOwnedCharge(ctx, userID, chargeID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.CreateCheckout(ctx, CheckoutInput{
		AmountCents:    minorAmount(charge.Amount),
		Currency:       "brl",
		Description:    charge.Activity + " - " + charge.StudentName,
		InstructorID:   charge.InstructorID.String(),
		StudentName:    charge.StudentName,
		InstructorName: instructorName,
		Activity:       charge.Activity,
		PaymentAmount:  charge.Amount,
		DueDate:        charge.DueDate.Format(dateLayout),
	})
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.charges.SetStripeLink(ctx, charge.ID, result.URL, result.SessionID)
	if err != nil {
		return nil, nil, err
	}
	return updated, result, nil
}

// IssuePixForCharge generates a PIX payment for an existing charge and
// persists the copy-paste code, payment URL and transaction id onto it.
func (s *PaymentService) IssuePixForCharge(ctx context.Context, userID, chargeID uuid.UUID) (*models.Charge, *PixResult, error) {
	charge, instructorName, err := s.loadOwnedCharge(ctx, userID, chargeID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.CreatePix(ctx, PixInput{
		AmountCents:    minorAmount(charge.Amount),
		Description:    charge.Activity + " - " + charge.StudentName,
		StudentName:    charge.StudentName,
		InstructorName: instructorName,
		Activity:       charge.Activity,
		PaymentAmount:  charge.Amount,
		DueDate:        charge.DueDate.Format(dateLayout),
	})
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.charges.SetPixArtifacts(ctx, charge.ID, result.PixCode, result.PaymentURL, strconv.FormatInt(result.PaymentID, 10))
	if err != nil {
		return nil, nil, err
	}
	return updated, result, nil
}

func (s *PaymentService) loadOwnedCharge(ctx context.Context, userID, chargeID uuid.UUID) (*models.Charge, string, error) {
	charge, err := s.charges.GetByID(ctx, chargeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if charge.InstructorID != userID {
		return nil, "", ErrForbidden
	}

	instructorName := ""
	if s.users != nil {
		if user, err := s.users.GetByID(ctx, userID); err == nil {
			instructorName = user.Name
		}
	}
	return charge, instructorName, nil
}

// The email is best effort: a provider failure is logged and reported as
// email_sent=false while the payment artifact is still returned.
func (s *PaymentService) trySendEmail(ctx context.Context, input PaymentEmailInput) bool {
	if s.email == nil {
		return false
	}
	if input.ToEmail == "" || input.StudentName == "" || input.InstructorName == "" || input.Activity == "" || input.PaymentLink == "" {
		return false
	}

	if err := s.email.SendPaymentEmail(ctx, input); err != nil {
		log.Printf("payment email to %s failed: %v", input.ToEmail, err)
		return false
	}
	return true
}

func buildCheckoutParams(input CheckoutInput, appBaseURL string) *stripe.CheckoutSessionParams {
	currency := input.Currency
	if currency == "" {
		currency = "brl"
	}
	description := input.Description
	if description == "" {
		description = "Pagamento PraiAtiva"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "boleto"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(description),
						Description: stripe.String(fmt.Sprintf("Cadastro de %d aluno(s)", input.StudentsCount)),
					},
					UnitAmount: stripe.Int64(input.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(appBaseURL + "/pagamento?success=true"),
		CancelURL:  stripe.String(appBaseURL + "/pagamento?canceled=true"),
	}
	params.AddMetadata("instructor_id", input.InstructorID)
	params.AddMetadata("students_count", strconv.Itoa(input.StudentsCount))
	return params
}

func asGatewayError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		details, _ := json.Marshal(stripeErr)
		return &GatewayError{
			Status:  stripeErr.HTTPStatusCode,
			Message: stripeErr.Msg,
			Details: details,
		}
	}
	return err
}

func minorAmount(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func majorAmount(paymentAmount float64, amountCents int64) float64 {
	if paymentAmount > 0 {
		return paymentAmount
	}
	return float64(amountCents) / 100
}

// First token is the first name; everything after it joins into the last
// name, with a fixed placeholder when the name has a single token.
func splitPayerName(fullName string) (string, string) {
	fields := strings.Fields(strings.TrimSpace(fullName))
	if len(fields) == 0 {
		return "Cliente", "PraiAtiva"
	}
	if len(fields) == 1 {
		return fields[0], "PraiAtiva"
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
