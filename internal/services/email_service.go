package services

import (
	"context"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ferreiradrope/praiativa-pay-flow-main/pkg/utils"
)

// Template and sender are fixed: the dynamic template lives in the SendGrid
// account and the sender address is the one verified there.
const (
	paymentTemplateID = "d-3aec26f006994c14b2b8da77f292aaba"
	senderEmail       = "praiativaops@gmail.com"
	senderName        = "PraiAtiva"
)

type PaymentEmailInput struct {
	ToEmail        string
	StudentName    string
	InstructorName string
	Activity       string
	Amount         float64
	DueDate        string
	PaymentLink    string
}

type EmailSender interface {
	SendPaymentEmail(ctx context.Context, input PaymentEmailInput) error
	SendTestEmail(ctx context.Context, email, name string) (int, error)
}

type SendGridEmailService struct {
	apiKey string
	host   string
}

func NewSendGridEmailService(apiKey string) *SendGridEmailService {
	return &SendGridEmailService{
		apiKey: apiKey,
		host:   "https://api.sendgrid.com",
	}
}

func (s *SendGridEmailService) SendPaymentEmail(ctx context.Context, input PaymentEmailInput) error {
	_, err := s.send(ctx, buildTemplateMail(input))
	return err
}

// SendTestEmail submits the template with fixed sample data so an operator
// can verify the SendGrid setup end to end. Returns the provider status code.
func (s *SendGridEmailService) SendTestEmail(ctx context.Context, email, name string) (int, error) {
	message := buildTemplateMail(PaymentEmailInput{
		ToEmail:     email,
		StudentName: name,
		Activity:    "Surf Avançado",
		Amount:      250,
		DueDate:     "15/08/2025",
		PaymentLink: "https://checkout.stripe.com/pay/cs_test_exemplo123",
	})
	return s.send(ctx, message)
}

func buildTemplateMail(input PaymentEmailInput) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(senderName, senderEmail))
	message.SetTemplateID(paymentTemplateID)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(input.StudentName, input.ToEmail))
	personalization.SetDynamicTemplateData("Nome do Aluno", input.StudentName)
	personalization.SetDynamicTemplateData("Nome do Serviço", input.Activity)
	personalization.SetDynamicTemplateData("Valor do Pagamento", utils.FormatBRL(input.Amount))
	personalization.SetDynamicTemplateData("Data de Vencimento", input.DueDate)
	personalization.SetDynamicTemplateData("LINK_DE_PAGAMENTO", input.PaymentLink)
	message.AddPersonalizations(personalization)

	return message
}

func (s *SendGridEmailService) send(ctx context.Context, message *mail.SGMailV3) (int, error) {
	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return 0, &EmailError{Status: 0, Body: err.Error()}
	}
	if response.StatusCode >= http.StatusBadRequest {
		return response.StatusCode, &EmailError{Status: response.StatusCode, Body: response.Body}
	}
	return response.StatusCode, nil
}
