package sendgrid

import (
	"context"
	"fmt"

	"github.com/littlefern/storefront-api/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional storefront mail. Order confirmation is a
// non-critical side effect of placement: failures are logged by the caller,
// never propagated into the order transaction.
type EmailService interface {
	SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (e *emailService) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	personalization.Subject = fmt.Sprintf("Order confirmed: %s", order.ID)
	message.AddPersonalizations(personalization)

	body := fmt.Sprintf("Thanks for your order!\n\nOrder %s\nItems: %d\nTotal: %.2f\n\nWe'll let you know when it ships.",
		order.ID, len(order.Items), order.TotalAmount)

	message.AddContent(mail.NewContent("text/plain", body))

	response, err := e.client.SendWithContext(ctx, message)

	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}
