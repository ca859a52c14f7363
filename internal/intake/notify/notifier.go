// internal/intake/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES client the notifier needs.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Notifier sends the best-effort confirmation email to the applicant. A
// failure here never changes the request outcome; the caller logs and moves
// on.
type Notifier struct {
	sesClient SESService
	fromEmail string
	enabled   bool
	logger    logger.Logger
}

func New(sesClient SESService, fromEmail string, enabled bool, log logger.Logger) *Notifier {
	return &Notifier{
		sesClient: sesClient,
		fromEmail: fromEmail,
		enabled:   enabled,
		logger:    log.WithFields(map[string]interface{}{"stage": "notify"}),
	}
}

// SendConfirmation emails the applicant a receipt referencing the posting
// title.
func (n *Notifier) SendConfirmation(ctx context.Context, app *models.Application, posting *models.JobPosting) error {
	if !n.enabled || n.sesClient == nil {
		n.logger.Debug("confirmation email disabled", map[string]interface{}{
			"applicationId": app.ID,
		})
		return nil
	}

	subject := fmt.Sprintf("Application received: %s", posting.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your application for %s. The hiring team will review it and get back to you.\n",
		app.Applicant.Name, posting.Title,
	)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{app.Applicant.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	if err != nil {
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeNotificationSendFailed,
			Message:   "confirmation email failed",
			Details:   err.Error(),
			Retryable: true,
		}
	}

	n.logger.Info("confirmation email sent", map[string]interface{}{
		"applicationId": app.ID,
	})
	return nil
}
