package mailer

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// Mailer sends commission announcements.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// SESMailer sends mail through AWS SES.
type SESMailer struct {
	client *ses.Client
	sender string
	log    *zap.Logger
}

func NewSESMailer(ctx context.Context, region, sender string, log *zap.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), sender: sender, log: log}, nil
}

func (m *SESMailer) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}

	charset := "UTF-8"
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: &m.sender,
		Destination: &sestypes.Destination{
			ToAddresses: recipients,
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: &subject, Charset: &charset},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: &body, Charset: &charset},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Info("email sent",
		zap.Int("recipients", len(recipients)),
		zap.String("subject", subject))
	return nil
}
