package feedback

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"hirelens/internal/common/config"
	"hirelens/internal/common/logger"
)

// Mailer delivers feedback to a candidate. Delivery failures are the
// caller's to log; they never fail an analysis run.
type Mailer interface {
	SendFeedback(ctx context.Context, toEmail, subject, body string) error
}

// sesAPI is the slice of the SES client the mailer needs.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends feedback through Amazon SES.
type SESMailer struct {
	client    sesAPI
	fromEmail string
	logger    logger.Logger
}

func NewSESMailer(ctx context.Context, cfg config.FeedbackConfig, log logger.Logger) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}
	return &SESMailer{
		client:    ses.NewFromConfig(awsCfg),
		fromEmail: cfg.FromEmail,
		logger:    log,
	}, nil
}

func (m *SESMailer) SendFeedback(ctx context.Context, toEmail, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(m.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(body)},
			},
		},
	})
	if err != nil {
		return err
	}

	m.logger.Info("Feedback email dispatched", map[string]interface{}{
		"to": toEmail,
	})
	return nil
}

// NoOpMailer is used when email delivery is disabled. The feedback text is
// still generated and stored on the analysis record.
type NoOpMailer struct {
	logger logger.Logger
}

func NewNoOpMailer(log logger.Logger) *NoOpMailer {
	return &NoOpMailer{logger: log}
}

func (m *NoOpMailer) SendFeedback(ctx context.Context, toEmail, subject, body string) error {
	m.logger.Info("Email delivery disabled, feedback stored only", map[string]interface{}{
		"to": toEmail,
	})
	return nil
}
