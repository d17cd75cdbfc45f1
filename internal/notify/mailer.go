// Package notify delivers outbound email. Delivery is best effort
// everywhere: a failed send is logged and never fails the request that
// triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/logger"
)

// Mailer sends a single email
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES;
// "noop" or anything unknown logs instead of sending.
func NewMailer(cfg *config.Config) Mailer {
	log := logger.Mailer()
	switch cfg.Mail.Provider {
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.Mail.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.Mail.AccessKeyID,
					cfg.Mail.SecretAccessKey,
					"",
				),
			),
		}
		log.Info("Using SES mailer", "region", cfg.Mail.Region, "from", cfg.Mail.FromAddress)
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.Mail.FromAddress,
			fromName:    cfg.Mail.FromName,
		}
	case "noop":
		return &noopMailer{}
	default:
		log.Warn("Unknown mail provider, using noop", "provider", cfg.Mail.Provider)
		return &noopMailer{}
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(html),
			Charset: aws.String("UTF-8"),
		}
	}
	if text != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(text),
			Charset: aws.String("UTF-8"),
		}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	logger.Mailer().Debug("Email sent", "to", to, "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct{}

func (n *noopMailer) Send(_ context.Context, to, subject, _, _ string) error {
	logger.Mailer().Info("Email suppressed (noop mailer)", "to", to, "subject", subject)
	return nil
}
