// Package mail delivers one-time codes over Amazon SES, with a log-only
// fallback when no sender address is configured.
package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESMailer sends OTP emails through Amazon SES.
type SESMailer struct {
	client   *sesv2.Client
	from     string
	fromName string
}

// NewSESMailer loads the default AWS config for the region and returns a
// mailer sending from the given address.
func NewSESMailer(ctx context.Context, region, from, fromName string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{
		client:   sesv2.NewFromConfig(cfg),
		from:     from,
		fromName: fromName,
	}, nil
}

func (m *SESMailer) SendOTP(ctx context.Context, to, code string) error {
	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}
	subject := "Your OTP"
	body := fmt.Sprintf("Your OTP: %s", code)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// LogMailer writes codes to the server log instead of sending mail. Used
// when no sender address is configured so local setups still work.
type LogMailer struct{}

func (LogMailer) SendOTP(_ context.Context, to, code string) error {
	log.Printf("OTP for %s: %s", to, code)
	return nil
}
