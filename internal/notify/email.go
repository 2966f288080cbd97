package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"award-monitor/internal/common/config"
	"award-monitor/internal/common/errors"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/search"
)

type sesAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// EmailNotifier sends the full deals digest through SES.
type EmailNotifier struct {
	client sesAPI
	from   string
	to     []string
	log    logger.Logger
}

func NewEmailNotifier(client sesAPI, cfg config.NotificationConfig, log logger.Logger) *EmailNotifier {
	return &EmailNotifier{
		client: client,
		from:   cfg.Email.FromEmail,
		to:     []string{cfg.Email.ToEmail},
		log:    log.WithFields(map[string]interface{}{"notifier": "email"}),
	}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, deals []search.RatedOffer) error {
	if len(deals) == 0 {
		return nil
	}

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: n.to,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(Subject(len(deals)))},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(FormatDealsDigest(deals))},
			},
		},
	})
	if err != nil {
		return errors.NewNotificationSendFailedError(n.Name(), err)
	}

	n.log.Info("deal alert emailed", map[string]interface{}{
		"recipients": len(n.to),
		"deals":      len(deals),
	})
	return nil
}
