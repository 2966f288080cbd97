package notify

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"award-monitor/internal/common/config"
	"award-monitor/internal/common/errors"
	"award-monitor/internal/common/logger"
	"award-monitor/internal/search"
)

// smsMaxLen caps the message body for long SMS delivery.
const smsMaxLen = 1600

type snsAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// SMSNotifier sends a concise alert through SNS: the deal count plus a
// summary of the top-ranked deal only.
type SMSNotifier struct {
	client      snsAPI
	phoneNumber string
	log         logger.Logger
}

func NewSMSNotifier(client snsAPI, cfg config.NotificationConfig, log logger.Logger) *SMSNotifier {
	return &SMSNotifier{
		client:      client,
		phoneNumber: cfg.SMS.PhoneNumber,
		log:         log.WithFields(map[string]interface{}{"notifier": "sms"}),
	}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Notify(ctx context.Context, deals []search.RatedOffer) error {
	if len(deals) == 0 {
		return nil
	}

	message := fmt.Sprintf("%d flight deal%s found!\n\nTop deal:\n%s",
		len(deals), plural(len(deals)), FormatDealSummary(deals[0]))
	message = truncate(message, smsMaxLen)

	_, err := n.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.phoneNumber),
		Message:     aws.String(message),
	})
	if err != nil {
		return errors.NewNotificationSendFailedError(n.Name(), err)
	}

	n.log.Info("deal alert sent by sms", map[string]interface{}{"deals": len(deals)})
	return nil
}

// truncate shortens s to at most max bytes without splitting a rune,
// appending an ellipsis when anything was cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
