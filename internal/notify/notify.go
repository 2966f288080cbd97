// Package notify delivers deal alerts over email and SMS.
package notify

import (
	"context"

	"award-monitor/internal/search"
)

// Notifier delivers one batch of ranked deals.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, deals []search.RatedOffer) error
}
