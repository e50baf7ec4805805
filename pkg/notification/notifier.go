// Package notification hands delivery requests to the multi-channel
// notification subsystem. Delivery providers (email, SMS, WhatsApp) live
// outside this module; the engine only publishes requests.
package notification

import (
	"context"

	"github.com/stayops/stayops/pkg/models"
)

// Notifier accepts one delivery request. Implementations are best-effort:
// acceptance does not mean delivery.
type Notifier interface {
	Send(ctx context.Context, notification models.Notification) error
}
