package output

import (
	"time"

	"lightning-agent/internal/domain/entity"
)

// PaymentWaiter registers interest in a transaction's completion webhook.
// The returned channel delivers exactly one event: the real one, or a
// synthetic wait_timeout event when the TTL expires first.
type PaymentWaiter interface {
	RegisterWaiter(txnID string, ttl time.Duration) <-chan entity.PaymentEvent
}
