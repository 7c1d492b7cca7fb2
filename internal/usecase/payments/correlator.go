package payments

import (
	"fmt"
	"sync"
	"time"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

var _ output.PaymentWaiter = (*Correlator)(nil)

// Notifier receives conversational notices about completed payments.
// The chat usecase implements it; its appends are mutex-guarded, so calling
// it from the webhook path is safe while a turn is in flight.
type Notifier interface {
	InjectNotice(text string)
}

// Correlator matches webhook payment events against registered waiters and
// keeps the conversation informed about completed payments even when nobody
// is waiting.
type Correlator struct {
	notifier Notifier
	logger   output.LoggerPort

	mu      sync.Mutex
	waiters map[string]chan entity.PaymentEvent
}

func NewCorrelator(notifier Notifier, logger output.LoggerPort) *Correlator {
	return &Correlator{
		notifier: notifier,
		logger:   logger,
		waiters:  make(map[string]chan entity.PaymentEvent),
	}
}

// RegisterWaiter returns a channel that delivers exactly one event for the
// transaction: the real webhook event, or a synthetic wait_timeout event
// when ttl expires first. The entry is removed either way, so callers are
// never blocked indefinitely. Registering again for the same transaction
// supersedes the earlier waiter, which is resolved with a wait_timeout
// event rather than left hanging.
func (c *Correlator) RegisterWaiter(txnID string, ttl time.Duration) <-chan entity.PaymentEvent {
	ch := make(chan entity.PaymentEvent, 1)

	c.mu.Lock()
	if prev, ok := c.waiters[txnID]; ok {
		// Buffered and never resolved, so this send cannot block.
		prev <- entity.PaymentEvent{TxnID: txnID, TxnState: entity.TxnWaitTimeout}
		c.logger.Warn("Superseding existing payment waiter", "txnId", txnID)
	}
	c.waiters[txnID] = ch
	c.mu.Unlock()

	time.AfterFunc(ttl, func() {
		c.mu.Lock()
		waiting, ok := c.waiters[txnID]
		if ok && waiting == ch {
			delete(c.waiters, txnID)
		} else {
			ok = false
		}
		c.mu.Unlock()

		if ok {
			c.logger.Warn("Payment waiter expired", "txnId", txnID, "ttl", ttl.String())
			ch <- entity.PaymentEvent{TxnID: txnID, TxnState: entity.TxnWaitTimeout}
		}
	})

	return ch
}

// OnEvent resolves the waiter for the event's transaction, if any, and
// removes it (at-most-once delivery). Completed events always produce one
// conversational notice, waiter or not, so the model learns about payments
// for invoices the agent created but is not blocked on.
func (c *Correlator) OnEvent(event entity.PaymentEvent) {
	c.mu.Lock()
	ch, ok := c.waiters[event.TxnID]
	if ok {
		delete(c.waiters, event.TxnID)
	}
	c.mu.Unlock()

	if ok {
		ch <- event
		c.logger.Info("Resolved payment waiter", "txnId", event.TxnID, "state", event.TxnState)
	} else {
		c.logger.Debug("No waiter for payment event", "txnId", event.TxnID, "state", event.TxnState)
	}

	if event.Completed() {
		c.notifier.InjectNotice(fmt.Sprintf(
			"[system notification] Payment completed: transaction %s is now in state %s. Mention this to the user.",
			event.TxnID, event.TxnState))
	}
}

// Pending reports how many waiters are currently registered.
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
