package payments

import (
	"sync"
	"testing"
	"time"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)             {}
func (nopLogger) Info(msg string, args ...any)              {}
func (nopLogger) Warn(msg string, args ...any)              {}
func (nopLogger) Error(msg string, args ...any)             {}
func (l nopLogger) WithField(string, any) output.LoggerPort { return l }
func (nopLogger) Close() error                              { return nil }

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) InjectNotice(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, text)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notices...)
}

func TestOnEvent_ResolvesWaiterExactlyOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCorrelator(notifier, nopLogger{})

	ch := c.RegisterWaiter("txn-1", time.Minute)
	c.OnEvent(entity.PaymentEvent{TxnID: "txn-1", TxnState: entity.TxnCompleted})

	select {
	case event := <-ch:
		assert.Equal(t, entity.TxnCompleted, event.TxnState)
	case <-time.After(time.Second):
		t.Fatal("waiter was not resolved")
	}
	assert.Equal(t, 0, c.Pending())

	// A second event for the same transaction finds no waiter but still
	// injects a notice.
	c.OnEvent(entity.PaymentEvent{TxnID: "txn-1", TxnState: entity.TxnCompleted})
	assert.Equal(t, 0, c.Pending())
	assert.Len(t, notifier.all(), 2)
}

func TestOnEvent_CompletedAlwaysInjectsNotice(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCorrelator(notifier, nopLogger{})

	c.OnEvent(entity.PaymentEvent{TxnID: "txn-unwaited", TxnState: entity.TxnCompleted})

	notices := notifier.all()
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0], "txn-unwaited")
	assert.Equal(t, 0, c.Pending())
}

func TestOnEvent_NonCompletedInjectsNothing(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCorrelator(notifier, nopLogger{})

	ch := c.RegisterWaiter("txn-2", time.Minute)
	c.OnEvent(entity.PaymentEvent{TxnID: "txn-2", TxnState: entity.TxnFailed})

	event := <-ch
	assert.Equal(t, entity.TxnFailed, event.TxnState)
	assert.Empty(t, notifier.all())
}

func TestRegisterWaiter_TTLDeliversTimeout(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCorrelator(notifier, nopLogger{})

	ch := c.RegisterWaiter("txn-3", 10*time.Millisecond)

	select {
	case event := <-ch:
		assert.Equal(t, entity.TxnWaitTimeout, event.TxnState)
		assert.Equal(t, "txn-3", event.TxnID)
	case <-time.After(time.Second):
		t.Fatal("timeout event was not delivered")
	}
	assert.Equal(t, 0, c.Pending())
	assert.Empty(t, notifier.all())
}

func TestRegisterWaiter_EventBeatsTTL(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCorrelator(notifier, nopLogger{})

	ch := c.RegisterWaiter("txn-4", 50*time.Millisecond)
	c.OnEvent(entity.PaymentEvent{TxnID: "txn-4", TxnState: entity.TxnCompleted})

	event := <-ch
	assert.Equal(t, entity.TxnCompleted, event.TxnState)

	// After the TTL passes no second event shows up.
	time.Sleep(80 * time.Millisecond)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected second event: %+v", extra)
	default:
	}
}

func TestRegisterWaiter_SecondRegistrationSupersedesFirst(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCorrelator(notifier, nopLogger{})

	first := c.RegisterWaiter("txn-1", time.Minute)
	second := c.RegisterWaiter("txn-1", time.Minute)
	assert.Equal(t, 1, c.Pending())

	// The superseded waiter is resolved immediately instead of hanging.
	select {
	case event := <-first:
		assert.Equal(t, entity.TxnWaitTimeout, event.TxnState)
	case <-time.After(time.Second):
		t.Fatal("superseded waiter was not resolved")
	}

	c.OnEvent(entity.PaymentEvent{TxnID: "txn-1", TxnState: entity.TxnCompleted})
	select {
	case event := <-second:
		assert.Equal(t, entity.TxnCompleted, event.TxnState)
	case <-time.After(time.Second):
		t.Fatal("active waiter was not resolved")
	}
	assert.Equal(t, 0, c.Pending())
}
