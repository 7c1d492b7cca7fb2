package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/application/service"
	"lightning-agent/internal/domain/entity"
	"lightning-agent/internal/infrastructure/webhook"
	"lightning-agent/internal/usecase/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idleLLM struct{}

func (idleLLM) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: "ok"}}, nil
}

// A verified completed event that nobody waits on must end up as exactly one
// message in the live conversation.
func TestWebhookEventReachesConversation(t *testing.T) {
	chatUC := chat.New(idleLLM{}, service.NewToolRegistry(), nopLogger{}, "prompt")
	correlator := NewCorrelator(chatUC, nopLogger{})
	router := webhook.NewServer(0, "secret", correlator, nopLogger{}).Router()

	body := `{"txnId":"txn-hook","txnState":"completed"}`
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(body))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/neutron", strings.NewReader(body))
	req.Header.Set(webhook.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, correlator.Pending())

	history := chatUC.History()
	require.Len(t, history, 1)
	assert.Equal(t, entity.RoleUser, history[0].Role)
	assert.Contains(t, history[0].Content, "txn-hook")
}

// A turn blocked in wait_for_payment resolves when the event lands, even
// though the webhook fires from another goroutine.
func TestWaiterResolutionAcrossGoroutines(t *testing.T) {
	chatUC := chat.New(idleLLM{}, service.NewToolRegistry(), nopLogger{}, "prompt")
	correlator := NewCorrelator(chatUC, nopLogger{})

	ch := correlator.RegisterWaiter("txn-async", time.Minute)
	go correlator.OnEvent(entity.PaymentEvent{TxnID: "txn-async", TxnState: entity.TxnCompleted})

	select {
	case event := <-ch:
		assert.Equal(t, entity.TxnCompleted, event.TxnState)
	case <-time.After(time.Second):
		t.Fatal("waiter was not resolved")
	}
}
