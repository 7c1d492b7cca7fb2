package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

const (
	defaultWaitTTL = 10 * time.Minute
	maxWaitTTL     = 30 * time.Minute
)

// WaitForPaymentTool blocks the current turn until the webhook reports a
// state change for the given transaction, or the wait times out.
type WaitForPaymentTool struct {
	waiter output.PaymentWaiter
	logger output.LoggerPort
}

func NewWaitForPaymentTool(waiter output.PaymentWaiter, logger output.LoggerPort) *WaitForPaymentTool {
	return &WaitForPaymentTool{waiter: waiter, logger: logger}
}

func (t *WaitForPaymentTool) Name() entity.ToolName { return entity.ToolWaitForPayment }
func (t *WaitForPaymentTool) Description() string {
	return "Wait for an invoice you created to be paid. Blocks until the wallet backend notifies us about the transaction, or until the timeout passes. Use after create_invoice when the user wants to know the moment the payment arrives."
}
func (t *WaitForPaymentTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"txn_id": map[string]interface{}{
				"type":        "string",
				"description": "Transaction ID of the invoice to wait on",
			},
			"timeout_seconds": map[string]interface{}{
				"type":        "number",
				"description": "How long to wait before giving up (default: 600, max: 1800)",
			},
		},
		"required": []string{"txn_id"},
	}
}

func (t *WaitForPaymentTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		TxnID          string `json:"txn_id"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.TxnID == "" {
		return "", fmt.Errorf("txn_id is required")
	}

	ttl := defaultWaitTTL
	if input.TimeoutSeconds > 0 {
		ttl = time.Duration(input.TimeoutSeconds) * time.Second
	}
	if ttl > maxWaitTTL {
		ttl = maxWaitTTL
	}

	t.logger.Info("Waiting for payment", "txnId", input.TxnID, "ttl", ttl.String())

	select {
	case event := <-t.waiter.RegisterWaiter(input.TxnID, ttl):
		switch event.TxnState {
		case entity.TxnWaitTimeout:
			return fmt.Sprintf("No payment notification arrived for transaction %s within %s. The invoice may still be paid later.", input.TxnID, ttl), nil
		case entity.TxnCompleted:
			return fmt.Sprintf("Payment received! Transaction %s is now completed.", event.TxnID), nil
		default:
			return fmt.Sprintf("Transaction %s changed state to %s.", event.TxnID, event.TxnState), nil
		}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
