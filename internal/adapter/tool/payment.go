package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

const confirmationHint = "Ask the user to confirm before calling this tool again with confirmed=true."

type PayInvoiceTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewPayInvoiceTool(wallet output.WalletPort, logger output.LoggerPort) *PayInvoiceTool {
	return &PayInvoiceTool{wallet: wallet, logger: logger}
}

func (t *PayInvoiceTool) Name() entity.ToolName { return entity.ToolPayInvoice }
func (t *PayInvoiceTool) Description() string {
	return "Pay a Lightning invoice (BOLT11). Creates and confirms the payment. Use this when someone gives you a Lightning invoice to pay."
}
func (t *PayInvoiceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"invoice": map[string]interface{}{
				"type":        "string",
				"description": "BOLT11 Lightning invoice string (starts with lnbc...)",
			},
			"confirmed": map[string]interface{}{
				"type":        "boolean",
				"description": "Set to true only after the user has explicitly confirmed the payment. First call without this to show payment details.",
			},
		},
		"required": []string{"invoice"},
	}
}

func (t *PayInvoiceTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Invoice   string `json:"invoice"`
		Confirmed bool   `json:"confirmed"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Invoice == "" {
		return "", fmt.Errorf("invoice is required")
	}

	// Decode first so the model can show the user what they are paying.
	decoded, err := t.wallet.DecodeInvoice(ctx, input.Invoice)
	if err != nil {
		return "", err
	}

	if !input.Confirmed {
		return strings.Join([]string{
			"PAYMENT REQUIRES CONFIRMATION",
			fmt.Sprintf("Amount: %s", describeBTCAmount(decoded.AmountBTC)),
			fmt.Sprintf("Description: %s", orDefault(decoded.Description, "none")),
			confirmationHint,
		}, "\n"), nil
	}

	txn, err := t.wallet.PayInvoice(ctx, input.Invoice)
	if err != nil {
		return "", err
	}
	settled, err := t.wallet.ConfirmTransaction(ctx, txn.TxnID)
	if err != nil {
		return "", fmt.Errorf("payment created but settlement failed for %s: %w", txn.TxnID, err)
	}

	return strings.Join([]string{
		"Payment Sent:",
		fmt.Sprintf("Amount: %s", describeBTCAmount(decoded.AmountBTC)),
		fmt.Sprintf("Transaction ID: %s", settled.TxnID),
		fmt.Sprintf("Status: %s", settled.TxnState),
		fmt.Sprintf("Fees: %v BTC", legFees(settled.SourceReq)),
	}, "\n"), nil
}

type SendToAddressTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewSendToAddressTool(wallet output.WalletPort, logger output.LoggerPort) *SendToAddressTool {
	return &SendToAddressTool{wallet: wallet, logger: logger}
}

func (t *SendToAddressTool) Name() entity.ToolName { return entity.ToolSendToAddress }
func (t *SendToAddressTool) Description() string {
	return "Send Bitcoin to a Lightning Address (user@domain.com). Lightning Addresses are like email addresses for Bitcoin."
}
func (t *SendToAddressTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"address": map[string]interface{}{
				"type":        "string",
				"description": "Lightning Address (e.g. alice@getalby.com)",
			},
			"amount_sats": map[string]interface{}{
				"type":        "number",
				"description": "Amount to send in satoshis",
			},
			"confirmed": map[string]interface{}{
				"type":        "boolean",
				"description": "Set to true only after the user has explicitly confirmed the payment.",
			},
		},
		"required": []string{"address", "amount_sats"},
	}
}

func (t *SendToAddressTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Address    string `json:"address"`
		AmountSats int64  `json:"amount_sats"`
		Confirmed  bool   `json:"confirmed"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Address == "" {
		return "", fmt.Errorf("address is required")
	}
	if input.AmountSats <= 0 {
		return "", fmt.Errorf("amount_sats must be a positive number of satoshis")
	}

	if !input.Confirmed {
		return strings.Join([]string{
			"PAYMENT REQUIRES CONFIRMATION",
			fmt.Sprintf("Recipient: %s", input.Address),
			fmt.Sprintf("Amount: %s", entity.FormatSatsWithBTC(input.AmountSats)),
			confirmationHint,
		}, "\n"), nil
	}

	txn, err := t.wallet.PayLightningAddress(ctx, input.Address, input.AmountSats)
	if err != nil {
		return "", err
	}
	settled, err := t.wallet.ConfirmTransaction(ctx, txn.TxnID)
	if err != nil {
		return "", fmt.Errorf("payment created but settlement failed for %s: %w", txn.TxnID, err)
	}

	return strings.Join([]string{
		fmt.Sprintf("Sent to %s:", input.Address),
		fmt.Sprintf("Amount: %s", entity.FormatSatsWithBTC(input.AmountSats)),
		fmt.Sprintf("Transaction ID: %s", settled.TxnID),
		fmt.Sprintf("Status: %s", settled.TxnState),
	}, "\n"), nil
}

func legFees(leg *output.TransactionLeg) float64 {
	if leg == nil {
		return 0
	}
	return leg.Fees
}
