package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

type CreateInvoiceTool struct {
	wallet output.WalletPort
	logger output.LoggerPort

	// defaultAmountSats is used when the model omits amount_sats and the
	// operator configured a default task price. Zero disables the fallback.
	defaultAmountSats int64
}

func NewCreateInvoiceTool(wallet output.WalletPort, logger output.LoggerPort, defaultAmountSats int64) *CreateInvoiceTool {
	return &CreateInvoiceTool{wallet: wallet, logger: logger, defaultAmountSats: defaultAmountSats}
}

func (t *CreateInvoiceTool) Name() entity.ToolName { return entity.ToolCreateInvoice }
func (t *CreateInvoiceTool) Description() string {
	return "Create a Lightning invoice to receive Bitcoin. Returns a BOLT11 payment string and QR code page URL. The invoice is auto-confirmed and ready for the payer immediately."
}
func (t *CreateInvoiceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"amount_sats": map[string]interface{}{
				"type":        "number",
				"description": "Amount to receive in satoshis (e.g. 10000 = 10,000 sats)",
			},
			"memo": map[string]interface{}{
				"type":        "string",
				"description": "Description shown to the payer (e.g. 'Coffee order #42')",
			},
		},
		"required": []string{"amount_sats"},
	}
}

func (t *CreateInvoiceTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		AmountSats int64  `json:"amount_sats"`
		Memo       string `json:"memo"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.AmountSats <= 0 {
		if t.defaultAmountSats <= 0 {
			return "", fmt.Errorf("amount_sats must be a positive number of satoshis")
		}
		input.AmountSats = t.defaultAmountSats
	}

	invoice, err := t.wallet.CreateInvoice(ctx, input.AmountSats, input.Memo)
	if err != nil {
		return "", err
	}

	qr := invoice.QRPageURL
	if qr == "" {
		qr = "N/A"
	}
	return strings.Join([]string{
		"Lightning Invoice Created:",
		fmt.Sprintf("Amount: %s", entity.FormatSatsWithBTC(invoice.AmountSats)),
		fmt.Sprintf("Invoice: %s", invoice.Invoice),
		fmt.Sprintf("QR Page: %s", qr),
		fmt.Sprintf("Transaction ID: %s", invoice.TxnID),
		fmt.Sprintf("Status: %s", invoice.Status),
	}, "\n"), nil
}

type DecodeInvoiceTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewDecodeInvoiceTool(wallet output.WalletPort, logger output.LoggerPort) *DecodeInvoiceTool {
	return &DecodeInvoiceTool{wallet: wallet, logger: logger}
}

func (t *DecodeInvoiceTool) Name() entity.ToolName { return entity.ToolDecodeInvoice }
func (t *DecodeInvoiceTool) Description() string {
	return "Decode and inspect a Lightning invoice before paying it. Shows amount, expiry, and destination."
}
func (t *DecodeInvoiceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"invoice": map[string]interface{}{
				"type":        "string",
				"description": "BOLT11 invoice string to decode",
			},
		},
		"required": []string{"invoice"},
	}
}

func (t *DecodeInvoiceTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Invoice string `json:"invoice"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Invoice == "" {
		return "", fmt.Errorf("invoice is required")
	}

	decoded, err := t.wallet.DecodeInvoice(ctx, input.Invoice)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		"Invoice Details:",
		fmt.Sprintf("Amount: %s", describeBTCAmount(decoded.AmountBTC)),
		fmt.Sprintf("Description: %s", orDefault(decoded.Description, "none")),
		fmt.Sprintf("Expiry: %s", orDefault(decoded.Expiry, "unknown")),
		fmt.Sprintf("Destination: %s", orDefault(decoded.Destination, "unknown")),
		fmt.Sprintf("Status: %s", orDefault(decoded.Status, "unknown")),
	}, "\n"), nil
}

func describeBTCAmount(btc float64) string {
	if btc <= 0 {
		return "encoded in invoice"
	}
	return entity.FormatSatsWithBTC(entity.BTCToSats(btc))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
