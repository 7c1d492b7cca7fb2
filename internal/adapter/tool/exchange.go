package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

// featuredPairs are listed first when the backend reports them; anything
// else only shows up when none of these are present.
var featuredPairs = []string{"BTCUSD", "BTCUSDT", "BTCEUR", "BTCGBP", "BTCVND", "BTCCAD"}

type GetExchangeRateTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewGetExchangeRateTool(wallet output.WalletPort, logger output.LoggerPort) *GetExchangeRateTool {
	return &GetExchangeRateTool{wallet: wallet, logger: logger}
}

func (t *GetExchangeRateTool) Name() entity.ToolName { return entity.ToolGetExchangeRate }
func (t *GetExchangeRateTool) Description() string {
	return "Get current BTC exchange rates against USD, USDT, and other supported currencies."
}
func (t *GetExchangeRateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

func (t *GetExchangeRateTool) Execute(ctx context.Context, args string) (string, error) {
	rates, err := t.wallet.Rates(ctx)
	if err != nil {
		return "", err
	}
	if len(rates) == 0 {
		return "No exchange rates available.", nil
	}

	var lines []string
	for _, pair := range featuredPairs {
		if rate, ok := rates[pair]; ok {
			lines = append(lines, fmt.Sprintf("%s: %v", pair, rate))
		}
	}
	if len(lines) == 0 {
		pairs := make([]string, 0, len(rates))
		for pair := range rates {
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, pair := range pairs {
			lines = append(lines, fmt.Sprintf("%s: %v", pair, rates[pair]))
		}
	}
	return "Exchange Rates:\n" + strings.Join(lines, "\n"), nil
}

type ConvertCurrencyTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewConvertCurrencyTool(wallet output.WalletPort, logger output.LoggerPort) *ConvertCurrencyTool {
	return &ConvertCurrencyTool{wallet: wallet, logger: logger}
}

func (t *ConvertCurrencyTool) Name() entity.ToolName { return entity.ToolConvertCurrency }
func (t *ConvertCurrencyTool) Description() string {
	return "Convert between currencies in your wallet (e.g. BTC to USDT or USDT to BTC). Settles instantly."
}
func (t *ConvertCurrencyTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"from_currency": map[string]interface{}{
				"type":        "string",
				"description": "Source currency (e.g. BTC, USDT)",
			},
			"to_currency": map[string]interface{}{
				"type":        "string",
				"description": "Destination currency (e.g. USDT, BTC)",
			},
			"amount": map[string]interface{}{
				"type":        "number",
				"description": "Amount in the source currency (BTC amounts in BTC, not sats)",
			},
			"confirmed": map[string]interface{}{
				"type":        "boolean",
				"description": "Set to true only after the user has explicitly confirmed the conversion.",
			},
		},
		"required": []string{"from_currency", "to_currency", "amount"},
	}
}

func (t *ConvertCurrencyTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		FromCurrency string  `json:"from_currency"`
		ToCurrency   string  `json:"to_currency"`
		Amount       float64 `json:"amount"`
		Confirmed    bool    `json:"confirmed"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.FromCurrency == "" || input.ToCurrency == "" {
		return "", fmt.Errorf("from_currency and to_currency are required")
	}
	if input.Amount <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}

	if !input.Confirmed {
		return strings.Join([]string{
			"CONVERSION REQUIRES CONFIRMATION",
			fmt.Sprintf("From: %v %s", input.Amount, input.FromCurrency),
			fmt.Sprintf("To: %s", input.ToCurrency),
			confirmationHint,
		}, "\n"), nil
	}

	txn, err := t.wallet.CreateConversion(ctx, input.FromCurrency, input.ToCurrency, input.Amount)
	if err != nil {
		return "", err
	}
	settled, err := t.wallet.ConfirmTransaction(ctx, txn.TxnID)
	if err != nil {
		return "", fmt.Errorf("conversion created but settlement failed for %s: %w", txn.TxnID, err)
	}

	lines := []string{
		"Currency Conversion:",
		fmt.Sprintf("From: %v %s", input.Amount, input.FromCurrency),
	}
	if txn.DestReq != nil && txn.DestReq.AmtRequested > 0 {
		lines = append(lines, fmt.Sprintf("You'll receive: %v %s", txn.DestReq.AmtRequested, input.ToCurrency))
	}
	if txn.FxRate > 0 {
		lines = append(lines, fmt.Sprintf("Rate: %v", txn.FxRate))
	}
	lines = append(lines,
		fmt.Sprintf("Transaction ID: %s", settled.TxnID),
		fmt.Sprintf("Status: %s", settled.TxnState),
	)
	return strings.Join(lines, "\n"), nil
}
