package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

type CheckBalanceTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewCheckBalanceTool(wallet output.WalletPort, logger output.LoggerPort) *CheckBalanceTool {
	return &CheckBalanceTool{wallet: wallet, logger: logger}
}

func (t *CheckBalanceTool) Name() entity.ToolName { return entity.ToolCheckBalance }
func (t *CheckBalanceTool) Description() string {
	return "Check all wallet balances. Returns BTC, USDT, and any fiat currency balances with available amounts."
}
func (t *CheckBalanceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

func (t *CheckBalanceTool) Execute(ctx context.Context, args string) (string, error) {
	wallets, err := t.wallet.Wallets(ctx)
	if err != nil {
		return "", err
	}
	if len(wallets) == 0 {
		return "No wallets found.", nil
	}

	lines := make([]string, 0, len(wallets)+1)
	lines = append(lines, "Wallet Balances:")
	for _, w := range wallets {
		line := fmt.Sprintf("%s: %v (available: %v)", w.Ccy, w.Amount, w.AvailableBalance)
		if w.Ccy == "BTC" {
			line += fmt.Sprintf(" = %s", entity.FormatSats(entity.BTCToSats(w.Amount)))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

type GetDepositAddressTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewGetDepositAddressTool(wallet output.WalletPort, logger output.LoggerPort) *GetDepositAddressTool {
	return &GetDepositAddressTool{wallet: wallet, logger: logger}
}

func (t *GetDepositAddressTool) Name() entity.ToolName { return entity.ToolGetDepositAddress }
func (t *GetDepositAddressTool) Description() string {
	return "Get a Bitcoin on-chain deposit address or USDT deposit address to receive funds."
}
func (t *GetDepositAddressTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"currency": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"BTC", "USDT"},
				"description": "Currency to get deposit address for (default: BTC)",
			},
			"chain": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"TRON", "ETH"},
				"description": "For USDT only: blockchain to use (default: TRON)",
			},
		},
		"required": []string{},
	}
}

func (t *GetDepositAddressTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Currency string `json:"currency"`
		Chain    string `json:"chain"`
	}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &input); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
	}

	if input.Currency == "USDT" {
		chain := input.Chain
		if chain == "" {
			chain = "TRON"
		}
		addr, err := t.wallet.USDTDepositAddress(ctx, chain)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("USDT Deposit Address (%s):\n%s", addr.Chain, addr.Address), nil
	}

	addr, err := t.wallet.BTCDepositAddress(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Bitcoin Deposit Address:\n%s", addr.Address), nil
}
