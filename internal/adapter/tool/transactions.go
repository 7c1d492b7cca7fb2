package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

const defaultTxnLimit = 10

type ListTransactionsTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewListTransactionsTool(wallet output.WalletPort, logger output.LoggerPort) *ListTransactionsTool {
	return &ListTransactionsTool{wallet: wallet, logger: logger}
}

func (t *ListTransactionsTool) Name() entity.ToolName { return entity.ToolListTransactions }
func (t *ListTransactionsTool) Description() string {
	return "List recent transactions. Shows payment history with status, amounts, and methods."
}
func (t *ListTransactionsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Number of transactions to return (default: 10)",
			},
			"status": map[string]interface{}{
				"type":        "string",
				"description": "Filter by status: completed, pending, failed, expired",
			},
		},
		"required": []string{},
	}
}

func (t *ListTransactionsTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Limit  int    `json:"limit"`
		Status string `json:"status"`
	}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &input); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if input.Limit <= 0 {
		input.Limit = defaultTxnLimit
	}

	txns, err := t.wallet.Transactions(ctx, output.TransactionQuery{
		Limit:  input.Limit,
		Status: input.Status,
	})
	if err != nil {
		return "", err
	}
	if len(txns) == 0 {
		return "No transactions found.", nil
	}

	lines := make([]string, 0, len(txns)+1)
	lines = append(lines, "Recent Transactions:")
	for _, txn := range txns {
		lines = append(lines, fmt.Sprintf("[%s] %s → %s | %v | %s",
			txn.TxnState, describeLeg(txn.SourceReq), describeLeg(txn.DestReq),
			legAmount(txn), shortID(txn.TxnID)))
	}
	return strings.Join(lines, "\n"), nil
}

type CheckTransactionTool struct {
	wallet output.WalletPort
	logger output.LoggerPort
}

func NewCheckTransactionTool(wallet output.WalletPort, logger output.LoggerPort) *CheckTransactionTool {
	return &CheckTransactionTool{wallet: wallet, logger: logger}
}

func (t *CheckTransactionTool) Name() entity.ToolName { return entity.ToolCheckTransaction }
func (t *CheckTransactionTool) Description() string {
	return "Check the status of a specific transaction by its ID."
}
func (t *CheckTransactionTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"txn_id": map[string]interface{}{
				"type":        "string",
				"description": "Transaction ID to check",
			},
		},
		"required": []string{"txn_id"},
	}
}

func (t *CheckTransactionTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		TxnID string `json:"txn_id"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.TxnID == "" {
		return "", fmt.Errorf("txn_id is required")
	}

	txn, err := t.wallet.Transaction(ctx, input.TxnID)
	if err != nil {
		return "", err
	}

	return strings.Join([]string{
		fmt.Sprintf("Transaction %s:", input.TxnID),
		fmt.Sprintf("Status: %s", txn.TxnState),
		fmt.Sprintf("Source: %s", describeLeg(txn.SourceReq)),
		fmt.Sprintf("Destination: %s", describeLeg(txn.DestReq)),
		fmt.Sprintf("Amount: %v", legAmount(*txn)),
		fmt.Sprintf("Created: %s", orDefault(txn.CreatedAt, "N/A")),
	}, "\n"), nil
}

func describeLeg(leg *output.TransactionLeg) string {
	if leg == nil {
		return "? (?)"
	}
	return fmt.Sprintf("%s (%s)", orDefault(leg.Ccy, "?"), orDefault(leg.Method, "?"))
}

func legAmount(txn output.Transaction) interface{} {
	if txn.SourceReq != nil && txn.SourceReq.AmtRequested > 0 {
		return txn.SourceReq.AmtRequested
	}
	if txn.DestReq != nil && txn.DestReq.AmtRequested > 0 {
		return txn.DestReq.AmtRequested
	}
	return "?"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
