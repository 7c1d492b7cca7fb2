package tool

import (
	"context"
	"testing"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactions_DefaultLimit(t *testing.T) {
	wallet := &fakeWallet{
		txns: []output.Transaction{
			{
				TxnID:    "txn-aaaa-bbbb-cccc",
				TxnState: entity.TxnCompleted,
				SourceReq: &output.TransactionLeg{
					Ccy: "BTC", Method: "lightning", AmtRequested: 0.0001,
				},
				DestReq: &output.TransactionLeg{Ccy: "BTC", Method: "lightning"},
			},
		},
	}
	tl := NewListTransactionsTool(wallet, nopLogger{})

	out, err := tl.Execute(context.Background(), "{}")
	require.NoError(t, err)

	assert.Equal(t, []string{"Transactions(limit=10,status=)"}, wallet.calls)
	assert.Contains(t, out, "Recent Transactions:")
	assert.Contains(t, out, "[completed] BTC (lightning) → BTC (lightning)")
	assert.Contains(t, out, "txn-aaaa...")
}

func TestListTransactions_StatusFilter(t *testing.T) {
	wallet := &fakeWallet{}
	tl := NewListTransactionsTool(wallet, nopLogger{})

	out, err := tl.Execute(context.Background(), `{"limit":3,"status":"pending"}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"Transactions(limit=3,status=pending)"}, wallet.calls)
	assert.Equal(t, "No transactions found.", out)
}

func TestCheckTransaction(t *testing.T) {
	wallet := &fakeWallet{
		txn: &output.Transaction{
			TxnID:    "txn-42",
			TxnState: entity.TxnPending,
			SourceReq: &output.TransactionLeg{
				Ccy: "BTC", Method: "lightning", AmtRequested: 0.0005,
			},
		},
	}
	tl := NewCheckTransactionTool(wallet, nopLogger{})

	out, err := tl.Execute(context.Background(), `{"txn_id":"txn-42"}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"Transaction:txn-42"}, wallet.calls)
	assert.Contains(t, out, "Transaction txn-42:")
	assert.Contains(t, out, "Status: pending")
	assert.Contains(t, out, "Source: BTC (lightning)")
	assert.Contains(t, out, "Destination: ? (?)")
	assert.Contains(t, out, "Amount: 0.0005")
	assert.Contains(t, out, "Created: N/A")
}

func TestCheckTransaction_RequiresID(t *testing.T) {
	wallet := &fakeWallet{}
	tl := NewCheckTransactionTool(wallet, nopLogger{})

	_, err := tl.Execute(context.Background(), "{}")
	assert.ErrorContains(t, err, "txn_id is required")
	assert.Empty(t, wallet.calls)
}
