package tool

import (
	"context"
	"testing"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestConvertCurrency_WithoutConfirmation_NoMutation(t *testing.T) {
	wallet := &fakeWallet{}
	tool := NewConvertCurrencyTool(wallet, nopLogger{})

	result, err := tool.Execute(context.Background(), `{"from_currency":"BTC","to_currency":"USDT","amount":0.001}`)

	assert.NoError(t, err)
	assert.Contains(t, result, "CONVERSION REQUIRES CONFIRMATION")
	assert.Contains(t, result, "0.001 BTC")
	assert.Empty(t, wallet.calls)
}

func TestConvertCurrency_Confirmed_CreatesThenSettles(t *testing.T) {
	wallet := &fakeWallet{
		txn: &output.Transaction{
			TxnID:    "txn-3",
			TxnState: entity.TxnPending,
			FxRate:   96500,
			DestReq:  &output.TransactionLeg{Ccy: "USDT", AmtRequested: 96.5},
		},
		settled: settledTxn("txn-3"),
	}
	tool := NewConvertCurrencyTool(wallet, nopLogger{})

	result, err := tool.Execute(context.Background(), `{"from_currency":"BTC","to_currency":"USDT","amount":0.001,"confirmed":true}`)

	assert.NoError(t, err)
	assert.Contains(t, result, "Currency Conversion:")
	assert.Contains(t, result, "You'll receive: 96.5 USDT")
	assert.Contains(t, result, "Rate: 96500")
	assert.Equal(t,
		[]string{"CreateConversion(BTC,USDT,0.001)", "ConfirmTransaction:txn-3"},
		wallet.mutationCalls())
}

func TestGetExchangeRate_FeaturedPairsFirst(t *testing.T) {
	wallet := &fakeWallet{rates: map[string]float64{
		"BTCUSD": 96500,
		"BTCJPY": 14000000,
	}}
	tool := NewGetExchangeRateTool(wallet, nopLogger{})

	result, err := tool.Execute(context.Background(), "")

	assert.NoError(t, err)
	assert.Contains(t, result, "BTCUSD: 96500")
	assert.NotContains(t, result, "BTCJPY")
}

func TestGetExchangeRate_FallsBackToAnyPairs(t *testing.T) {
	wallet := &fakeWallet{rates: map[string]float64{"BTCJPY": 14000000}}
	tool := NewGetExchangeRateTool(wallet, nopLogger{})

	result, err := tool.Execute(context.Background(), "")

	assert.NoError(t, err)
	assert.Contains(t, result, "BTCJPY: 1.4e+07")
}
