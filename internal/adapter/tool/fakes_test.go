package tool

import (
	"context"
	"fmt"
	"strings"

	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                 {}
func (nopLogger) Info(msg string, args ...any)                  {}
func (nopLogger) Warn(msg string, args ...any)                  {}
func (nopLogger) Error(msg string, args ...any)                 {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (nopLogger) Close() error                                  { return nil }

// fakeWallet records every call so tests can assert which backend
// operations ran and in what order.
type fakeWallet struct {
	calls []string

	wallets []output.Wallet
	decoded *output.DecodedInvoice
	invoice *output.Invoice
	txn     *output.Transaction
	settled *output.Transaction
	rates   map[string]float64
	txns    []output.Transaction
	err     error
}

func (f *fakeWallet) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeWallet) Authenticate(ctx context.Context) error {
	f.record("Authenticate")
	return f.err
}

func (f *fakeWallet) Wallets(ctx context.Context) ([]output.Wallet, error) {
	f.record("Wallets")
	return f.wallets, f.err
}

func (f *fakeWallet) DecodeInvoice(ctx context.Context, invoice string) (*output.DecodedInvoice, error) {
	f.record("DecodeInvoice")
	if f.decoded == nil && f.err == nil {
		return nil, fmt.Errorf("no decode fixture")
	}
	return f.decoded, f.err
}

func (f *fakeWallet) Rates(ctx context.Context) (map[string]float64, error) {
	f.record("Rates")
	return f.rates, f.err
}

func (f *fakeWallet) Transactions(ctx context.Context, q output.TransactionQuery) ([]output.Transaction, error) {
	f.record(fmt.Sprintf("Transactions(limit=%d,status=%s)", q.Limit, q.Status))
	return f.txns, f.err
}

func (f *fakeWallet) Transaction(ctx context.Context, txnID string) (*output.Transaction, error) {
	f.record("Transaction:" + txnID)
	return f.txn, f.err
}

func (f *fakeWallet) BTCDepositAddress(ctx context.Context) (*output.DepositAddress, error) {
	f.record("BTCDepositAddress")
	return &output.DepositAddress{Address: "bc1qfixture"}, f.err
}

func (f *fakeWallet) USDTDepositAddress(ctx context.Context, chain string) (*output.DepositAddress, error) {
	f.record("USDTDepositAddress:" + chain)
	return &output.DepositAddress{Address: "TFixture", Chain: chain}, f.err
}

func (f *fakeWallet) CreateInvoice(ctx context.Context, amountSats int64, memo string) (*output.Invoice, error) {
	f.record(fmt.Sprintf("CreateInvoice(%d,%s)", amountSats, memo))
	return f.invoice, f.err
}

func (f *fakeWallet) PayInvoice(ctx context.Context, invoice string) (*output.Transaction, error) {
	f.record("PayInvoice")
	return f.txn, f.err
}

func (f *fakeWallet) PayLightningAddress(ctx context.Context, address string, amountSats int64) (*output.Transaction, error) {
	f.record(fmt.Sprintf("PayLightningAddress(%s,%d)", address, amountSats))
	return f.txn, f.err
}

func (f *fakeWallet) CreateConversion(ctx context.Context, fromCcy, toCcy string, amount float64) (*output.Transaction, error) {
	f.record(fmt.Sprintf("CreateConversion(%s,%s,%v)", fromCcy, toCcy, amount))
	return f.txn, f.err
}

func (f *fakeWallet) ConfirmTransaction(ctx context.Context, txnID string) (*output.Transaction, error) {
	f.record("ConfirmTransaction:" + txnID)
	return f.settled, f.err
}

var mutatingPrefixes = []string{
	"CreateInvoice(", "PayInvoice", "PayLightningAddress(",
	"CreateConversion(", "ConfirmTransaction:",
}

func (f *fakeWallet) mutationCalls() []string {
	var out []string
	for _, c := range f.calls {
		for _, p := range mutatingPrefixes {
			if strings.HasPrefix(c, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

var _ output.WalletPort = (*fakeWallet)(nil)
var _ output.LoggerPort = nopLogger{}

func settledTxn(id string) *output.Transaction {
	return &output.Transaction{
		TxnID:    id,
		TxnState: entity.TxnCompleted,
		SourceReq: &output.TransactionLeg{
			Ccy: "BTC", Method: "lightning", Fees: 0.00000002,
		},
	}
}
