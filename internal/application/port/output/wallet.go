package output

import (
	"context"

	"lightning-agent/internal/domain/entity"
)

// WalletPort covers the wallet backend operations the agent tools consume.
// One method per backend call; all amounts cross this boundary in the units
// the backend uses (satoshis for Lightning legs, BTC for wallet balances).
type WalletPort interface {
	// Authenticate establishes the backend session. Called once at startup;
	// every other operation fails until it succeeds.
	Authenticate(ctx context.Context) error

	// Read-only operations.
	Wallets(ctx context.Context) ([]Wallet, error)
	DecodeInvoice(ctx context.Context, invoice string) (*DecodedInvoice, error)
	Rates(ctx context.Context) (map[string]float64, error)
	Transactions(ctx context.Context, q TransactionQuery) ([]Transaction, error)
	Transaction(ctx context.Context, txnID string) (*Transaction, error)
	BTCDepositAddress(ctx context.Context) (*DepositAddress, error)
	USDTDepositAddress(ctx context.Context, chain string) (*DepositAddress, error)

	// Mutating operations. Every mutation returns a transaction that must
	// be settled with ConfirmTransaction before it takes effect.
	CreateInvoice(ctx context.Context, amountSats int64, memo string) (*Invoice, error)
	PayInvoice(ctx context.Context, invoice string) (*Transaction, error)
	PayLightningAddress(ctx context.Context, address string, amountSats int64) (*Transaction, error)
	CreateConversion(ctx context.Context, fromCcy, toCcy string, amount float64) (*Transaction, error)
	ConfirmTransaction(ctx context.Context, txnID string) (*Transaction, error)
}

type Wallet struct {
	Ccy              string  `json:"ccy"`
	Amount           float64 `json:"amount"`
	AvailableBalance float64 `json:"availableBalance"`
}

type Invoice struct {
	Invoice    string `json:"invoice"`
	TxnID      string `json:"txnId"`
	AmountSats int64  `json:"amountSats"`
	Status     string `json:"status"`
	QRPageURL  string `json:"qrPageUrl,omitempty"`
}

type DecodedInvoice struct {
	AmountBTC   float64 `json:"amount"`
	Description string  `json:"description"`
	Expiry      string  `json:"expiry"`
	Destination string  `json:"destination"`
	Status      string  `json:"status"`
}

type TransactionQuery struct {
	Limit  int
	Status string
}

type Transaction struct {
	TxnID     string          `json:"txnId"`
	TxnState  entity.TxnState `json:"txnState"`
	FxRate    float64         `json:"fxRate,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
	SourceReq *TransactionLeg `json:"sourceReq,omitempty"`
	DestReq   *TransactionLeg `json:"destReq,omitempty"`
}

type TransactionLeg struct {
	Ccy          string  `json:"ccy"`
	Method       string  `json:"method"`
	AmtRequested float64 `json:"amtRequested,omitempty"`
	Fees         float64 `json:"neutronpayFees,omitempty"`
}

type DepositAddress struct {
	Address string `json:"address"`
	Chain   string `json:"chain,omitempty"`
}
