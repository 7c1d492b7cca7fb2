package entity

// TxnState mirrors the transaction lifecycle reported by the wallet backend.
type TxnState string

const (
	TxnCompleted TxnState = "completed"
	TxnPending   TxnState = "pending"
	TxnFailed    TxnState = "failed"
	TxnExpired   TxnState = "expired"

	// TxnWaitTimeout is synthesized locally when a registered waiter
	// expires before the backend reports a terminal state.
	TxnWaitTimeout TxnState = "wait_timeout"
)

// PaymentEvent is a webhook notification about a transaction state change.
// Raw keeps any extra fields the backend sent alongside the known ones.
type PaymentEvent struct {
	TxnID    string                 `json:"txnId"`
	TxnState TxnState               `json:"txnState"`
	ExtRefID string                 `json:"extRefId,omitempty"`
	Raw      map[string]interface{} `json:"-"`
}

func (e PaymentEvent) Completed() bool {
	return e.TxnState == TxnCompleted
}
