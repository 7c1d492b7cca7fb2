package entity

type ToolName string

const (
	ToolCheckBalance      ToolName = "check_balance"
	ToolCreateInvoice     ToolName = "create_invoice"
	ToolPayInvoice        ToolName = "pay_invoice"
	ToolSendToAddress     ToolName = "send_to_address"
	ToolGetExchangeRate   ToolName = "get_exchange_rate"
	ToolListTransactions  ToolName = "list_transactions"
	ToolCheckTransaction  ToolName = "check_transaction"
	ToolDecodeInvoice     ToolName = "decode_invoice"
	ToolGetDepositAddress ToolName = "get_deposit_address"
	ToolConvertCurrency   ToolName = "convert_currency"
	ToolWaitForPayment    ToolName = "wait_for_payment"
)

func (t ToolName) String() string {
	return string(t)
}
