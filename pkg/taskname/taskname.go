package taskname

const (
	// Ledger events, published after the storage transaction commits
	TransactionRecorded = "ledger:transaction:recorded"
	TransferCompleted   = "ledger:transfer:completed"
	PayoutProcessed     = "ledger:payout:processed"
	GiftCardRedeemed    = "ledger:giftcard:redeemed"

	// Customer events
	CustomerRegistered = "customer:registered"
)

// Queues
const (
	QueueLedgerEvents = "ledger-events"
	QueueDefault      = "default"
)
