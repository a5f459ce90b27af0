package task

import (
	"encoding/json"
	"time"

	"cashback-ledger/pkg/taskname"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LedgerEventPayload describes one committed balance movement.
type LedgerEventPayload struct {
	EventID        string            `json:"event_id"`
	Type           string            `json:"type"`
	CustomerID     string            `json:"customer_id"`
	CounterpartyID string            `json:"counterparty_id,omitempty"`
	Amount         decimal.Decimal   `json:"amount"`
	Credited       decimal.Decimal   `json:"credited"`
	Reference      string            `json:"reference,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

func NewLedgerEventTask(p LedgerEventPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(p.Type, payload,
		asynq.Queue(taskname.QueueLedgerEvents),
		asynq.TaskID(p.Type+":"+p.EventID),
		asynq.MaxRetry(5)), nil
}

func ParseLedgerEvent(t *asynq.Task) (*LedgerEventPayload, error) {
	var p LedgerEventPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
