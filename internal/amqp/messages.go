package amqp

import (
	"encoding/json"
	"time"

	"eatsplit/internal/core"
)

// EventType doubles as the routing key on the topic exchange.
type EventType string

const (
	EventFriendAdded EventType = "friend.added"
	EventBillSettled EventType = "bill.settled"
)

// LedgerEvent is a notification about a ledger change. Consumers get the
// friend's balance after the change so they never need to query back.
type LedgerEvent struct {
	Type         EventType `json:"type"`
	FriendID     string    `json:"friend_id"`
	Name         string    `json:"name"`
	DeltaCents   int64     `json:"delta_cents"`
	BalanceCents int64     `json:"balance_cents"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewFriendAddedEvent(f core.Friend) *LedgerEvent {
	return &LedgerEvent{
		Type:         EventFriendAdded,
		FriendID:     f.ID,
		Name:         f.Name,
		BalanceCents: f.Balance.Cents,
		Timestamp:    time.Now().UTC(),
	}
}

// NewSettlementEvent describes a settlement; f carries the new balance.
func NewSettlementEvent(f core.Friend, delta core.Money) *LedgerEvent {
	return &LedgerEvent{
		Type:         EventBillSettled,
		FriendID:     f.ID,
		Name:         f.Name,
		DeltaCents:   delta.Cents,
		BalanceCents: f.Balance.Cents,
		Timestamp:    time.Now().UTC(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
