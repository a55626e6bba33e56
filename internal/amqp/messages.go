package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by transaction events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEventMessage tells the alert worker that a user's ledger changed
// in some month. It carries only identifiers; the worker fetches the current
// state from the database, so stale or replayed events are harmless.
type TransactionEventMessage struct {
	TransactionID int64     `json:"transactionId"`
	UserID        int64     `json:"userId"`
	YearMonth     string    `json:"yearMonth"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(txID, userID int64, yearMonth, action string) *TransactionEventMessage {
	return &TransactionEventMessage{
		TransactionID: txID,
		UserID:        userID,
		YearMonth:     yearMonth,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
