package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by an operation-changed message.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// OperationChangedMessage tells the aggregation worker which user-month to
// recompute. It carries coordinates only; the worker reads the operations
// from the database, so a stale message is harmless.
type OperationChangedMessage struct {
	OperationID string    `json:"operation_id"`
	UserID      string    `json:"user_id"`
	Month       string    `json:"month"` // YYYY-MM
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewOperationChangedMessage(operationID, userID, month, action string) *OperationChangedMessage {
	return &OperationChangedMessage{
		OperationID: operationID,
		UserID:      userID,
		Month:       month,
		Action:      action,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *OperationChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func OperationChangedMessageFromJSON(data []byte) (*OperationChangedMessage, error) {
	var msg OperationChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
