package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidEvent = errors.New("invalid change event")

// ChangeEvent announces that the ledger snapshot changed. It carries no
// transaction data; consumers load the snapshot from the shared store.
type ChangeEvent struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transactionId,omitempty"`
	Revision      uint64    `json:"revision"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewChangeEvent(kind, transactionID string, revision uint64) *ChangeEvent {
	return &ChangeEvent{
		Kind:          kind,
		TransactionID: transactionID,
		Revision:      revision,
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ChangeEventFromJSON decodes an event and rejects one without a kind.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Kind == "" {
		return nil, ErrInvalidEvent
	}
	return &ev, nil
}
