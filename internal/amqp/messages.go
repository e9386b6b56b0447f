package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// DatasetImportedMessage announces that a new dataset was written to a
// writable backend. Dashboards pick it up on their next restart.
type DatasetImportedMessage struct {
	ImportID   string    `json:"import_id"`
	Backend    string    `json:"backend"`
	Source     string    `json:"source"`
	Records    int       `json:"records"`
	ImportedAt time.Time `json:"imported_at"`
}

func NewDatasetImportedMessage(importID, backend, source string, records int) *DatasetImportedMessage {
	return &DatasetImportedMessage{
		ImportID:   importID,
		Backend:    backend,
		Source:     source,
		Records:    records,
		ImportedAt: time.Now().UTC(),
	}
}

func (m *DatasetImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DatasetImportedMessageFromJSON(data []byte) (*DatasetImportedMessage, error) {
	var msg DatasetImportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ImportID == "" {
		return nil, errors.New("message has no import id")
	}
	return &msg, nil
}
