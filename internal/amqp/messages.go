package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// DatasetImportedMessage announces a new snapshot in the SQLite store.
// Consumers reload the dataset; the rows themselves stay in the database.
type DatasetImportedMessage struct {
	ImportID  string    `json:"import_id"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDatasetImportedMessage creates a message stamped with the current time.
func NewDatasetImportedMessage(importID, source string, rows int) *DatasetImportedMessage {
	return &DatasetImportedMessage{
		ImportID:  importID,
		Source:    source,
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetImportedMessageFromJSON decodes a message and checks it names an import.
func DatasetImportedMessageFromJSON(data []byte) (*DatasetImportedMessage, error) {
	var msg DatasetImportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ImportID == "" {
		return nil, errors.New("message has no import_id")
	}
	return &msg, nil
}
