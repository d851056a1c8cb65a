package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// PrintJobMessage carries a rendered receipt to a print worker. Document is
// base64 encoded in JSON.
type PrintJobMessage struct {
	JobID       string    `json:"job_id"`
	ReceiptID   int64     `json:"receipt_id"`
	ContentType string    `json:"content_type"`
	Document    []byte    `json:"document"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate rejects messages a worker cannot print.
func (m *PrintJobMessage) Validate() error {
	switch {
	case m.JobID == "":
		return errors.New("print job without id")
	case len(m.Document) == 0:
		return errors.New("print job without document")
	}
	return nil
}

func (m *PrintJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PrintJobMessageFromJSON decodes and validates a message body.
func PrintJobMessageFromJSON(data []byte) (*PrintJobMessage, error) {
	var msg PrintJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
