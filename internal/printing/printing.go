// Package printing delivers rendered receipts to a printer.
package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const ContentTypePDF = "application/pdf"

// Job is one document to print.
type Job struct {
	ID          string
	ReceiptID   int64
	Document    []byte
	ContentType string
	CreatedAt   time.Time
}

// NewJob stamps a document with a fresh job id.
func NewJob(receiptID int64, doc []byte, contentType string, now time.Time) Job {
	return Job{
		ID:          uuid.NewString(),
		ReceiptID:   receiptID,
		Document:    doc,
		ContentType: contentType,
		CreatedAt:   now,
	}
}

// Consumer accepts print jobs.
type Consumer interface {
	Print(ctx context.Context, job Job) error
}

// NopConsumer discards jobs. Used when printing is disabled.
type NopConsumer struct{}

func (NopConsumer) Print(context.Context, Job) error { return nil }
