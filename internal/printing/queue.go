package printing

import (
	"context"

	"temple/internal/amqp"
)

// Publisher is the part of the AMQP client QueueConsumer uses.
type Publisher interface {
	PublishPrintJob(ctx context.Context, msg *amqp.PrintJobMessage) error
}

// QueueConsumer hands jobs to a print worker through the message queue.
type QueueConsumer struct {
	publisher Publisher
}

func NewQueueConsumer(p Publisher) *QueueConsumer {
	return &QueueConsumer{publisher: p}
}

func (q *QueueConsumer) Print(ctx context.Context, job Job) error {
	return q.publisher.PublishPrintJob(ctx, ToMessage(job))
}

// ToMessage converts a job to its queue form.
func ToMessage(job Job) *amqp.PrintJobMessage {
	return &amqp.PrintJobMessage{
		JobID:       job.ID,
		ReceiptID:   job.ReceiptID,
		ContentType: job.ContentType,
		Document:    job.Document,
		CreatedAt:   job.CreatedAt,
	}
}

// FromMessage converts a queued message back to a job.
func FromMessage(msg *amqp.PrintJobMessage) Job {
	return Job{
		ID:          msg.JobID,
		ReceiptID:   msg.ReceiptID,
		ContentType: msg.ContentType,
		Document:    msg.Document,
		CreatedAt:   msg.CreatedAt,
	}
}
