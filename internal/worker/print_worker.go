package worker

import (
	"context"
	"fmt"

	"temple/internal/amqp"
	applog "temple/internal/log"
	"temple/internal/printing"
)

// JobSource delivers queued print jobs.
type JobSource interface {
	ConsumePrintJobs(ctx context.Context, handler func(context.Context, *amqp.PrintJobMessage) error) error
}

// PrintWorker prints jobs published by the server, typically on the machine
// the printer is attached to.
type PrintWorker struct {
	source  JobSource
	printer printing.Consumer
	logger  *applog.Logger
}

func NewPrintWorker(source JobSource, printer printing.Consumer, logger *applog.Logger) *PrintWorker {
	return &PrintWorker{
		source:  source,
		printer: printer,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// Run consumes until ctx is done.
func (w *PrintWorker) Run(ctx context.Context) error {
	return w.source.ConsumePrintJobs(ctx, w.HandlePrintMessage)
}

// HandlePrintMessage prints one queued job. An error requeues it.
func (w *PrintWorker) HandlePrintMessage(ctx context.Context, msg *amqp.PrintJobMessage) error {
	w.logger.InfoContext(ctx, "Processing print job",
		applog.FieldJobID, msg.JobID,
		applog.FieldReceiptID, msg.ReceiptID,
		applog.FieldBytes, len(msg.Document))

	if err := w.printer.Print(ctx, printing.FromMessage(msg)); err != nil {
		return fmt.Errorf("print receipt %d: %w", msg.ReceiptID, err)
	}
	return nil
}
