package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/ports"
	"temple/internal/printing"
	"temple/internal/render"
)

// ReceiptService records receipts and produces their documents.
type ReceiptService struct {
	store       ports.ReceiptStore
	renderer    render.Renderer
	printer     printing.Consumer
	receiptsDir string
	now         func() time.Time
	logger      *applog.Logger
}

// Option adjusts a service after construction.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *applog.Logger
}

// WithClock replaces time.Now, e.g. to pin the timezone or in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for operation records.
func WithLogger(l *applog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(component string, opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = applog.New(applog.Config{Handler: slog.Default().Handler()})
	}
	o.logger = o.logger.WithComponent(component)
	return o
}

func NewReceiptService(store ports.ReceiptStore, renderer render.Renderer, printer printing.Consumer, receiptsDir string, opts ...Option) *ReceiptService {
	o := buildOptions(applog.ComponentReceipt, opts)
	if printer == nil {
		printer = printing.NopConsumer{}
	}
	return &ReceiptService{
		store:       store,
		renderer:    renderer,
		printer:     printer,
		receiptsDir: receiptsDir,
		now:         o.now,
		logger:      o.logger,
	}
}

// Create validates the input, stamps it with the current time and stores it.
// A blank payment mode is recorded as Cash.
func (s *ReceiptService) Create(ctx context.Context, in core.NewReceipt) (int64, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return 0, err
	}

	r := in.Receipt(s.now())
	id, err := s.store.CreateReceipt(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("save receipt: %w", err)
	}

	s.logger.InfoContext(ctx, "Receipt created",
		applog.NewFields().WithReceipt(id, r.PoojaName, r.Amount.Cents, string(r.PaymentMode)).WithOperation(applog.OpCreate).ToSlice()...)
	return id, nil
}

// List returns receipts matching f, newest first.
func (s *ReceiptService) List(ctx context.Context, f core.ReceiptFilter) ([]core.Receipt, error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From.Time) {
		return nil, core.Invalid("to", "is before from")
	}
	receipts, err := s.store.ListReceipts(ctx, f, core.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

func (s *ReceiptService) Get(ctx context.Context, id int64) (core.Receipt, error) {
	return s.store.GetReceipt(ctx, id)
}

// Delete reports whether exactly one receipt was removed. A missing id is
// not an error.
func (s *ReceiptService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.store.DeleteReceipt(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete receipt: %w", err)
	}
	if ok {
		s.logger.InfoContext(ctx, "Receipt deleted", applog.FieldReceiptID, id)
	}
	return ok, nil
}

// Reprint renders the receipt PDF and hands it to the print consumer.
// Nothing is persisted. The document is returned even when printing fails.
func (s *ReceiptService) Reprint(ctx context.Context, id int64) ([]byte, error) {
	r, doc, err := s.renderReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	job := printing.NewJob(r.ID, doc, printing.ContentTypePDF, s.now())
	if err := s.printer.Print(ctx, job); err != nil {
		return doc, fmt.Errorf("send receipt %d to printer: %w", r.ID, err)
	}

	s.logger.InfoContext(ctx, "Receipt sent to printer",
		applog.FieldReceiptID, r.ID, applog.FieldJobID, job.ID, applog.FieldBytes, len(doc))
	return doc, nil
}

// Export writes the receipt PDF under the receipts directory and returns its
// path. The file holds the same bytes Reprint sends to the printer.
func (s *ReceiptService) Export(ctx context.Context, id int64) (string, error) {
	r, doc, err := s.renderReceipt(ctx, id)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.receiptsDir, "receipt_"+strconv.FormatInt(r.ID, 10)+".pdf")
	if err := writeFile(path, doc); err != nil {
		return "", fmt.Errorf("write receipt %d: %w", r.ID, err)
	}

	s.logger.InfoContext(ctx, "Receipt exported", applog.FieldReceiptID, r.ID, applog.FieldFile, path)
	return path, nil
}

// Markup renders the on-screen print variant of the receipt.
func (s *ReceiptService) Markup(ctx context.Context, id int64) ([]byte, error) {
	r, err := s.store.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	html, err := s.renderer.Render(ctx, render.TemplateReceiptHTML, r)
	if err != nil {
		return nil, fmt.Errorf("render receipt %d markup: %w", id, err)
	}
	return html, nil
}

func (s *ReceiptService) renderReceipt(ctx context.Context, id int64) (core.Receipt, []byte, error) {
	r, err := s.store.GetReceipt(ctx, id)
	if err != nil {
		return core.Receipt{}, nil, err
	}
	doc, err := s.renderer.Render(ctx, render.TemplateReceiptPDF, r)
	if err != nil {
		s.logger.ErrorContext(ctx, "Receipt rendering failed",
			applog.NewFields().WithError(err).WithOperation(applog.OpRender).ToSlice()...)
		return core.Receipt{}, nil, fmt.Errorf("render receipt %d: %w", id, err)
	}
	return r, doc, nil
}
