package report

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/ports"
)

// Stats are the dashboard figures, formatted for display. When any of them
// cannot be computed all three read core.Unavailable.
type Stats struct {
	Receipts string         `json:"receipts"`
	Amount   string         `json:"amount"`
	Poojas   string         `json:"poojas"`
	Range    core.DateRange `json:"range"`
}

func unavailable(rng core.DateRange) Stats {
	return Stats{Receipts: core.Unavailable, Amount: core.Unavailable, Poojas: core.Unavailable, Range: rng}
}

type Dashboard struct {
	receipts ports.ReceiptStore
	poojas   ports.PoojaStore
	logger   *applog.Logger
}

func NewDashboard(receipts ports.ReceiptStore, poojas ports.PoojaStore, logger *applog.Logger) *Dashboard {
	if logger == nil {
		logger = applog.New(applog.Config{Handler: slog.Default().Handler()})
	}
	return &Dashboard{receipts: receipts, poojas: poojas, logger: logger.WithComponent(applog.ComponentReport)}
}

// Stats counts and totals the receipts in rng and counts the whole pooja
// catalog. The error is returned alongside the unavailable figures.
func (d *Dashboard) Stats(ctx context.Context, rng core.DateRange) (Stats, error) {
	if err := rng.Validate(); err != nil {
		return unavailable(rng), err
	}

	var (
		summary core.BackupSummary
		poojas  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := d.receipts.SummarizeReceipts(gctx, core.FilterForRange(rng))
		if err != nil {
			return fmt.Errorf("summarize receipts: %w", err)
		}
		summary = s
		return nil
	})
	g.Go(func() error {
		n, err := d.poojas.CountPoojas(gctx)
		if err != nil {
			return fmt.Errorf("count poojas: %w", err)
		}
		poojas = n
		return nil
	})
	if err := g.Wait(); err != nil {
		d.logger.ErrorContext(ctx, "Dashboard figures unavailable", applog.FieldError, err)
		return unavailable(rng), err
	}

	return Stats{
		Receipts: core.FormatCount(summary.Count),
		Amount:   core.FormatAmount(summary.Total),
		Poojas:   core.FormatCount(poojas),
		Range:    rng,
	}, nil
}
