package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/ports"
	"temple/internal/render"
)

// BackupResult names the files a backup produced.
type BackupResult struct {
	Path      string             `json:"path"`
	SheetPath string             `json:"sheet_path,omitempty"`
	Summary   core.BackupSummary `json:"summary"`
}

// BackupService writes summary reports for a span of days.
type BackupService struct {
	store    ports.ReceiptStore
	renderer render.Renderer
	dir      string
	sheet    bool
	now      func() time.Time
	logger   *applog.Logger
}

// NewBackupService writes reports into dir. With sheet set, a spreadsheet
// copy is written next to each PDF.
func NewBackupService(store ports.ReceiptStore, renderer render.Renderer, dir string, sheet bool, opts ...Option) *BackupService {
	o := buildOptions(applog.ComponentBackup, opts)
	return &BackupService{
		store:    store,
		renderer: renderer,
		dir:      dir,
		sheet:    sheet,
		now:      o.now,
		logger:   o.logger,
	}
}

// Generate writes backup_<YYYY-MM-DD>_<HH-MM-SS>.pdf for the receipts issued
// within rng, listed in id order. An empty range still yields a report.
func (s *BackupService) Generate(ctx context.Context, rng core.DateRange) (BackupResult, error) {
	if err := rng.Validate(); err != nil {
		return BackupResult{}, err
	}

	receipts, err := s.store.ListReceipts(ctx, core.FilterForRange(rng), core.ByIDAscending)
	if err != nil {
		return BackupResult{}, fmt.Errorf("load receipts for backup: %w", err)
	}

	generatedAt := s.now()
	data := render.BackupData{
		Range:       rng,
		Summary:     core.Summarize(receipts),
		Rows:        core.NumberRows(receipts),
		GeneratedAt: generatedAt,
	}

	doc, err := s.renderer.Render(ctx, render.TemplateBackupPDF, data)
	if err != nil {
		s.logger.ErrorContext(ctx, "Backup rendering failed",
			applog.NewFields().WithError(err).WithOperation(applog.OpBackup).ToSlice()...)
		return BackupResult{}, fmt.Errorf("render backup: %w", err)
	}

	base := "backup_" + generatedAt.Format("2006-01-02_15-04-05")
	res := BackupResult{Path: filepath.Join(s.dir, base+".pdf"), Summary: data.Summary}
	if err := writeFile(res.Path, doc); err != nil {
		return BackupResult{}, fmt.Errorf("write backup: %w", err)
	}

	if s.sheet {
		// The PDF is the backup of record; a failed sheet is only logged.
		sheet, err := s.renderer.Render(ctx, render.TemplateBackupXLSX, data)
		if err == nil {
			path := filepath.Join(s.dir, base+".xlsx")
			if err = writeFile(path, sheet); err == nil {
				res.SheetPath = path
			}
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Backup spreadsheet not written", applog.FieldError, err)
		}
	}

	s.logger.InfoContext(ctx, "Backup generated",
		applog.FieldFrom, rng.From.String(),
		applog.FieldTo, rng.To.String(),
		applog.FieldCount, data.Summary.Count,
		applog.FieldFile, res.Path)
	return res, nil
}
