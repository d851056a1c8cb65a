package render

import (
	"context"
	"fmt"
	"html/template"

	"temple/internal/core"
	applog "temple/internal/log"
)

// Engine renders every template in-process.
type Engine struct {
	assets     *Assets
	letterhead Letterhead
	html       *template.Template
	logger     *applog.Logger
}

func NewEngine(assets *Assets, letterhead Letterhead, logger *applog.Logger) (*Engine, error) {
	html, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Engine{
		assets:     assets,
		letterhead: letterhead,
		html:       html,
		logger:     logger.WithComponent(applog.ComponentRender),
	}, nil
}

// Render implements Renderer. Every failure matches core.ErrRendering.
func (e *Engine) Render(ctx context.Context, name string, data any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, renderingError(name, err)
	}

	var (
		out []byte
		err error
	)
	switch name {
	case TemplateReceiptPDF, TemplateReceiptHTML:
		r, ok := receiptOf(data)
		if !ok {
			return nil, renderingError(name, fmt.Errorf("unexpected data %T", data))
		}
		if name == TemplateReceiptPDF {
			out, err = e.receiptPDF(r)
		} else {
			out, err = e.receiptHTML(r)
		}
	case TemplateBackupPDF, TemplateBackupHTML, TemplateBackupXLSX:
		d, ok := backupOf(data)
		if !ok {
			return nil, renderingError(name, fmt.Errorf("unexpected data %T", data))
		}
		switch name {
		case TemplateBackupPDF:
			out, err = e.backupPDF(d)
		case TemplateBackupHTML:
			out, err = e.backupHTML(d)
		default:
			out, err = e.backupSheet(d)
		}
	default:
		return nil, renderingError(name, fmt.Errorf("unknown template"))
	}
	if err != nil {
		return nil, renderingError(name, err)
	}

	e.logger.DebugContext(ctx, "Document rendered", applog.FieldTemplate, name, applog.FieldBytes, len(out))
	return out, nil
}

func renderingError(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", core.ErrRendering, name, err)
}

func receiptOf(data any) (core.Receipt, bool) {
	switch v := data.(type) {
	case core.Receipt:
		return v, true
	case *core.Receipt:
		if v != nil {
			return *v, true
		}
	}
	return core.Receipt{}, false
}

func backupOf(data any) (BackupData, bool) {
	switch v := data.(type) {
	case BackupData:
		return v, true
	case *BackupData:
		if v != nil {
			return *v, true
		}
	}
	return BackupData{}, false
}
