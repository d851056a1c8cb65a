// Package render turns receipts and backup sets into printable documents.
package render

import (
	"context"
	"time"

	"temple/internal/core"
)

// Template names understood by Renderer implementations.
const (
	TemplateReceiptPDF  = "receipt.pdf"
	TemplateReceiptHTML = "receipt.html"
	TemplateBackupPDF   = "backup.pdf"
	TemplateBackupHTML  = "backup.html"
	TemplateBackupXLSX  = "backup.xlsx"
)

// Renderer produces a document from a named template. Receipt templates take
// a core.Receipt, backup templates a BackupData.
type Renderer interface {
	Render(ctx context.Context, template string, data any) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, template string, data any) ([]byte, error)

func (f RendererFunc) Render(ctx context.Context, template string, data any) ([]byte, error) {
	return f(ctx, template, data)
}

// BackupData is everything a backup report shows.
type BackupData struct {
	Range       core.DateRange
	Summary     core.BackupSummary
	Rows        []core.BackupRow
	GeneratedAt time.Time
}

// Letterhead is the fixed text printed on every document.
type Letterhead struct {
	TempleName   string
	AddressLines []string
	// ReportAddress is the single address line used on backup reports.
	ReportAddress string
	Blessing      string
}

func DefaultLetterhead() Letterhead {
	return Letterhead{
		TempleName: "ಶ್ರೀ ಸೌಂದರ್ಯ ವೆಂಕಟರಮಣ ಸ್ವಾಮಿ ದೇವಸ್ಥಾನ",
		AddressLines: []string{
			"ಜಿ.ಎನ್.ಇ ಕ್ಲಾಸ್, ಗೇಟ್ ಮೇನ್ ರಸ್ತೆ, ಸೌಂದರ್ಯ ನಗರ,",
			"ಸೀಡೆದಹಳ್ಳಿ, ನಾಗಸಂದ್ರ ಅಂಚೆ, ಬೆಂಗಳೂರು",
		},
		ReportAddress: "೧೨ನೇ ಅಡ್ಡ ರಸ್ತೆ, ೧ನೇ ಮುಖ್ಯ ರಸ್ತೆ, ಸೌಂದರ್ಯ ನಗರ, ಸಿಡೆದಹಳ್ಳಿ",
		Blessing:      "ನಿಮ್ಮ ಸೇವೆಗೆ ಶ್ರೀ ಸೌಂದರ್ಯ ವೆಂಕಟರಮಣನ ಆಶೀರ್ವಾದ ಸದಾ ಇರಲಿ",
	}
}

// Field labels.
const (
	labelReceiptNo   = "ರಸೀತಿ ಸಂಖ್ಯೆ:"
	labelDate        = "ದಿನಾಂಕ:"
	labelName        = "ಹೆಸರು:"
	labelAddress     = "ವಿಳಾಸ:"
	labelPooja       = "ಪೂಜೆ:"
	labelAmount      = "ಮೊತ್ತ:"
	labelPaymentMode = "ಪಾವತಿ ವಿಧಾನ:"

	labelTotalReceipts = "ಒಟ್ಟು ರಸೀದಿಗಳು"
	labelTotalAmount   = "ಒಟ್ಟು ಮೊತ್ತ"
	labelCash          = "ನಗದು"
	labelOnline        = "ಆನ್‌ಲೈನ್"
)

// backupColumns heads the backup table, left to right.
var backupColumns = []string{"ಕ್ರಮ ಸಂಖ್ಯೆ", "ದಿನಾಂಕ", "ಹೆಸರು", "ವಿಳಾಸ", "ಮೊತ್ತ", "ಪಾವತಿ ವಿಧಾನ"}
