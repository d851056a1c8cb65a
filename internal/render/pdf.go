package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"temple/internal/core"
)

// Receipt page geometry, in points.
const (
	receiptMargin = 40.0
	iconSize      = 44.0
	symbolsWidth  = 70.0
	labelWidth    = 110.0
	fieldHeight   = 16.0

	reportMargin  = 30.0
	reportLine    = 12.0
	reportPadding = 3.0

	// pixelsPerPoint is the resolution images are embedded at.
	pixelsPerPoint = 4
	unicodeFamily  = "NotoSansKannada"
)

// reportWidths are the backup table column widths; they fill an A4 page
// inside reportMargin.
var reportWidths = []float64{50, 105, 120, 130, 65, 65}

// typesetter picks a font per string. ASCII text is set in Helvetica and
// anything else in the Unicode font when one is loaded. Without it non-ASCII
// characters print as '?'.
type typesetter struct {
	pdf     *fpdf.Fpdf
	unicode bool
}

func (e *Engine) newDocument(orientation, size string, margin float64) (*fpdf.Fpdf, *typesetter) {
	pdf := fpdf.New(orientation, "pt", size, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCatalogSort(true)

	ts := &typesetter{pdf: pdf}
	if font, ok := e.assets.Font(KannadaFont); ok {
		pdf.AddUTF8FontFromBytes(unicodeFamily, "", font)
		if pdf.Err() {
			e.logger.Warn("Kannada font rejected, using Helvetica", "error", pdf.Error())
			pdf.ClearError()
		} else {
			ts.unicode = true
		}
	}
	return pdf, ts
}

// use selects the font for s at size and returns s ready for output.
func (t *typesetter) use(s string, size float64) string {
	if t.unicode && !isASCII(s) {
		t.pdf.SetFont(unicodeFamily, "", size)
		return s
	}
	t.pdf.SetFont("Helvetica", "", size)
	return asciiOnly(s)
}

// currency is the rupee sign, or "Rs." when no font can draw it.
func (t *typesetter) currency() string {
	if t.unicode {
		return "₹"
	}
	return "Rs."
}

// asciiOnly replaces what the core fonts cannot encode. fpdf measures core
// font text per rune, so only ASCII is safe here.
func asciiOnly(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func (e *Engine) placeImage(pdf *fpdf.Fpdf, name string, x, y, w, h float64) {
	png, _ := e.assets.Image(name, int(w)*pixelsPerPoint, int(h)*pixelsPerPoint)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func rule(pdf *fpdf.Fpdf, x, y, width float64) {
	pdf.SetLineWidth(2)
	pdf.Line(x, y, x+width, y)
	pdf.SetLineWidth(0.5)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// receiptPDF lays out a single receipt on an A5 portrait page.
func (e *Engine) receiptPDF(r core.Receipt) ([]byte, error) {
	pdf, ts := e.newDocument("P", "A5", receiptMargin)
	pdf.SetTitle(fmt.Sprintf("Receipt %d", r.ID), false)
	if !r.IssuedAt.IsZero() {
		pdf.SetCreationDate(r.IssuedAt)
		pdf.SetModificationDate(r.IssuedAt)
	}
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left := receiptMargin
	width := pageW - 2*receiptMargin
	lh := e.letterhead

	iconY := receiptMargin
	e.placeImage(pdf, SetLogo, left+10, iconY, iconSize, iconSize)
	e.placeImage(pdf, Symbols, left+width/2-symbolsWidth/2, iconY, symbolsWidth, iconSize)
	e.placeImage(pdf, TempleLogo, left+width-iconSize-10, iconY, iconSize, iconSize)

	pdf.SetXY(left, iconY+iconSize+4)
	pdf.MultiCell(width, 22, ts.use(lh.TempleName, 18), "", "C", false)
	for _, line := range lh.AddressLines {
		pdf.SetX(left)
		pdf.MultiCell(width, 14, ts.use(line, 11), "", "C", false)
	}

	y := pdf.GetY() + 8
	rule(pdf, left, y, width)
	y += 12

	startX := left + 10
	pdf.SetXY(startX, y)
	pdf.CellFormat(72, fieldHeight, ts.use(labelReceiptNo, 12), "", 0, "L", false, 0, "")
	pdf.CellFormat(58, fieldHeight, ts.use(strconv.FormatInt(r.ID, 10), 12), "", 0, "L", false, 0, "")
	pdf.CellFormat(50, fieldHeight, ts.use(labelDate, 12), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, fieldHeight, ts.use(core.FormatDisplay(r.IssuedAt), 11), "", 1, "L", false, 0, "")
	y = pdf.GetY() + 6

	valueW := width - 10 - labelWidth
	fields := []struct{ label, value string }{
		{labelName, r.DevoteeName},
		{labelAddress, r.Address},
		{labelPooja, r.PoojaName},
		{labelAmount, ts.currency() + core.FormatAmountPlain(r.Amount)},
		{labelPaymentMode, string(r.PaymentMode)},
	}
	for _, f := range fields {
		pdf.SetXY(startX, y)
		pdf.CellFormat(labelWidth, fieldHeight, ts.use(f.label, 12), "", 0, "L", false, 0, "")
		if f.value == "" {
			pdf.CellFormat(valueW, fieldHeight, "", "", 1, "L", false, 0, "")
		} else {
			pdf.MultiCell(valueW, fieldHeight, ts.use(f.value, 12), "", "L", false)
		}
		y = pdf.GetY() + 6
	}

	y += 10
	rule(pdf, left, y, width)

	pdf.SetXY(left, y+18)
	pdf.MultiCell(width, 14, ts.use(lh.Blessing, 11), "", "C", false)

	return output(pdf)
}

// backupPDF lays out the summary and receipt table on A4 pages, repeating
// the table header on each page.
func (e *Engine) backupPDF(d BackupData) ([]byte, error) {
	pdf, ts := e.newDocument("P", "A4", reportMargin)
	pdf.SetTitle("Backup "+d.Range.From.String()+" to "+d.Range.To.String(), false)
	if !d.GeneratedAt.IsZero() {
		pdf.SetCreationDate(d.GeneratedAt)
		pdf.SetModificationDate(d.GeneratedAt)
	}
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	left := reportMargin
	width := pageW - 2*reportMargin
	lh := e.letterhead

	pdf.SetXY(left, reportMargin)
	pdf.MultiCell(width, 24, ts.use(lh.TempleName, 18), "", "C", false)
	pdf.SetX(left)
	pdf.MultiCell(width, 14, ts.use(lh.ReportAddress, 11), "", "C", false)
	pdf.Ln(12)

	for _, line := range summaryLines(d.Summary, ts.currency()) {
		pdf.SetX(left)
		pdf.MultiCell(width, 16, ts.use(line.Label+": "+line.Value, 11), "", "L", false)
	}

	y := pdf.GetY() + 12
	pdf.SetDrawColor(0xdd, 0xdd, 0xdd)
	pdf.SetFillColor(0xf5, 0xf5, 0xf5)
	y = tableRow(pdf, ts, left, y, backupColumns, true)

	for _, row := range d.Rows {
		cells := []string{
			strconv.Itoa(row.Serial),
			core.FormatDisplay(row.IssuedAt),
			row.DevoteeName,
			row.Address,
			ts.currency() + row.Amount.String(),
			string(row.PaymentMode),
		}
		if y+rowHeight(pdf, ts, cells) > pageH-reportMargin {
			pdf.AddPage()
			y = tableRow(pdf, ts, left, reportMargin, backupColumns, true)
		}
		y = tableRow(pdf, ts, left, y, cells, false)
	}

	return output(pdf)
}

// wrap splits each cell to its column width.
func wrap(pdf *fpdf.Fpdf, ts *typesetter, cells []string) [][]string {
	lines := make([][]string, len(cells))
	for i, c := range cells {
		txt := ts.use(c, 10)
		split := pdf.SplitText(txt, reportWidths[i]-2*reportPadding)
		if len(split) == 0 {
			split = []string{""}
		}
		lines[i] = split
	}
	return lines
}

func rowHeight(pdf *fpdf.Fpdf, ts *typesetter, cells []string) float64 {
	return heightOf(wrap(pdf, ts, cells))
}

func heightOf(lines [][]string) float64 {
	n := 1
	for _, l := range lines {
		if len(l) > n {
			n = len(l)
		}
	}
	return float64(n)*reportLine + 2*reportPadding
}

// tableRow draws one bordered row at y and returns the y below it.
func tableRow(pdf *fpdf.Fpdf, ts *typesetter, x, y float64, cells []string, header bool) float64 {
	lines := wrap(pdf, ts, cells)
	h := heightOf(lines)

	style := "D"
	if header {
		style = "FD"
	}
	cx := x
	for i, cell := range cells {
		w := reportWidths[i]
		pdf.Rect(cx, y, w, h, style)
		ts.use(cell, 10) // font for this cell; lines are already translated
		for j, line := range lines[i] {
			pdf.Text(cx+reportPadding, y+reportPadding+float64(j+1)*reportLine-3, line)
		}
		cx += w
	}
	return y + h
}
