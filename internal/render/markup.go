package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"unicode/utf8"

	"temple/internal/core"
	"temple/web"
)

// Length hints let the print stylesheet shrink long text.
const (
	lengthMedium = "medium"
	lengthLong   = "long"
)

// LengthHint classifies text by character count: long past 35, medium past 25.
func LengthHint(s string) string {
	switch n := utf8.RuneCountInString(s); {
	case n > 35:
		return lengthLong
	case n > 25:
		return lengthMedium
	default:
		return ""
	}
}

// SplitPooja breaks a comma separated pooja field into its first two
// entries. second is shown only when the field contains a comma.
func SplitPooja(name string) (first, second string, showSecond bool) {
	parts := strings.Split(name, ",")
	first = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		second = strings.TrimSpace(parts[1])
	}
	return first, second, strings.Contains(name, ",")
}

// Text is a value together with its length hint.
type Text struct {
	Value  string
	Length string
}

func hinted(s string) Text {
	return Text{Value: s, Length: LengthHint(s)}
}

type receiptView struct {
	Letterhead  Letterhead
	ReceiptNo   string
	Date        string
	Name        Text
	Address     Text
	Pooja1      Text
	Pooja2      Text
	ShowPooja2  bool
	Amount      string
	PaymentMode string

	FontFace   template.CSS
	SetLogo    template.URL
	Symbols    template.URL
	TempleLogo template.URL
}

type backupView struct {
	Letterhead Letterhead
	Columns    []string
	Summary    []summaryLine
	Rows       []backupRowView
	FontFace   template.CSS
}

type summaryLine struct {
	Label string
	Value string
}

type backupRowView struct {
	Serial      int
	Date        string
	Name        string
	Address     string
	Amount      string
	PaymentMode string
}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(web.TemplatesFS, "templates/*.html")
}

func (e *Engine) receiptHTML(r core.Receipt) ([]byte, error) {
	pooja1, pooja2, show := SplitPooja(r.PoojaName)
	v := receiptView{
		Letterhead:  e.letterhead,
		ReceiptNo:   strconv.FormatInt(r.ID, 10),
		Date:        core.FormatDisplay(r.IssuedAt),
		Name:        hinted(r.DevoteeName),
		Address:     hinted(r.Address),
		Pooja1:      hinted(pooja1),
		Pooja2:      hinted(pooja2),
		ShowPooja2:  show,
		Amount:      core.FormatAmount(r.Amount),
		PaymentMode: string(r.PaymentMode),
		FontFace:    e.fontFace(),
		// Rendered at 3x the on-page size for print sharpness.
		SetLogo:    e.imageURL(SetLogo, 132, 132),
		Symbols:    e.imageURL(Symbols, 210, 132),
		TempleLogo: e.imageURL(TempleLogo, 132, 132),
	}
	return e.execute(TemplateReceiptHTML, v)
}

func (e *Engine) backupHTML(d BackupData) ([]byte, error) {
	return e.execute(TemplateBackupHTML, e.backupView(d))
}

func (e *Engine) backupView(d BackupData) backupView {
	v := backupView{
		Letterhead: e.letterhead,
		Columns:    backupColumns,
		Summary:    summaryLines(d.Summary, "₹"),
		Rows:       make([]backupRowView, len(d.Rows)),
		FontFace:   e.fontFace(),
	}
	for i, row := range d.Rows {
		v.Rows[i] = backupRowView{
			Serial:      row.Serial,
			Date:        core.FormatDisplay(row.IssuedAt),
			Name:        row.DevoteeName,
			Address:     row.Address,
			Amount:      "₹" + row.Amount.String(),
			PaymentMode: string(row.PaymentMode),
		}
	}
	return v
}

// summaryLines are the four report totals. Amounts show two decimals.
func summaryLines(s core.BackupSummary, currency string) []summaryLine {
	return []summaryLine{
		{labelTotalReceipts, strconv.Itoa(s.Count)},
		{labelTotalAmount, currency + s.Total.String()},
		{labelCash, currency + s.Cash.String()},
		{labelOnline, currency + s.Online.String()},
	}
}

func (e *Engine) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.html.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// imageURL inlines an asset as a data URL, falling back to the placeholder.
func (e *Engine) imageURL(name string, w, h int) template.URL {
	png, _ := e.assets.Image(name, w, h)
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// fontFace inlines the Kannada font. Without it the page falls back to the
// system fonts named in the stylesheet.
func (e *Engine) fontFace() template.CSS {
	font, ok := e.assets.Font(KannadaFont)
	if !ok {
		return ""
	}
	return template.CSS(`@font-face {
  font-family: 'NotoSansKannada';
  src: url('data:font/truetype;charset=utf-8;base64,` + base64.StdEncoding.EncodeToString(font) + `') format('truetype');
  font-weight: normal;
  font-style: normal;
  font-display: block;
}`)
}
