package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewReceiptValidate(t *testing.T) {
	base := NewReceipt{DevoteeName: "Ramesh", PoojaName: "ಅಬಿಷೇಕ", Amount: Rupees(30)}

	tests := []struct {
		name    string
		mutate  func(n *NewReceipt)
		wantErr string
	}{
		{"valid", func(n *NewReceipt) {}, ""},
		{"zero amount allowed", func(n *NewReceipt) { n.Amount = Money{} }, ""},
		{"missing name", func(n *NewReceipt) { n.DevoteeName = "  " }, "devotee_name is required"},
		{"missing pooja", func(n *NewReceipt) { n.PoojaName = "" }, "pooja_name is required"},
		{"negative amount", func(n *NewReceipt) { n.Amount = Money{Cents: -1} }, "amount must be zero or more"},
		{"bad mode", func(n *NewReceipt) { n.PaymentMode = "Cheque" }, "payment_mode must be one of Cash Online"},
		{"long name", func(n *NewReceipt) { n.DevoteeName = strings.Repeat("a", 201) }, "devotee_name must be at most 200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := base
			tt.mutate(&n)
			err := n.Normalize().Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !errors.Is(err, ErrValidation) {
				t.Fatalf("error = %v, want validation error", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDefaultsToCash(t *testing.T) {
	n := NewReceipt{DevoteeName: " Asha ", PoojaName: "x", PaymentMode: "online"}.Normalize()
	if n.PaymentMode != PaymentOnline {
		t.Errorf("mode = %q, want Online", n.PaymentMode)
	}
	if n.DevoteeName != "Asha" {
		t.Errorf("name not trimmed: %q", n.DevoteeName)
	}
	if got := (NewReceipt{}).Normalize().PaymentMode; got != PaymentCash {
		t.Errorf("blank mode = %q, want Cash", got)
	}
}

func TestDateBounds(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d := NewDate(2024, time.June, 15, loc)

	if got := d.Start(); !got.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, loc)) {
		t.Errorf("Start = %v", got)
	}
	if got := d.End(); !got.Equal(time.Date(2024, 6, 15, 23, 59, 59, int(999*time.Millisecond), loc)) {
		t.Errorf("End = %v", got)
	}
	if got := d.AddDays(-6).String(); got != "2024-06-09" {
		t.Errorf("AddDays(-6) = %s", got)
	}
}

func TestReceiptFilterMatch_SameDay(t *testing.T) {
	loc := time.UTC
	day := NewDate(2024, time.June, 15, loc)
	f := ReceiptFilter{From: day, To: day}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2024, 6, 15, 0, 0, 0, 0, loc), true},
		{time.Date(2024, 6, 15, 23, 59, 59, 0, loc), true},
		{time.Date(2024, 6, 15, 23, 59, 59, 999_500_000, loc), true},
		{time.Date(2024, 6, 14, 23, 59, 59, 0, loc), false},
		{time.Date(2024, 6, 16, 0, 0, 0, 0, loc), false},
	}
	for _, c := range cases {
		if got := f.Match(Receipt{IssuedAt: c.at}); got != c.want {
			t.Errorf("Match(%v) = %v, want %v", c.at, got, c.want)
		}
		if got := SingleDay(day).Contains(c.at); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.at, got, c.want)
		}
	}
}

func TestReceiptFilterMatch_NameFoldsASCIIOnly(t *testing.T) {
	r := Receipt{DevoteeName: "ÉMILE Ravi"}
	tests := []struct {
		name string
		want bool
	}{
		{"ravi", true},
		{"RAVI", true},
		{"ÉMILE", true},
		{"émile", false},
	}
	for _, tt := range tests {
		if got := (ReceiptFilter{Name: tt.name}).Match(r); got != tt.want {
			t.Errorf("Match(name=%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseLegacyTimestamp(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"05/03/2024 14:07:09", time.Date(2024, 3, 5, 14, 7, 9, 0, loc), true},
		{"05/03/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, loc), true},
		{"5/3/2024 08:00:00", time.Date(2024, 3, 5, 8, 0, 0, 0, loc), true},
		{"2024-03-05", time.Time{}, false},
		{"31/02/2024 10:00:00", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := ParseLegacyTimestamp(tt.in, loc)
		if tt.ok {
			if err != nil || !got.Equal(tt.want) {
				t.Errorf("ParseLegacyTimestamp(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
			continue
		}
		if err == nil {
			t.Errorf("ParseLegacyTimestamp(%q) accepted", tt.in)
		}
	}
	if got := FormatDisplay(time.Date(2024, 3, 5, 14, 7, 9, 0, loc)); got != "05/03/2024 14:07:09" {
		t.Errorf("FormatDisplay = %q", got)
	}
}

func TestResultOf(t *testing.T) {
	if r := ResultOf(nil); !r.Success || r.Error != "" {
		t.Errorf("ResultOf(nil) = %+v", r)
	}
	if r := ResultOf(errors.New("disk I/O error at page 7")); r.Success || r.Error != "internal error" {
		t.Errorf("ResultOf(raw) = %+v", r)
	}
	if r := ResultOf(Invalid("amount", "is required")); r.Error != "validation failed: amount is required" {
		t.Errorf("ResultOf(validation) = %+v", r)
	}
}
