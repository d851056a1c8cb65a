package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"0", 0, true},
		{"500.50", 50050, true},
		{"1,500", 150000, true},
		{"₹25000", 2500000, true},
		{" 2.5 ", 250, true},
		{"1.005", 101, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%q error %v is not a validation error", tc.in, err)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var in struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 500.5, "b": "1,200"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.A.Cents != 50050 || in.B.Cents != 120000 {
		t.Fatalf("got %d and %d", in.A.Cents, in.B.Cents)
	}
	out, err := json.Marshal(in.A)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "500.5" {
		t.Errorf("marshal = %s, want 500.5", out)
	}
	if err := json.Unmarshal([]byte(`{"a": -3}`), &in); err == nil {
		t.Errorf("negative amount accepted")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   Money
		want string
	}{
		{Money{}, "₹0"},
		{Rupees(500), "₹500"},
		{Rupees(1500), "₹1,500"},
		{Money{Cents: 150050}, "₹1,500.50"},
		{Money{Cents: 5}, "₹0.05"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.in.Cents, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	receipts := []Receipt{
		{ID: 1, Amount: Money{Cents: 10010}, PaymentMode: PaymentCash},
		{ID: 2, Amount: Money{Cents: 20020}, PaymentMode: "online"},
		{ID: 3, Amount: Money{Cents: 30030}, PaymentMode: "CASH"},
		{ID: 4, Amount: Money{Cents: 1}, PaymentMode: "Cheque"},
	}
	s := Summarize(receipts)

	var sum int64
	for _, r := range receipts {
		sum += r.Amount.Cents
	}
	if s.Count != 4 {
		t.Errorf("Count = %d, want 4", s.Count)
	}
	if s.Total.Cents != sum {
		t.Errorf("Total = %d, want %d", s.Total.Cents, sum)
	}
	if s.Cash.Cents != 40040 || s.Online.Cents != 20020 {
		t.Errorf("Cash = %d Online = %d", s.Cash.Cents, s.Online.Cents)
	}
	if s.Cash.Cents+s.Online.Cents > s.Total.Cents {
		t.Errorf("cash + online exceeds total")
	}

	rows := NumberRows(receipts)
	for i, row := range rows {
		if row.Serial != i+1 {
			t.Errorf("row %d serial = %d", i, row.Serial)
		}
	}
}
