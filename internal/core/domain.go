package core

import (
	"strings"
	"time"
)

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"

	PaymentCash   PaymentMode = "Cash"
	PaymentOnline PaymentMode = "Online"
)

type (
	Role        string
	PaymentMode string

	User struct {
		ID           int64
		Username     string
		PasswordHash string
		Role         Role
	}

	// Identity is what a successful login yields.
	Identity struct {
		Username string `json:"username"`
		Role     Role   `json:"role"`
	}

	Pooja struct {
		ID    int64  `json:"id"`
		Name  string `json:"name" validate:"required,max=200"`
		Price Money  `json:"price" validate:"gte=0"`
	}

	Receipt struct {
		ID          int64       `json:"id"`
		DevoteeName string      `json:"devotee_name"`
		Address     string      `json:"address"`
		PoojaName   string      `json:"pooja_name"`
		Amount      Money       `json:"amount"`
		IssuedAt    time.Time   `json:"date"`
		PaymentMode PaymentMode `json:"payment_mode"`
	}

	// NewReceipt is the caller supplied part of a receipt; id and timestamp
	// are assigned on creation.
	NewReceipt struct {
		DevoteeName string      `json:"devotee_name" validate:"required,max=200"`
		Address     string      `json:"address" validate:"max=500"`
		PoojaName   string      `json:"pooja_name" validate:"required,max=500"`
		Amount      Money       `json:"amount" validate:"gte=0"`
		PaymentMode PaymentMode `json:"payment_mode" validate:"omitempty,oneof=Cash Online"`
	}

	// ReceiptFilter narrows a receipt listing. Zero fields are ignored.
	ReceiptFilter struct {
		Pooja string
		Name  string // substring, case folded for ASCII only
		From  Date
		To    Date
	}
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// ParsePaymentMode matches case-insensitively. Blank means Cash.
func ParsePaymentMode(s string) (PaymentMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cash":
		return PaymentCash, true
	case "online":
		return PaymentOnline, true
	default:
		return PaymentMode(s), false
	}
}

// Normalize trims text fields and applies the Cash default.
func (n NewReceipt) Normalize() NewReceipt {
	n.DevoteeName = strings.TrimSpace(n.DevoteeName)
	n.Address = strings.TrimSpace(n.Address)
	n.PoojaName = strings.TrimSpace(n.PoojaName)
	if mode, ok := ParsePaymentMode(string(n.PaymentMode)); ok {
		n.PaymentMode = mode
	}
	return n
}

func (n NewReceipt) Validate() error {
	return Validate(n)
}

func (p Pooja) Validate() error {
	return Validate(p)
}

// Receipt builds the stored form, stamped at issuedAt.
func (n NewReceipt) Receipt(issuedAt time.Time) Receipt {
	return Receipt{
		DevoteeName: n.DevoteeName,
		Address:     n.Address,
		PoojaName:   n.PoojaName,
		Amount:      n.Amount,
		IssuedAt:    issuedAt,
		PaymentMode: n.PaymentMode,
	}
}

// Match reports whether r passes the filter. Stores that cannot push the
// filter into a query use this.
func (f ReceiptFilter) Match(r Receipt) bool {
	if f.Pooja != "" && r.PoojaName != f.Pooja {
		return false
	}
	if f.Name != "" && !strings.Contains(foldASCII(r.DevoteeName), foldASCII(f.Name)) {
		return false
	}
	if !f.From.IsZero() && r.IssuedAt.Before(f.From.Start()) {
		return false
	}
	if !f.To.IsZero() && !r.IssuedAt.Before(f.To.AddDays(1).Start()) {
		return false
	}
	return true
}

// foldASCII lowercases A-Z only, matching SQLite's LIKE.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// FilterForRange is a filter covering exactly the days of rng.
func FilterForRange(rng DateRange) ReceiptFilter {
	return ReceiptFilter{From: rng.From, To: rng.To}
}

// ReceiptOrder selects how a receipt listing is sorted.
type ReceiptOrder int

const (
	// NewestFirst sorts by date descending, then id descending. Live views use it.
	NewestFirst ReceiptOrder = iota
	// ByIDAscending sorts by id ascending. Backup reports use it.
	ByIDAscending
)
