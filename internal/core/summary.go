package core

import "strings"

// BackupSummary totals a set of receipts for the backup report header.
type BackupSummary struct {
	Count  int   `json:"count"`
	Total  Money `json:"total"`
	Cash   Money `json:"cash"`
	Online Money `json:"online"`
}

// Summarize totals receipts exactly in paise. Payment modes compare
// case-insensitively; anything that is neither cash nor online counts only
// toward Total.
func Summarize(receipts []Receipt) BackupSummary {
	var s BackupSummary
	for _, r := range receipts {
		s.Count++
		s.Total = s.Total.Add(r.Amount)
		switch strings.ToLower(string(r.PaymentMode)) {
		case "cash":
			s.Cash = s.Cash.Add(r.Amount)
		case "online":
			s.Online = s.Online.Add(r.Amount)
		}
	}
	return s
}

// BackupRow is one numbered line of the backup table.
type BackupRow struct {
	Serial int
	Receipt
}

// NumberRows numbers receipts from 1 in the order given.
func NumberRows(receipts []Receipt) []BackupRow {
	rows := make([]BackupRow, len(receipts))
	for i, r := range receipts {
		rows[i] = BackupRow{Serial: i + 1, Receipt: r}
	}
	return rows
}
