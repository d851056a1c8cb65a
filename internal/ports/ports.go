// Package ports declares the outbound interfaces the services depend on.
package ports

import (
	"context"

	"temple/internal/core"
)

type (
	UserStore interface {
		// UserByUsername returns core.ErrNotFound when no such user exists.
		UserByUsername(ctx context.Context, username string) (core.User, error)
		CreateUser(ctx context.Context, u core.User) (int64, error)
		CountUsers(ctx context.Context) (int, error)
	}

	PoojaStore interface {
		// ListPoojas returns every pooja sorted by name ascending.
		ListPoojas(ctx context.Context) ([]core.Pooja, error)
		CountPoojas(ctx context.Context) (int, error)
		CreatePooja(ctx context.Context, p core.Pooja) (int64, error)
		// UpdatePooja and DeletePooja report whether a row was affected.
		UpdatePooja(ctx context.Context, p core.Pooja) (bool, error)
		DeletePooja(ctx context.Context, id int64) (bool, error)
	}

	ReceiptStore interface {
		// CreateReceipt ignores r.ID and returns the assigned id. Ids are
		// strictly increasing and never reused.
		CreateReceipt(ctx context.Context, r core.Receipt) (int64, error)
		// GetReceipt returns core.ErrNotFound when the id is absent.
		GetReceipt(ctx context.Context, id int64) (core.Receipt, error)
		ListReceipts(ctx context.Context, f core.ReceiptFilter, order core.ReceiptOrder) ([]core.Receipt, error)
		SummarizeReceipts(ctx context.Context, f core.ReceiptFilter) (core.BackupSummary, error)
		DeleteReceipt(ctx context.Context, id int64) (bool, error)
	}

	// ReceiptImporter inserts receipts keeping their ids.
	ReceiptImporter interface {
		ImportReceipt(ctx context.Context, r core.Receipt) error
	}

	// Store is everything a storage backend provides.
	Store interface {
		UserStore
		PoojaStore
		ReceiptStore
		ReceiptImporter
		Close() error
	}
)
