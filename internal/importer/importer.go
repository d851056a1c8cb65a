// Package importer copies the previous application's database into the
// current store.
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/ports"

	_ "modernc.org/sqlite"
)

// Target is the store imported rows are written to.
type Target interface {
	ports.UserStore
	ports.PoojaStore
	ports.ReceiptStore
	ports.ReceiptImporter
}

// Report counts what an import did.
type Report struct {
	Users         int
	Poojas        int
	PoojasUpdated int
	Receipts      int
	Skipped       int
}

type Importer struct {
	src    *sql.DB
	dst    Target
	hash   func(password string) (string, error)
	loc    *time.Location
	logger *applog.Logger
}

// OpenLegacy opens the old database read-only.
func OpenLegacy(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open legacy database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open legacy database %s: %w", path, err)
	}
	return db, nil
}

// New prepares an import from src into dst. Legacy passwords are plaintext
// and are stored through hash; legacy dates are read in loc.
func New(src *sql.DB, dst Target, hash func(string) (string, error), loc *time.Location, logger *applog.Logger) *Importer {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = applog.New(applog.Config{Handler: slog.Default().Handler()})
	}
	return &Importer{src: src, dst: dst, hash: hash, loc: loc, logger: logger.WithComponent(applog.ComponentImporter)}
}

// Run imports users, poojas and receipts in that order. Rows already present
// in the target are left alone, so running twice is harmless.
func (im *Importer) Run(ctx context.Context) (Report, error) {
	var rep Report
	if err := im.users(ctx, &rep); err != nil {
		return rep, err
	}
	if err := im.poojas(ctx, &rep); err != nil {
		return rep, err
	}
	if err := im.receipts(ctx, &rep); err != nil {
		return rep, err
	}
	im.logger.InfoContext(ctx, "Legacy import finished",
		"users", rep.Users, "poojas", rep.Poojas, "poojas_updated", rep.PoojasUpdated,
		"receipts", rep.Receipts, "skipped", rep.Skipped)
	return rep, nil
}

func (im *Importer) users(ctx context.Context, rep *Report) error {
	rows, err := im.src.QueryContext(ctx, `SELECT username, password, role FROM users ORDER BY id`)
	if err != nil {
		return fmt.Errorf("read legacy users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username, password, role sql.NullString
		if err := rows.Scan(&username, &password, &role); err != nil {
			return fmt.Errorf("scan legacy user: %w", err)
		}
		name := strings.TrimSpace(username.String)
		r := core.Role(role.String)
		if name == "" || !r.Valid() {
			im.logger.WarnContext(ctx, "Skipping legacy user", applog.FieldUsername, name, applog.FieldRole, role.String)
			rep.Skipped++
			continue
		}

		_, err := im.dst.UserByUsername(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		hash, err := im.hash(password.String)
		if err != nil {
			return err
		}
		if _, err := im.dst.CreateUser(ctx, core.User{Username: name, PasswordHash: hash, Role: r}); err != nil {
			return err
		}
		rep.Users++
	}
	return rows.Err()
}

// poojas creates services the target lacks and carries legacy prices over
// to those it already has by name.
func (im *Importer) poojas(ctx context.Context, rep *Report) error {
	existing, err := im.dst.ListPoojas(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]core.Pooja, len(existing))
	for _, p := range existing {
		byName[p.Name] = p
	}

	rows, err := im.src.QueryContext(ctx, `SELECT name, price FROM poojas ORDER BY id`)
	if err != nil {
		return fmt.Errorf("read legacy poojas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&name, &price); err != nil {
			return fmt.Errorf("scan legacy pooja: %w", err)
		}
		p := core.Pooja{Name: strings.TrimSpace(name.String)}
		if p.Price, err = money(price); err != nil || p.Validate() != nil {
			im.logger.WarnContext(ctx, "Skipping legacy pooja", applog.FieldPooja, p.Name)
			rep.Skipped++
			continue
		}

		if cur, ok := byName[p.Name]; ok {
			if cur.Price != p.Price {
				cur.Price = p.Price
				if _, err := im.dst.UpdatePooja(ctx, cur); err != nil {
					return err
				}
				rep.PoojasUpdated++
			}
			continue
		}
		id, err := im.dst.CreatePooja(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id
		byName[p.Name] = p
		rep.Poojas++
	}
	return rows.Err()
}

func (im *Importer) receipts(ctx context.Context, rep *Report) error {
	rows, err := im.src.QueryContext(ctx,
		`SELECT id, devotee_name, address, pooja_name, amount, date, payment_mode FROM receipts ORDER BY id`)
	if err != nil {
		return fmt.Errorf("read legacy receipts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name, address, pooja, date, mode sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&id, &name, &address, &pooja, &amount, &date, &mode); err != nil {
			return fmt.Errorf("scan legacy receipt: %w", err)
		}

		rc, err := im.receipt(id, name, address, pooja, amount, date, mode)
		if err != nil {
			im.logger.WarnContext(ctx, "Skipping legacy receipt", applog.FieldReceiptID, id, applog.FieldError, err)
			rep.Skipped++
			continue
		}

		if _, err := im.dst.GetReceipt(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		if err := im.dst.ImportReceipt(ctx, rc); err != nil {
			return err
		}
		rep.Receipts++
	}
	return rows.Err()
}

func (im *Importer) receipt(id int64, name, address, pooja sql.NullString, amount sql.NullFloat64, date, mode sql.NullString) (core.Receipt, error) {
	issued, err := core.ParseLegacyTimestamp(strings.TrimSpace(date.String), im.loc)
	if err != nil {
		return core.Receipt{}, err
	}
	amt, err := money(amount)
	if err != nil {
		return core.Receipt{}, err
	}
	pm, ok := core.ParsePaymentMode(mode.String)
	if !ok {
		return core.Receipt{}, core.Invalid("payment_mode", fmt.Sprintf("%q is neither Cash nor Online", mode.String))
	}
	return core.Receipt{
		ID:          id,
		DevoteeName: strings.TrimSpace(name.String),
		Address:     strings.TrimSpace(address.String),
		PoojaName:   strings.TrimSpace(pooja.String),
		Amount:      amt,
		IssuedAt:    issued,
		PaymentMode: pm,
	}, nil
}

// money converts a legacy REAL rupee column. Floats are rounded to paise.
func money(v sql.NullFloat64) (core.Money, error) {
	if !v.Valid {
		return core.Money{}, nil
	}
	return core.FromDecimal(decimal.NewFromFloat(v.Float64))
}
