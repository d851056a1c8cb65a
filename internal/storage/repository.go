package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"temple/internal/core"

	_ "modernc.org/sqlite"
)

// timestampLayout is how issued_at is stored. Fixed width, so text order is
// time order.
const timestampLayout = "2006-01-02 15:04:05.000"

type SQLiteRepository struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies migrations. Timestamps are stored as wall-clock time in loc.
func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLiteRepository, error) {
	if loc == nil {
		loc = time.Local
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite database ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, loc: loc}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) formatTime(t time.Time) string {
	return t.In(r.loc).Format(timestampLayout)
}

func (r *SQLiteRepository) parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout, s, r.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse issued_at %q: %w", s, err)
	}
	return t, nil
}

// --- users ---

func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role = core.Role(role)
	return u, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, string(u.Role))
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// --- poojas ---

func (r *SQLiteRepository) ListPoojas(ctx context.Context) ([]core.Pooja, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price_paise FROM poojas ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list poojas: %w", err)
	}
	defer rows.Close()

	var out []core.Pooja
	for rows.Next() {
		var p core.Pooja
		if err := rows.Scan(&p.ID, &p.Name, &p.Price.Cents); err != nil {
			return nil, fmt.Errorf("scan pooja: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountPoojas(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poojas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count poojas: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CreatePooja(ctx context.Context, p core.Pooja) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO poojas (name, price_paise) VALUES (?, ?)`, p.Name, p.Price.Cents)
	if err != nil {
		return 0, fmt.Errorf("create pooja: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) UpdatePooja(ctx context.Context, p core.Pooja) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE poojas SET name = ?, price_paise = ? WHERE id = ?`, p.Name, p.Price.Cents, p.ID)
	if err != nil {
		return false, fmt.Errorf("update pooja %d: %w", p.ID, err)
	}
	return affectedOne(res)
}

func (r *SQLiteRepository) DeletePooja(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM poojas WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete pooja %d: %w", id, err)
	}
	return affectedOne(res)
}

// --- receipts ---

const receiptColumns = `id, devotee_name, address, pooja_name, amount_paise, issued_at, payment_mode`

func (r *SQLiteRepository) CreateReceipt(ctx context.Context, rc core.Receipt) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO receipts (devotee_name, address, pooja_name, amount_paise, issued_at, payment_mode)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rc.DevoteeName, rc.Address, rc.PoojaName, rc.Amount.Cents, r.formatTime(rc.IssuedAt), string(rc.PaymentMode))
	if err != nil {
		return 0, fmt.Errorf("create receipt: %w", err)
	}
	return res.LastInsertId()
}

// ImportReceipt inserts rc with its own id. AUTOINCREMENT keeps later ids
// above the highest imported one.
func (r *SQLiteRepository) ImportReceipt(ctx context.Context, rc core.Receipt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO receipts (id, devotee_name, address, pooja_name, amount_paise, issued_at, payment_mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rc.ID, rc.DevoteeName, rc.Address, rc.PoojaName, rc.Amount.Cents, r.formatTime(rc.IssuedAt), string(rc.PaymentMode))
	if err != nil {
		return fmt.Errorf("import receipt %d: %w", rc.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetReceipt(ctx context.Context, id int64) (core.Receipt, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = ?`, id)
	rc, err := r.scanReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Receipt{}, fmt.Errorf("receipt %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Receipt{}, fmt.Errorf("get receipt %d: %w", id, err)
	}
	return rc, nil
}

func (r *SQLiteRepository) ListReceipts(ctx context.Context, f core.ReceiptFilter, order core.ReceiptOrder) ([]core.Receipt, error) {
	where, args := r.receiptWhere(f)
	query := `SELECT ` + receiptColumns + ` FROM receipts` + where
	switch order {
	case core.ByIDAscending:
		query += ` ORDER BY id ASC`
	default:
		query += ` ORDER BY issued_at DESC, id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []core.Receipt
	for rows.Next() {
		rc, err := r.scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SummarizeReceipts(ctx context.Context, f core.ReceiptFilter) (core.BackupSummary, error) {
	where, args := r.receiptWhere(f)
	var s core.BackupSummary
	err := r.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(amount_paise), 0),
			COALESCE(SUM(CASE WHEN LOWER(payment_mode) = 'cash' THEN amount_paise ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN LOWER(payment_mode) = 'online' THEN amount_paise ELSE 0 END), 0)
		FROM receipts`+where, args...).
		Scan(&s.Count, &s.Total.Cents, &s.Cash.Cents, &s.Online.Cents)
	if err != nil {
		return core.BackupSummary{}, fmt.Errorf("summarize receipts: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteReceipt(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete receipt %d: %w", id, err)
	}
	return affectedOne(res)
}

// receiptWhere builds the WHERE clause for f. Day bounds are inclusive:
// start of From through 23:59:59.999 of To.
func (r *SQLiteRepository) receiptWhere(f core.ReceiptFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Pooja != "" {
		conds = append(conds, "pooja_name = ?")
		args = append(args, f.Pooja)
	}
	if f.Name != "" {
		conds = append(conds, `devotee_name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Name)+"%")
	}
	if !f.From.IsZero() {
		conds = append(conds, "issued_at >= ?")
		args = append(args, r.formatTime(f.From.Start()))
	}
	if !f.To.IsZero() {
		conds = append(conds, "issued_at <= ?")
		args = append(args, r.formatTime(f.To.End()))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scanReceipt(s scanner) (core.Receipt, error) {
	var rc core.Receipt
	var issued, mode string
	if err := s.Scan(&rc.ID, &rc.DevoteeName, &rc.Address, &rc.PoojaName, &rc.Amount.Cents, &issued, &mode); err != nil {
		return core.Receipt{}, err
	}
	t, err := r.parseTime(issued)
	if err != nil {
		return core.Receipt{}, err
	}
	rc.IssuedAt = t
	rc.PaymentMode = core.PaymentMode(mode)
	return rc, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
