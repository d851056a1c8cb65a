package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"temple/internal/core"
)

var testLoc = time.FixedZone("IST", 5*3600+1800)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "temple.db"), testLoc)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func receiptAt(name, pooja string, rupees int64, mode core.PaymentMode, at time.Time) core.Receipt {
	return core.Receipt{DevoteeName: name, PoojaName: pooja, Amount: core.Rupees(rupees), PaymentMode: mode, IssuedAt: at}
}

func TestMigrations_SeedPoojaCatalog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	poojas, err := repo.ListPoojas(ctx)
	if err != nil {
		t.Fatalf("ListPoojas: %v", err)
	}
	if len(poojas) != 38 {
		t.Fatalf("seeded %d poojas, want 38", len(poojas))
	}
	if !sort.SliceIsSorted(poojas, func(i, j int) bool { return poojas[i].Name < poojas[j].Name }) {
		t.Errorf("poojas are not sorted by name")
	}
	found := false
	for _, p := range poojas {
		if p.Name == "ಕರ್ಪೂರ ಆರತಿ" {
			found = true
			if p.Price.Cents != 2000 {
				t.Errorf("ಕರ್ಪೂರ ಆರತಿ price = %d paise, want 2000", p.Price.Cents)
			}
		}
	}
	if !found {
		t.Errorf("seed pooja missing")
	}

	version, err := RunMigrations(filepath.Join(t.TempDir(), "other.db"))
	if err != nil || version != 2 {
		t.Fatalf("RunMigrations = %d, %v; want 2", version, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temple.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(path, testLoc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := repo.CreatePooja(ctx, core.Pooja{Name: "ಹೊಸ ಸೇವೆ", Price: core.Rupees(10)}); err != nil {
		t.Fatalf("CreatePooja: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path, testLoc)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	n, err := repo.CountPoojas(ctx)
	if err != nil || n != 39 {
		t.Fatalf("CountPoojas = %d, %v; want 39", n, err)
	}
}

func TestReceiptIDsStrictlyIncrease(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, testLoc)

	var last int64
	for i := 0; i < 5; i++ {
		id, err := repo.CreateReceipt(ctx, receiptAt("A", "P", 10, core.PaymentCash, now))
		if err != nil {
			t.Fatalf("CreateReceipt: %v", err)
		}
		if id <= last {
			t.Fatalf("id %d not greater than %d", id, last)
		}
		last = id
	}

	// A deleted id is never handed out again.
	if ok, err := repo.DeleteReceipt(ctx, last); err != nil || !ok {
		t.Fatalf("DeleteReceipt = %v, %v", ok, err)
	}
	id, err := repo.CreateReceipt(ctx, receiptAt("B", "P", 10, core.PaymentCash, now))
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if id <= last {
		t.Fatalf("id %d reused after delete of %d", id, last)
	}
}

func TestListReceipts_SameDayRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2024, 6, 14, 23, 59, 59, 0, testLoc),
		time.Date(2024, 6, 15, 0, 0, 0, 0, testLoc),
		time.Date(2024, 6, 15, 12, 30, 0, 0, testLoc),
		time.Date(2024, 6, 15, 23, 59, 59, 999_000_000, testLoc),
		time.Date(2024, 6, 16, 0, 0, 0, 0, testLoc),
	}
	for _, at := range times {
		if _, err := repo.CreateReceipt(ctx, receiptAt("A", "P", 1, core.PaymentCash, at)); err != nil {
			t.Fatalf("CreateReceipt: %v", err)
		}
	}

	day := core.NewDate(2024, time.June, 15, testLoc)
	got, err := repo.ListReceipts(ctx, core.ReceiptFilter{From: day, To: day}, core.NewestFirst)
	if err != nil {
		t.Fatalf("ListReceipts: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d receipts on 2024-06-15, want 3", len(got))
	}
	for _, r := range got {
		if core.DateOf(r.IssuedAt.In(testLoc)).String() != "2024-06-15" {
			t.Errorf("receipt %d at %v is outside the day", r.ID, r.IssuedAt)
		}
	}
	// Newest first.
	if !got[0].IssuedAt.After(got[1].IssuedAt) || !got[1].IssuedAt.After(got[2].IssuedAt) {
		t.Errorf("not sorted by date descending: %v %v %v", got[0].IssuedAt, got[1].IssuedAt, got[2].IssuedAt)
	}
}

func TestListReceipts_FiltersAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	morning := time.Date(2024, 6, 15, 9, 0, 0, 0, testLoc)
	evening := time.Date(2024, 6, 15, 18, 0, 0, 0, testLoc)

	// Inserted out of time order so id order and date order differ.
	ids := make([]int64, 0, 3)
	for _, r := range []core.Receipt{
		receiptAt("Lakshmi Nayak", "ಗಣಹೋಮ", 500, core.PaymentCash, evening),
		receiptAt("Ravi", "ಗಣಹೋಮ", 500, core.PaymentOnline, morning),
		receiptAt("Lakshmi_N", "ಅಬಿಷೇಕ", 30, core.PaymentCash, evening),
	} {
		id, err := repo.CreateReceipt(ctx, r)
		if err != nil {
			t.Fatalf("CreateReceipt: %v", err)
		}
		ids = append(ids, id)
	}

	tests := []struct {
		name   string
		filter core.ReceiptFilter
		order  core.ReceiptOrder
		want   []int64
	}{
		{"all newest first", core.ReceiptFilter{}, core.NewestFirst, []int64{ids[2], ids[0], ids[1]}},
		{"all by id", core.ReceiptFilter{}, core.ByIDAscending, []int64{ids[0], ids[1], ids[2]}},
		{"pooja exact", core.ReceiptFilter{Pooja: "ಗಣಹೋಮ"}, core.NewestFirst, []int64{ids[0], ids[1]}},
		{"pooja partial does not match", core.ReceiptFilter{Pooja: "ಗಣ"}, core.NewestFirst, nil},
		{"name substring", core.ReceiptFilter{Name: "lakshmi"}, core.ByIDAscending, []int64{ids[0], ids[2]}},
		{"underscore is literal", core.ReceiptFilter{Name: "i_N"}, core.ByIDAscending, []int64{ids[2]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListReceipts(ctx, tt.filter, tt.order)
			if err != nil {
				t.Fatalf("ListReceipts: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d receipts, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("position %d: id %d, want %d", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestGetAndDeleteReceipt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 15, 10, 11, 12, 0, testLoc)

	id, err := repo.CreateReceipt(ctx, core.Receipt{
		DevoteeName: "ಶ್ರೀನಿವಾಸ", Address: "Bengaluru", PoojaName: "ಅಬಿಷೇಕ, ಕರ್ಪೂರ ಆರತಿ",
		Amount: core.Money{Cents: 5050}, PaymentMode: core.PaymentOnline, IssuedAt: at,
	})
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	got, err := repo.GetReceipt(ctx, id)
	if err != nil {
		t.Fatalf("GetReceipt: %v", err)
	}
	if got.DevoteeName != "ಶ್ರೀನಿವಾಸ" || got.Amount.Cents != 5050 || got.PaymentMode != core.PaymentOnline {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.IssuedAt.Equal(at) {
		t.Errorf("IssuedAt = %v, want %v", got.IssuedAt, at)
	}

	if _, err := repo.GetReceipt(ctx, id+100); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetReceipt(missing) error = %v, want ErrNotFound", err)
	}

	ok, err := repo.DeleteReceipt(ctx, id+100)
	if err != nil || ok {
		t.Errorf("DeleteReceipt(missing) = %v, %v; want false, nil", ok, err)
	}
	ok, err = repo.DeleteReceipt(ctx, id)
	if err != nil || !ok {
		t.Errorf("DeleteReceipt = %v, %v; want true, nil", ok, err)
	}
}

func TestUpdatePooja_MissingLeavesTableUnchanged(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	before, err := repo.ListPoojas(ctx)
	if err != nil {
		t.Fatalf("ListPoojas: %v", err)
	}
	ok, err := repo.UpdatePooja(ctx, core.Pooja{ID: 9999, Name: "ghost", Price: core.Rupees(1)})
	if err != nil || ok {
		t.Fatalf("UpdatePooja(missing) = %v, %v; want false, nil", ok, err)
	}
	after, err := repo.ListPoojas(ctx)
	if err != nil {
		t.Fatalf("ListPoojas: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("row count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("row %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}

	ok, err = repo.UpdatePooja(ctx, core.Pooja{ID: before[0].ID, Name: before[0].Name, Price: core.Rupees(999)})
	if err != nil || !ok {
		t.Fatalf("UpdatePooja = %v, %v; want true", ok, err)
	}
	if ok, _ := repo.DeletePooja(ctx, 9999); ok {
		t.Errorf("DeletePooja(missing) = true")
	}
}

func TestSummarizeReceipts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 15, 10, 0, 0, 0, testLoc)

	amounts := []struct {
		paise int64
		mode  core.PaymentMode
	}{{10010, "Cash"}, {20020, "Online"}, {30030, "cash"}, {7, "Cheque"}}
	var want int64
	for _, a := range amounts {
		want += a.paise
		r := receiptAt("A", "P", 0, a.mode, at)
		r.Amount = core.Money{Cents: a.paise}
		if _, err := repo.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt: %v", err)
		}
	}

	s, err := repo.SummarizeReceipts(ctx, core.ReceiptFilter{})
	if err != nil {
		t.Fatalf("SummarizeReceipts: %v", err)
	}
	if s.Count != 4 || s.Total.Cents != want {
		t.Errorf("summary = %+v, want count 4 total %d", s, want)
	}
	if s.Cash.Cents != 40040 || s.Online.Cents != 20020 {
		t.Errorf("cash/online = %d/%d", s.Cash.Cents, s.Online.Cents)
	}

	empty, err := repo.SummarizeReceipts(ctx, core.ReceiptFilter{Pooja: "none"})
	if err != nil || empty.Count != 0 || !empty.Total.IsZero() {
		t.Errorf("empty summary = %+v, %v", empty, err)
	}
}

func TestImportReceiptKeepsIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2023, 1, 2, 3, 4, 5, 0, testLoc)

	r := receiptAt("Old", "P", 100, core.PaymentCash, at)
	r.ID = 41
	if err := repo.ImportReceipt(ctx, r); err != nil {
		t.Fatalf("ImportReceipt: %v", err)
	}
	id, err := repo.CreateReceipt(ctx, receiptAt("New", "P", 1, core.PaymentCash, at))
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if id != 42 {
		t.Errorf("next id = %d, want 42", id)
	}
}

func TestUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if n, err := repo.CountUsers(ctx); err != nil || n != 0 {
		t.Fatalf("CountUsers = %d, %v", n, err)
	}
	if _, err := repo.CreateUser(ctx, core.User{Username: "admin", PasswordHash: "x", Role: core.RoleAdmin}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := repo.CreateUser(ctx, core.User{Username: "admin", PasswordHash: "y", Role: core.RoleStaff}); err == nil {
		t.Errorf("duplicate username accepted")
	}
	u, err := repo.UserByUsername(ctx, "admin")
	if err != nil || u.Role != core.RoleAdmin {
		t.Fatalf("UserByUsername = %+v, %v", u, err)
	}
	if _, err := repo.UserByUsername(ctx, "nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing user error = %v", err)
	}
}

func TestSeedMatchesDefaultCatalog(t *testing.T) {
	repo := newTestRepo(t)
	seeded, err := repo.ListPoojas(context.Background())
	if err != nil {
		t.Fatalf("ListPoojas: %v", err)
	}
	want := map[string]int64{}
	for _, p := range core.DefaultPoojas() {
		want[p.Name] = p.Price.Cents
	}
	if len(seeded) != len(want) {
		t.Fatalf("seeded %d poojas, default catalog has %d", len(seeded), len(want))
	}
	for _, p := range seeded {
		if price, ok := want[p.Name]; !ok || price != p.Price.Cents {
			t.Errorf("seeded %q at %d paise does not match the default catalog", p.Name, p.Price.Cents)
		}
	}
}
