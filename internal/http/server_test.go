package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/report"
	"temple/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, username, password string) (core.Identity, error) {
	switch {
	case username == "admin" && password == "admin123":
		return core.Identity{Username: "admin", Role: core.RoleAdmin}, nil
	case username == "staff" && password == "staff123":
		return core.Identity{Username: "staff", Role: core.RoleStaff}, nil
	}
	return core.Identity{}, core.ErrAuth
}

type fakeReceipts struct {
	created    []core.NewReceipt
	lastFilter core.ReceiptFilter
	printErr   error
}

func (f *fakeReceipts) Create(_ context.Context, in core.NewReceipt) (int64, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return 0, err
	}
	f.created = append(f.created, in)
	return int64(len(f.created)), nil
}

func (f *fakeReceipts) List(_ context.Context, filter core.ReceiptFilter) ([]core.Receipt, error) {
	f.lastFilter = filter
	return []core.Receipt{{ID: 1, DevoteeName: "Ravi", PoojaName: "Archane", Amount: core.Rupees(50), IssuedAt: testNow, PaymentMode: core.PaymentCash}}, nil
}

func (f *fakeReceipts) Delete(_ context.Context, id int64) (bool, error) {
	return id == 1, nil
}

func (f *fakeReceipts) Reprint(_ context.Context, id int64) ([]byte, error) {
	if id != 1 {
		return nil, fmt.Errorf("receipt %d: %w", id, core.ErrNotFound)
	}
	return []byte("%PDF-1.3 receipt"), f.printErr
}

func (f *fakeReceipts) Export(_ context.Context, id int64) (string, error) {
	if id != 1 {
		return "", fmt.Errorf("receipt %d: %w", id, core.ErrNotFound)
	}
	return "/receipts/receipt_1.pdf", nil
}

func (f *fakeReceipts) Markup(_ context.Context, id int64) ([]byte, error) {
	if id == 2 {
		return nil, fmt.Errorf("%w: receipt.html: boom", core.ErrRendering)
	}
	return []byte("<html>receipt</html>"), nil
}

type fakeCatalog struct {
	poojas []core.Pooja
}

func (f *fakeCatalog) List(context.Context) ([]core.Pooja, error) { return f.poojas, nil }

func (f *fakeCatalog) Add(_ context.Context, name string, price core.Money) (int64, error) {
	p := core.Pooja{ID: int64(len(f.poojas) + 1), Name: strings.TrimSpace(name), Price: price}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	f.poojas = append(f.poojas, p)
	return p.ID, nil
}

func (f *fakeCatalog) Edit(_ context.Context, id int64, name string, price core.Money) (bool, error) {
	for i := range f.poojas {
		if f.poojas[i].ID == id {
			f.poojas[i].Name, f.poojas[i].Price = name, price
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalog) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.poojas {
		if f.poojas[i].ID == id {
			f.poojas = append(f.poojas[:i], f.poojas[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeBackups struct {
	ranges []core.DateRange
}

func (f *fakeBackups) Generate(_ context.Context, rng core.DateRange) (services.BackupResult, error) {
	f.ranges = append(f.ranges, rng)
	return services.BackupResult{
		Path:    "/backups/backup_2024-06-15_10-30-00.pdf",
		Summary: core.BackupSummary{Count: 2, Total: core.Rupees(150), Cash: core.Rupees(100), Online: core.Rupees(50)},
	}, nil
}

type fakeStats struct {
	ranges []core.DateRange
	err    error
}

func (f *fakeStats) Stats(_ context.Context, rng core.DateRange) (report.Stats, error) {
	f.ranges = append(f.ranges, rng)
	if f.err != nil {
		return report.Stats{Receipts: core.Unavailable, Amount: core.Unavailable, Poojas: core.Unavailable, Range: rng}, f.err
	}
	return report.Stats{Receipts: "3", Amount: "₹1,500", Poojas: "38", Range: rng}, nil
}

type testServer struct {
	srv      *Server
	receipts *fakeReceipts
	catalog  *fakeCatalog
	backups  *fakeBackups
	stats    *fakeStats
	tokens   *TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		receipts: &fakeReceipts{},
		catalog:  &fakeCatalog{poojas: []core.Pooja{{ID: 1, Name: "Archane", Price: core.Rupees(50)}}},
		backups:  &fakeBackups{},
		stats:    &fakeStats{},
		tokens:   NewTokenIssuer("test-secret", time.Hour),
	}
	ts.tokens.now = func() time.Time { return testNow }
	ts.srv = NewServer(Config{
		Addr:        ":0",
		CORSOrigins: []string{"http://localhost:5173"},
		Location:    time.UTC,
		Now:         func() time.Time { return testNow },
		Logger:      applog.New(applog.Config{Output: io.Discard}),
	}, Deps{
		Auth:      fakeAuth{},
		Tokens:    ts.tokens,
		Receipts:  ts.receipts,
		Catalog:   ts.catalog,
		Backups:   ts.backups,
		Dashboard: ts.stats,
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role core.Role) string {
	t.Helper()
	tok, _, err := ts.tokens.Issue(core.Identity{Username: string(role), Role: role})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v: %s", err, rr.Body.String())
	}
	if _, ok := out["success"].(bool); !ok {
		t.Fatalf("response lacks boolean success: %s", rr.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/healthz", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body := decode(t, rr); body["success"] != true || body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/login", "", `{"username":"admin","password":"admin123"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if body["username"] != "admin" || body["role"] != "admin" {
		t.Errorf("body = %v", body)
	}
	tok, _ := body["token"].(string)
	id, err := ts.tokens.Parse(tok)
	if err != nil || id.Role != core.RoleAdmin {
		t.Errorf("issued token parses to %+v, %v", id, err)
	}

	rr = ts.do(t, http.MethodPost, "/api/login", "", `{"username":"admin","password":"nope"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rr.Code)
	}
	body = decode(t, rr)
	if body["success"] != false || body["error"] != core.ErrAuth.Error() {
		t.Errorf("bad password body = %v", body)
	}
}

func TestAuthGating(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.token(t, core.RoleStaff)
	admin := ts.token(t, core.RoleAdmin)

	expired := NewTokenIssuer("test-secret", time.Minute)
	expired.now = func() time.Time { return testNow.Add(-time.Hour) }
	old, _, _ := expired.Issue(core.Identity{Username: "admin", Role: core.RoleAdmin})

	forged, _, _ := NewTokenIssuer("other-secret", time.Hour).Issue(core.Identity{Username: "admin", Role: core.RoleAdmin})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/poojas", "", http.StatusUnauthorized},
		{"expired token", http.MethodGet, "/api/poojas", old, http.StatusUnauthorized},
		{"wrong key", http.MethodGet, "/api/poojas", forged, http.StatusUnauthorized},
		{"staff reads", http.MethodGet, "/api/poojas", staff, http.StatusOK},
		{"staff cannot delete pooja", http.MethodDelete, "/api/poojas/1", staff, http.StatusForbidden},
		{"staff cannot delete receipt", http.MethodDelete, "/api/receipts/1", staff, http.StatusForbidden},
		{"staff cannot back up", http.MethodPost, "/api/backups", staff, http.StatusForbidden},
		{"admin deletes receipt", http.MethodDelete, "/api/receipts/1", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, tt.method, tt.path, tt.token, "")
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
			body := decode(t, rr)
			if (tt.want == http.StatusOK) != (body["success"] == true) {
				t.Errorf("success = %v for status %d", body["success"], rr.Code)
			}
		})
	}
}

func TestPoojaEndpoints(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, core.RoleAdmin)

	rr := ts.do(t, http.MethodPost, "/api/poojas", admin, `{"name":"Deepotsava","price":"1,500.50"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rr.Code, rr.Body.String())
	}
	if got := ts.catalog.poojas[1].Price; got.Cents != 150050 {
		t.Errorf("stored price = %d paise, want 150050", got.Cents)
	}

	rr = ts.do(t, http.MethodPost, "/api/poojas", admin, `{"name":"","price":10}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d", rr.Code)
	}
	rr = ts.do(t, http.MethodPost, "/api/poojas", admin, `{"name":"X","price":-5}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("negative price status = %d", rr.Code)
	}

	rr = ts.do(t, http.MethodPut, "/api/poojas/99", admin, `{"name":"Ghost","price":1}`)
	if rr.Code != http.StatusNotFound || decode(t, rr)["success"] != false {
		t.Errorf("edit missing: status = %d body %s", rr.Code, rr.Body.String())
	}
	if len(ts.catalog.poojas) != 2 {
		t.Errorf("catalog has %d poojas after failed edit, want 2", len(ts.catalog.poojas))
	}

	rr = ts.do(t, http.MethodPut, "/api/poojas/1", admin, `{"name":"Archane","price":75}`)
	if rr.Code != http.StatusOK {
		t.Errorf("edit status = %d", rr.Code)
	}
	rr = ts.do(t, http.MethodDelete, "/api/poojas/abc", admin, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/poojas", admin, "")
	list, _ := decode(t, rr)["poojas"].([]any)
	if len(list) != 2 {
		t.Errorf("listed %d poojas, want 2", len(list))
	}
}

func TestReceiptEndpoints(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.token(t, core.RoleStaff)

	rr := ts.do(t, http.MethodPost, "/api/receipts", staff,
		`{"devotee_name":" Ravi ","address":"Udupi","pooja_name":"Archane, Deepa","amount":"250"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	if id := decode(t, rr)["id"]; id != float64(1) {
		t.Errorf("id = %v", id)
	}
	if got := ts.receipts.created[0]; got.PaymentMode != core.PaymentCash || got.DevoteeName != "Ravi" {
		t.Errorf("created %+v", got)
	}

	rr = ts.do(t, http.MethodPost, "/api/receipts", staff, `{"pooja_name":"Archane","amount":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d", rr.Code)
	}
	rr = ts.do(t, http.MethodPost, "/api/receipts", staff, `{"devotee_name":"R","pooja_name":"A","amount":1,"payment_mode":"Card"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad mode status = %d", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/receipts?pooja=Archane&name=rav&from=2024-06-01&to=2024-06-15", staff, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	f := ts.receipts.lastFilter
	if f.Pooja != "Archane" || f.Name != "rav" || f.From.String() != "2024-06-01" || f.To.String() != "2024-06-15" {
		t.Errorf("filter = %+v", f)
	}
	rr = ts.do(t, http.MethodGet, "/api/receipts?from=15/06/2024", staff, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", rr.Code)
	}

	rr = ts.do(t, http.MethodPost, "/api/receipts/1/export", staff, "")
	if body := decode(t, rr); body["path"] != "/receipts/receipt_1.pdf" {
		t.Errorf("export body = %v", body)
	}
	rr = ts.do(t, http.MethodPost, "/api/receipts/7/export", staff, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("export missing status = %d", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/receipts/1/print", staff, "")
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") || rr.Body.String() != "<html>receipt</html>" {
		t.Errorf("print markup = %q %q", rr.Header().Get("Content-Type"), rr.Body.String())
	}
	rr = ts.do(t, http.MethodGet, "/api/receipts/2/print", staff, "")
	if rr.Code != http.StatusInternalServerError || decode(t, rr)["success"] != false {
		t.Errorf("render failure status = %d", rr.Code)
	}

	admin := ts.token(t, core.RoleAdmin)
	rr = ts.do(t, http.MethodDelete, "/api/receipts/5", admin, "")
	if rr.Code != http.StatusNotFound || decode(t, rr)["success"] != false {
		t.Errorf("delete missing status = %d", rr.Code)
	}
}

func TestReprint(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.token(t, core.RoleStaff)

	rr := ts.do(t, http.MethodPost, "/api/receipts/1/reprint", staff, "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("reprint status = %d type %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Errorf("reprint body = %q", rr.Body.String())
	}

	ts.receipts.printErr = errors.New("printer offline")
	rr = ts.do(t, http.MethodPost, "/api/receipts/1/reprint", staff, "")
	if rr.Code != http.StatusOK || rr.Header().Get(HeaderPrintError) == "" {
		t.Errorf("reprint with printer down: status = %d header %q", rr.Code, rr.Header().Get(HeaderPrintError))
	}

	rr = ts.do(t, http.MethodPost, "/api/receipts/3/reprint", staff, "")
	if rr.Code != http.StatusNotFound || decode(t, rr)["success"] != false {
		t.Errorf("reprint missing status = %d", rr.Code)
	}
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.token(t, core.RoleStaff)

	rr := ts.do(t, http.MethodGet, "/api/dashboard?preset=last7", staff, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	rng := ts.stats.ranges[0]
	if rng.From.String() != "2024-06-09" || rng.To.String() != "2024-06-15" {
		t.Errorf("last7 range = [%s, %s]", rng.From, rng.To)
	}
	stats, _ := decode(t, rr)["stats"].(map[string]any)
	if stats["poojas"] != "38" {
		t.Errorf("stats = %v", stats)
	}

	ts.do(t, http.MethodGet, "/api/dashboard", staff, "")
	if rng := ts.stats.ranges[1]; rng.From.String() != "2024-06-15" || rng.To.String() != "2024-06-15" {
		t.Errorf("default range = [%s, %s]", rng.From, rng.To)
	}

	rr = ts.do(t, http.MethodGet, "/api/dashboard?preset=fortnight", staff, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad preset status = %d", rr.Code)
	}

	ts.stats.err = errors.New("database is locked")
	rr = ts.do(t, http.MethodGet, "/api/dashboard", staff, "")
	body := decode(t, rr)
	stats, _ = body["stats"].(map[string]any)
	if body["success"] != false || stats["receipts"] != core.Unavailable || stats["amount"] != core.Unavailable {
		t.Errorf("failed dashboard body = %v", body)
	}
	if body["error"] != "internal error" {
		t.Errorf("error leaked = %v", body["error"])
	}
}

func TestGenerateBackup(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, core.RoleAdmin)

	rr := ts.do(t, http.MethodPost, "/api/backups", admin, `{"from":"2024-06-01","to":"2024-06-10"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if body["path"] != "/backups/backup_2024-06-15_10-30-00.pdf" {
		t.Errorf("path = %v", body["path"])
	}
	summary, _ := body["summary"].(map[string]any)
	if summary["count"] != float64(2) || summary["total"] != float64(150) {
		t.Errorf("summary = %v", summary)
	}
	if rng := ts.backups.ranges[0]; rng.From.String() != "2024-06-01" || rng.To.String() != "2024-06-10" {
		t.Errorf("range = [%s, %s]", rng.From, rng.To)
	}

	ts.do(t, http.MethodPost, "/api/backups?preset=yesterday", admin, "")
	if rng := ts.backups.ranges[1]; rng.From.String() != "2024-06-14" || rng.To.String() != "2024-06-14" {
		t.Errorf("yesterday range = [%s, %s]", rng.From, rng.To)
	}

	rr = ts.do(t, http.MethodPost, "/api/backups", admin, `{"from":"2024-06-10","to":"2024-06-01"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("reversed range status = %d", rr.Code)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/poojas", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allowed origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/poojas", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr = httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin allowed: %q", got)
	}
}
