// Package memory is a process-local store used for development runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"temple/internal/core"
)

type Store struct {
	mu          sync.Mutex
	users       []core.User
	poojas      []core.Pooja
	receipts    []core.Receipt
	nextUser    int64
	nextPooja   int64
	nextReceipt int64
}

// New returns a store holding the given poojas.
func New(poojas []core.Pooja) *Store {
	s := &Store{}
	for _, p := range poojas {
		s.nextPooja++
		p.ID = s.nextPooja
		s.poojas = append(s.poojas, p)
	}
	return s
}

func (s *Store) Close() error { return nil }

func (s *Store) UserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
}

func (s *Store) CreateUser(_ context.Context, u core.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return 0, fmt.Errorf("create user: username %q already exists", u.Username)
		}
	}
	s.nextUser++
	u.ID = s.nextUser
	s.users = append(s.users, u)
	return u.ID, nil
}

func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *Store) ListPoojas(_ context.Context) ([]core.Pooja, error) {
	s.mu.Lock()
	out := append([]core.Pooja(nil), s.poojas...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CountPoojas(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.poojas), nil
}

func (s *Store) CreatePooja(_ context.Context, p core.Pooja) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPooja++
	p.ID = s.nextPooja
	s.poojas = append(s.poojas, p)
	return p.ID, nil
}

func (s *Store) UpdatePooja(_ context.Context, p core.Pooja) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.poojas {
		if s.poojas[i].ID == p.ID {
			s.poojas[i] = p
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeletePooja(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.poojas {
		if s.poojas[i].ID == id {
			s.poojas = append(s.poojas[:i], s.poojas[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateReceipt(_ context.Context, r core.Receipt) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextReceipt++
	r.ID = s.nextReceipt
	s.receipts = append(s.receipts, r)
	return r.ID, nil
}

func (s *Store) ImportReceipt(_ context.Context, r core.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.receipts {
		if existing.ID == r.ID {
			return fmt.Errorf("import receipt %d: id already exists", r.ID)
		}
	}
	if r.ID > s.nextReceipt {
		s.nextReceipt = r.ID
	}
	s.receipts = append(s.receipts, r)
	return nil
}

func (s *Store) GetReceipt(_ context.Context, id int64) (core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.receipts {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Receipt{}, fmt.Errorf("receipt %d: %w", id, core.ErrNotFound)
}

func (s *Store) ListReceipts(_ context.Context, f core.ReceiptFilter, order core.ReceiptOrder) ([]core.Receipt, error) {
	out := s.matching(f)
	switch order {
	case core.ByIDAscending:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	default:
		sort.Slice(out, func(i, j int) bool {
			if !out[i].IssuedAt.Equal(out[j].IssuedAt) {
				return out[i].IssuedAt.After(out[j].IssuedAt)
			}
			return out[i].ID > out[j].ID
		})
	}
	return out, nil
}

func (s *Store) SummarizeReceipts(_ context.Context, f core.ReceiptFilter) (core.BackupSummary, error) {
	return core.Summarize(s.matching(f)), nil
}

func (s *Store) DeleteReceipt(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.receipts {
		if s.receipts[i].ID == id {
			s.receipts = append(s.receipts[:i], s.receipts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) matching(f core.ReceiptFilter) []core.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Receipt
	for _, r := range s.receipts {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
