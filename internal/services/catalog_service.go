package services

import (
	"context"
	"fmt"
	"strings"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/ports"
)

// CatalogService manages the pooja list.
type CatalogService struct {
	store  ports.PoojaStore
	logger *applog.Logger
}

func NewCatalogService(store ports.PoojaStore, opts ...Option) *CatalogService {
	o := buildOptions(applog.ComponentCatalog, opts)
	return &CatalogService{store: store, logger: o.logger}
}

// List returns all poojas sorted by name.
func (s *CatalogService) List(ctx context.Context) ([]core.Pooja, error) {
	poojas, err := s.store.ListPoojas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list poojas: %w", err)
	}
	return poojas, nil
}

func (s *CatalogService) Count(ctx context.Context) (int, error) {
	return s.store.CountPoojas(ctx)
}

func (s *CatalogService) Add(ctx context.Context, name string, price core.Money) (int64, error) {
	p := core.Pooja{Name: strings.TrimSpace(name), Price: price}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreatePooja(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("add pooja: %w", err)
	}
	s.logger.InfoContext(ctx, "Pooja added", applog.FieldPoojaID, id, applog.FieldPooja, p.Name)
	return id, nil
}

// Edit replaces name and price. It returns false, and changes nothing, when
// the id does not exist.
func (s *CatalogService) Edit(ctx context.Context, id int64, name string, price core.Money) (bool, error) {
	p := core.Pooja{ID: id, Name: strings.TrimSpace(name), Price: price}
	if err := p.Validate(); err != nil {
		return false, err
	}
	ok, err := s.store.UpdatePooja(ctx, p)
	if err != nil {
		return false, fmt.Errorf("edit pooja: %w", err)
	}
	s.logger.InfoContext(ctx, "Pooja edit", applog.FieldPoojaID, id, applog.FieldSuccess, ok)
	return ok, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.store.DeletePooja(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete pooja: %w", err)
	}
	s.logger.InfoContext(ctx, "Pooja delete", applog.FieldPoojaID, id, applog.FieldSuccess, ok)
	return ok, nil
}
