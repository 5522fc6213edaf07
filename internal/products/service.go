package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/odyssey-erp/storefront/internal/platform/httpx"
	"github.com/odyssey-erp/storefront/internal/shared"
)

// Service wraps product business rules: ownership checks, per-owner sku
// uniqueness, and partial-update merge semantics.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// canAccess is the single access rule used by get, update, and delete.
func canAccess(ident shared.Identity, p *Product) bool {
	return ident.IsAdmin() || ident.UserID == p.OwnerID
}

// List returns all products for admins and only the caller's own products
// otherwise, most recently updated first.
func (s *Service) List(ctx context.Context, ident shared.Identity) ([]Product, error) {
	if ident.IsAdmin() {
		return s.repo.List(ctx)
	}
	return s.repo.ListByOwner(ctx, ident.UserID)
}

// Get fetches a single product. Existence is checked before authorization:
// an absent id yields NotFound, a present-but-foreign row yields Forbidden.
func (s *Service) Get(ctx context.Context, ident shared.Identity, id int64) (*Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: Product not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	if !canAccess(ident, product) {
		return nil, httpx.ErrForbidden
	}
	return product, nil
}

// Create inserts a product owned by the caller and returns the freshly
// read row so server-computed fields are included.
func (s *Service) Create(ctx context.Context, ident shared.Identity, req CreateProductRequest) (*Product, error) {
	exists, err := s.repo.SKUExists(ctx, ident.UserID, req.SKU, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: SKU already exists", httpx.ErrDuplicate)
	}

	product := Product{
		OwnerID:     ident.UserID,
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Stock:       req.Stock,
		IsActive:    true,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, fmt.Errorf("%w: SKU already exists", httpx.ErrDuplicate)
		}
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Update merges the provided fields into the stored row. Unspecified
// fields keep their current value. Changing the sku re-checks uniqueness
// against the owner's other products.
func (s *Service) Update(ctx context.Context, ident shared.Identity, id int64, req UpdateProductRequest) (*Product, error) {
	current, err := s.Get(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.SKU != nil && *req.SKU != current.SKU {
		exists, err := s.repo.SKUExists(ctx, current.OwnerID, *req.SKU, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: SKU already exists", httpx.ErrDuplicate)
		}
	}

	if len(updates) == 0 {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, fmt.Errorf("%w: SKU already exists", httpx.ErrDuplicate)
		}
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Delete removes a product after the same existence and ownership checks
// as Get. The delete is hard; no dependent rows are modeled.
func (s *Service) Delete(ctx context.Context, ident shared.Identity, id int64) error {
	if _, err := s.Get(ctx, ident, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
