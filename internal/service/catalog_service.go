package service

import (
	"context"
	"strings"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// ProductInput carries product fields; nil fields are left unchanged on update.
type ProductInput struct {
	Name          *string
	SKU           *string
	UnitPrice     *decimal.Decimal
	StockQuantity *int64
}

type CatalogService interface {
	ListProducts(ctx context.Context, id Identity) ([]model.Product, error)
	GetProduct(ctx context.Context, id Identity, productID uint64) (*model.Product, error)
	CreateProduct(ctx context.Context, id Identity, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id Identity, productID uint64, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id Identity, productID uint64) error
}

type catalogService struct {
	gate     *Gate
	products repository.ProductRepository
}

func NewCatalogService(gate *Gate, products repository.ProductRepository) CatalogService {
	return &catalogService{gate: gate, products: products}
}

func (s *catalogService) ListProducts(ctx context.Context, id Identity) ([]model.Product, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionListProducts); err != nil {
		return nil, err
	}
	list, err := s.products.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id Identity, productID uint64) (*model.Product, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionListProducts); err != nil {
		return nil, err
	}
	return s.find(ctx, productID)
}

func (s *catalogService) CreateProduct(ctx context.Context, id Identity, in ProductInput) (*model.Product, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageProducts); err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, validationError("name is required")
	}
	if in.UnitPrice == nil {
		return nil, validationError("unit_price is required")
	}
	if err := checkProductInput(in); err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:      strings.TrimSpace(*in.Name),
		SKU:       normalizeSKU(in.SKU),
		UnitPrice: *in.UnitPrice,
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if err := s.products.Create(ctx, p); err != nil {
		if repository.IsDuplicate(err) {
			return nil, conflictError("sku already exists")
		}
		return nil, storageError(err)
	}
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id Identity, productID uint64, in ProductInput) (*model.Product, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageProducts); err != nil {
		return nil, err
	}
	if err := checkProductInput(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationError("name must not be empty")
		}
		fields["name"] = name
	}
	if in.SKU != nil {
		fields["sku"] = normalizeSKU(in.SKU)
	}
	if in.UnitPrice != nil {
		fields["unit_price"] = *in.UnitPrice
	}
	if in.StockQuantity != nil {
		fields["stock_quantity"] = *in.StockQuantity
	}
	if len(fields) == 0 {
		return s.find(ctx, productID)
	}

	if err := s.products.Update(ctx, productID, fields); err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("product %d not found", productID)
		}
		if repository.IsDuplicate(err) {
			return nil, conflictError("sku already exists")
		}
		return nil, storageError(err)
	}
	return s.find(ctx, productID)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id Identity, productID uint64) error {
	if _, err := s.gate.Authorize(ctx, id, ActionDeleteProduct); err != nil {
		return err
	}
	if _, err := s.find(ctx, productID); err != nil {
		return err
	}
	referenced, err := s.products.IsReferenced(ctx, productID)
	if err != nil {
		return storageError(err)
	}
	if referenced {
		return conflictError("product %d is referenced by order items", productID)
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		if repository.IsNotFound(err) {
			return notFoundError("product %d not found", productID)
		}
		return storageError(err)
	}
	return nil
}

func (s *catalogService) find(ctx context.Context, productID uint64) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("product %d not found", productID)
		}
		return nil, storageError(err)
	}
	return p, nil
}

func checkProductInput(in ProductInput) error {
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return validationError("unit_price must not be negative")
		}
		if err := checkMoney("unit_price", *in.UnitPrice); err != nil {
			return err
		}
	}
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return validationError("stock_quantity must not be negative")
	}
	return nil
}

// checkMoney rejects amounts a decimal(12,2) column would round or refuse.
func checkMoney(field string, d decimal.Decimal) error {
	if !model.MoneyFits(d) {
		return validationError("%s must have at most %d decimal places", field, model.MoneyScale)
	}
	if !model.MoneyInRange(d) {
		return validationError("%s must be less than %s", field, model.MaxMoney.String())
	}
	return nil
}

// normalizeSKU maps a blank sku to NULL so several products may omit it.
func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	v := strings.TrimSpace(*sku)
	if v == "" {
		return nil
	}
	return &v
}
