package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service is the read-only projection path over the quantity ledger and the
// sales recorder. It never mutates.
type Service interface {
	WarehouseList(ctx context.Context, search string) ([]WarehouseView, error)
	WarehouseProduct(ctx context.Context, productID string) (*WarehouseView, error)
	StoreList(ctx context.Context, managerID, search string) ([]StoreView, error)
	ConsumerList(ctx context.Context, search string) ([]ConsumerView, error)
}

type productReader interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, search string) ([]models.Product, error)
	ListSalesForProduct(ctx context.Context, productID string) ([]models.SalesRecord, error)
}

type managerSalesReader interface {
	ListByManager(ctx context.Context, managerID string) ([]models.SalesRecord, error)
}

type service struct {
	products productReader
	sales    managerSalesReader
}

// NewService constructs the projector.
func NewService(products productReader, sales managerSalesReader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if sales == nil {
		return nil, fmt.Errorf("sales reader required")
	}
	return &service{products: products, sales: sales}, nil
}

func (s *service) WarehouseList(ctx context.Context, search string) ([]WarehouseView, error) {
	products, err := s.products.ListProducts(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]WarehouseView, 0, len(products))
	for i := range products {
		soldByManager, err := s.soldByManager(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, BuildWarehouseView(&products[i], soldByManager))
	}
	return views, nil
}

func (s *service) WarehouseProduct(ctx context.Context, productID string) (*WarehouseView, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	soldByManager, err := s.soldByManager(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	view := BuildWarehouseView(product, soldByManager)
	return &view, nil
}

func (s *service) StoreList(ctx context.Context, managerID, search string) ([]StoreView, error) {
	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manager_id is required")
	}
	products, err := s.products.ListProducts(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	records, err := s.sales.ListByManager(ctx, managerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list manager sales")
	}
	soldByProduct := make(map[string]int, len(records))
	for _, record := range records {
		soldByProduct[record.ProductID] = record.SoldQuantity
	}

	views := make([]StoreView, 0, len(products))
	for i := range products {
		if view, ok := BuildStoreView(&products[i], managerID, soldByProduct[products[i].ID]); ok {
			views = append(views, view)
		}
	}
	return views, nil
}

func (s *service) ConsumerList(ctx context.Context, search string) ([]ConsumerView, error) {
	products, err := s.products.ListProducts(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]ConsumerView, 0, len(products))
	for i := range products {
		views = append(views, BuildConsumerView(&products[i]))
	}
	return views, nil
}

func (s *service) soldByManager(ctx context.Context, productID string) (map[string]int, error) {
	records, err := s.products.ListSalesForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales records")
	}
	soldByManager := make(map[string]int, len(records))
	for _, record := range records {
		soldByManager[record.ManagerID] = record.SoldQuantity
	}
	return soldByManager, nil
}
