package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service records store sales against allocations. Sales are cumulative
// counters; the only derived value callers ever need is remaining capacity,
// which keeps the ceiling check O(1).
type Service interface {
	RecordSale(ctx context.Context, managerID, productID string, quantitySold int) (*SaleResult, error)
	GetSold(ctx context.Context, managerID, productID string) (int, error)
	ListManagerSales(ctx context.Context, managerID string) ([]ManagerSaleSummary, error)
}

// SaleResult is the canonical state after a committed sale.
type SaleResult struct {
	ProductID    string `json:"product_id"`
	ManagerID    string `json:"manager_id"`
	SoldQuantity int    `json:"sold_quantity"`
	Remaining    int    `json:"remaining"`
}

// ManagerSaleSummary is one line of a manager's per-product sales listing.
type ManagerSaleSummary struct {
	ProductID    string `json:"product_id"`
	SoldQuantity int    `json:"sold_quantity"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs the sales recorder.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// RecordSale adds quantitySold to the manager's cumulative counter when the
// new total fits within the allocation. On a capacity violation the error
// carries the exact remaining quantity so the caller can show the ceiling.
func (s *service) RecordSale(ctx context.Context, managerID, productID string, quantitySold int) (*SaleResult, error) {
	managerID = strings.TrimSpace(managerID)
	productID = strings.TrimSpace(productID)
	if managerID == "" || productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manager_id and product_id are required")
	}
	if quantitySold < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity_sold must be at least 1").
			WithDetails(map[string]string{"quantity_sold": "must be at least 1"})
	}

	var result *SaleResult
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		allocation, err := txRepo.FindAllocation(ctx, productID, managerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no allocation for this manager and product")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load allocation")
		}

		if err := txRepo.EnsureRecord(ctx, productID, managerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: ensure sales record")
		}

		applied, err := txRepo.ApplySale(ctx, productID, managerID, quantitySold, allocation.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: apply sale")
		}

		record, err := txRepo.GetRecord(ctx, productID, managerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sales record")
		}

		if !applied {
			remaining := allocation.Quantity - record.SoldQuantity
			if remaining < 0 {
				remaining = 0
			}
			return pkgerrors.New(pkgerrors.CodeCapacity, "sale exceeds remaining allocated stock").
				WithDetails(map[string]any{
					"remaining_capacity": remaining,
					"allocation":         allocation.Quantity,
					"sold_quantity":      record.SoldQuantity,
				})
		}

		result = &SaleResult{
			ProductID:    productID,
			ManagerID:    managerID,
			SoldQuantity: record.SoldQuantity,
			Remaining:    allocation.Quantity - record.SoldQuantity,
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
	}

	return result, nil
}

// GetSold returns the cumulative sold figure; absence of a record is zero,
// not an error.
func (s *service) GetSold(ctx context.Context, managerID, productID string) (int, error) {
	record, err := s.repo.GetRecord(ctx, strings.TrimSpace(productID), strings.TrimSpace(managerID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales record")
	}
	return record.SoldQuantity, nil
}

// ListManagerSales returns the manager's cumulative figures per product.
func (s *service) ListManagerSales(ctx context.Context, managerID string) ([]ManagerSaleSummary, error) {
	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manager_id is required")
	}
	records, err := s.repo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales records")
	}
	summaries := make([]ManagerSaleSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, ManagerSaleSummary{
			ProductID:    record.ProductID,
			SoldQuantity: record.SoldQuantity,
		})
	}
	return summaries, nil
}
