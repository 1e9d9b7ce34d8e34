package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.OfflineAllocation{},
		&models.SalesRecord{},
		&models.StoreManager{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.NewWithConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, conn
}

func seedManagers(t *testing.T, conn *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		row := models.StoreManager{ID: id, Name: "Store " + id, Location: "Downtown"}
		if err := conn.Create(&row).Error; err != nil {
			t.Fatalf("seed manager %s: %v", id, err)
		}
	}
}

func TestCreateProductPersistsSplit(t *testing.T) {
	t.Parallel()

	svc, repo, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1", "mgr-2")

	dto, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductID:      "RICE-5KG",
		Name:           "Basmati Rice 5kg",
		Price:          decimal.NewFromFloat(12.50),
		TotalQuantity:  100,
		OnlineQuantity: 40,
		Allocations: []AllocationInput{
			{ManagerID: "mgr-1", Quantity: 30},
			{ManagerID: "mgr-2", Quantity: 20},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.ID != "RICE-5KG" || dto.TotalQuantity != 100 || dto.OnlineQuantity != 40 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if len(dto.Allocations) != 2 {
		t.Fatalf("expected 2 allocations in response, got %d", len(dto.Allocations))
	}

	stored, err := repo.FindByID(ctx, "RICE-5KG")
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if len(stored.Allocations) != 2 {
		t.Fatalf("expected 2 allocation rows, got %d", len(stored.Allocations))
	}
}

func TestCreateProductRejectsInvalidSplitAtomically(t *testing.T) {
	t.Parallel()

	svc, repo, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1")

	_, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductID:      "MILK-1L",
		Name:           "Whole Milk 1L",
		Price:          decimal.NewFromFloat(1.20),
		TotalQuantity:  10,
		OnlineQuantity: 8,
		Allocations:    []AllocationInput{{ManagerID: "mgr-1", Quantity: 5}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := repo.FindByID(ctx, "MILK-1L"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("rejected create must not persist anything, got %v", err)
	}
}

func TestCreateProductRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1")

	input := CreateProductInput{
		ProductID:      "EGGS-12",
		Name:           "Eggs (dozen)",
		Price:          decimal.NewFromFloat(3.99),
		TotalQuantity:  50,
		OnlineQuantity: 20,
		Allocations:    []AllocationInput{{ManagerID: "mgr-1", Quantity: 30}},
	}
	if _, err := svc.CreateProduct(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.CreateProduct(ctx, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateProductRejectsUnknownManager(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1")

	_, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductID:      "TEA-100",
		Name:           "Green Tea",
		Price:          decimal.NewFromFloat(4.25),
		TotalQuantity:  40,
		OnlineQuantity: 10,
		Allocations:    []AllocationInput{{ManagerID: "mgr-ghost", Quantity: 10}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown manager, got %v", err)
	}
}

func TestUpdateProductReplacesAllocationSet(t *testing.T) {
	t.Parallel()

	svc, repo, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1", "mgr-2", "mgr-3")

	if _, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductID:      "SUGAR-1KG",
		Name:           "Sugar 1kg",
		Price:          decimal.NewFromFloat(2.10),
		TotalQuantity:  60,
		OnlineQuantity: 20,
		Allocations: []AllocationInput{
			{ManagerID: "mgr-1", Quantity: 20},
			{ManagerID: "mgr-2", Quantity: 20},
		},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Cane Sugar 1kg"
	dto, err := svc.UpdateProduct(ctx, "SUGAR-1KG", UpdateProductInput{
		Name:           &newName,
		TotalQuantity:  80,
		OnlineQuantity: 30,
		Allocations:    []AllocationInput{{ManagerID: "mgr-3", Quantity: 50}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != newName || dto.TotalQuantity != 80 {
		t.Fatalf("unexpected dto after update: %+v", dto)
	}

	stored, err := repo.FindByID(ctx, "SUGAR-1KG")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Allocations) != 1 || stored.Allocations[0].ManagerID != "mgr-3" {
		t.Fatalf("allocation set was not replaced: %+v", stored.Allocations)
	}
}

func TestUpdateProductRejectsAllocationBelowSales(t *testing.T) {
	t.Parallel()

	svc, repo, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1")

	if _, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductID:      "OIL-1L",
		Name:           "Sunflower Oil 1L",
		Price:          decimal.NewFromFloat(5.80),
		TotalQuantity:  50,
		OnlineQuantity: 10,
		Allocations:    []AllocationInput{{ManagerID: "mgr-1", Quantity: 30}},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	record := models.SalesRecord{ProductID: "OIL-1L", ManagerID: "mgr-1", SoldQuantity: 25}
	if err := conn.Create(&record).Error; err != nil {
		t.Fatalf("seed sales: %v", err)
	}

	_, err := svc.UpdateProduct(ctx, "OIL-1L", UpdateProductInput{
		TotalQuantity:  50,
		OnlineQuantity: 10,
		Allocations:    []AllocationInput{{ManagerID: "mgr-1", Quantity: 20}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error when allocation drops below sales, got %v", err)
	}

	// The rejection rolls back: the stored allocation keeps its ceiling.
	stored, err := repo.FindByID(ctx, "OIL-1L")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Allocations) != 1 || stored.Allocations[0].Quantity != 30 {
		t.Fatalf("rejected update must leave allocations untouched: %+v", stored.Allocations)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.UpdateProduct(context.Background(), "MISSING", UpdateProductInput{TotalQuantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProductCascades(t *testing.T) {
	t.Parallel()

	svc, repo, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1")

	if _, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductID:      "SALT-500G",
		Name:           "Salt 500g",
		Price:          decimal.NewFromFloat(0.90),
		TotalQuantity:  30,
		OnlineQuantity: 10,
		Allocations:    []AllocationInput{{ManagerID: "mgr-1", Quantity: 20}},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteProduct(ctx, "SALT-500G"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, "SALT-500G"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected product gone, got %v", err)
	}

	err := svc.DeleteProduct(ctx, "SALT-500G")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestListAvailabilityFiltersBySearch(t *testing.T) {
	t.Parallel()

	svc, _, conn := newTestService(t)
	ctx := context.Background()
	seedManagers(t, conn, "mgr-1")

	for _, spec := range []struct{ id, name string }{
		{"APPLE-GALA", "Gala Apples"},
		{"BANANA-ORG", "Organic Bananas"},
	} {
		if _, err := svc.CreateProduct(ctx, CreateProductInput{
			ProductID:      spec.id,
			Name:           spec.name,
			Price:          decimal.NewFromFloat(2.00),
			TotalQuantity:  10,
			OnlineQuantity: 5,
		}); err != nil {
			t.Fatalf("create %s: %v", spec.id, err)
		}
	}

	all, err := svc.ListAvailability(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	filtered, err := svc.ListAvailability(ctx, "apple")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "APPLE-GALA" {
		t.Fatalf("unexpected filtered result: %+v", filtered)
	}
}
