package sales

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:sales_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.OfflineAllocation{}, &models.SalesRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedAllocation(t *testing.T, conn *gorm.DB, productID, managerID string, quantity int) {
	t.Helper()
	row := models.OfflineAllocation{ProductID: productID, ManagerID: managerID, Quantity: quantity}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("seed allocation: %v", err)
	}
}

func TestRecordSaleAccumulates(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	seedAllocation(t, conn, "RICE-5KG", "mgr-1", 30)

	first, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 10)
	if err != nil {
		t.Fatalf("first sale: %v", err)
	}
	if first.SoldQuantity != 10 || first.Remaining != 20 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 15)
	if err != nil {
		t.Fatalf("second sale: %v", err)
	}
	if second.SoldQuantity != 25 || second.Remaining != 5 {
		t.Fatalf("unexpected second result: %+v", second)
	}
}

func TestRecordSaleRejectsOverAllocation(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	seedAllocation(t, conn, "RICE-5KG", "mgr-1", 30)

	if _, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 25); err != nil {
		t.Fatalf("setup sale: %v", err)
	}

	_, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 10)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCapacity {
		t.Fatalf("expected capacity error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected detail map, got %T", typed.Details())
	}
	if details["remaining_capacity"] != 5 {
		t.Fatalf("expected remaining_capacity 5, got %v", details["remaining_capacity"])
	}

	// Rejected sale leaves the counter untouched; the exact remainder still
	// fits.
	result, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 5)
	if err != nil {
		t.Fatalf("exact-fit sale: %v", err)
	}
	if result.SoldQuantity != 30 || result.Remaining != 0 {
		t.Fatalf("unexpected final state: %+v", result)
	}
}

func TestRecordSaleRequiresAllocation(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	seedAllocation(t, conn, "RICE-5KG", "mgr-1", 30)

	_, err := svc.RecordSale(ctx, "mgr-2", "RICE-5KG", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unallocated manager, got %v", err)
	}
}

func TestRecordSaleValidatesQuantity(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	for _, quantity := range []int{0, -5} {
		_, err := svc.RecordSale(context.Background(), "mgr-1", "RICE-5KG", quantity)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("quantity %d: expected validation error, got %v", quantity, err)
		}
	}
}

func TestGetSoldDefaultsToZero(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	seedAllocation(t, conn, "RICE-5KG", "mgr-1", 30)

	sold, err := svc.GetSold(ctx, "mgr-1", "RICE-5KG")
	if err != nil {
		t.Fatalf("get sold: %v", err)
	}
	if sold != 0 {
		t.Fatalf("expected zero before any sale, got %d", sold)
	}

	if _, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 7); err != nil {
		t.Fatalf("record: %v", err)
	}
	sold, err = svc.GetSold(ctx, "mgr-1", "RICE-5KG")
	if err != nil {
		t.Fatalf("get sold after sale: %v", err)
	}
	if sold != 7 {
		t.Fatalf("expected 7, got %d", sold)
	}
}

func TestRecordSaleConcurrentSalesNeverOversell(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// sqlite returns busy errors under concurrent writers; one connection
	// serializes the driver while the goroutines still race above it.
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	seedAllocation(t, conn, "RICE-5KG", "mgr-1", 10)

	const attempts = 30
	var committed, rejected int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 1)
			if err == nil {
				atomic.AddInt64(&committed, 1)
				return
			}
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeCapacity {
				atomic.AddInt64(&rejected, 1)
				return
			}
			t.Errorf("unexpected error: %v", err)
		}()
	}
	wg.Wait()

	if committed != 10 || rejected != attempts-10 {
		t.Fatalf("expected 10 committed and %d rejected, got %d committed %d rejected",
			attempts-10, committed, rejected)
	}
	sold, err := svc.GetSold(ctx, "mgr-1", "RICE-5KG")
	if err != nil {
		t.Fatalf("get sold: %v", err)
	}
	if sold != 10 {
		t.Fatalf("counter exceeded the allocation: sold %d of 10", sold)
	}
}

func TestListManagerSales(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()
	seedAllocation(t, conn, "RICE-5KG", "mgr-1", 30)
	seedAllocation(t, conn, "MILK-1L", "mgr-1", 10)

	if _, err := svc.RecordSale(ctx, "mgr-1", "RICE-5KG", 4); err != nil {
		t.Fatalf("record rice: %v", err)
	}
	if _, err := svc.RecordSale(ctx, "mgr-1", "MILK-1L", 2); err != nil {
		t.Fatalf("record milk: %v", err)
	}

	summaries, err := svc.ListManagerSales(ctx, "mgr-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	byProduct := map[string]int{}
	for _, s := range summaries {
		byProduct[s.ProductID] = s.SoldQuantity
	}
	if byProduct["RICE-5KG"] != 4 || byProduct["MILK-1L"] != 2 {
		t.Fatalf("unexpected summaries: %v", byProduct)
	}
}
