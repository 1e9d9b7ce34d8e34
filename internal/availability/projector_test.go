package availability

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"github.com/freshmartlabs/smartsupply-backend/pkg/enums"
)

func sampleProduct() *models.Product {
	return &models.Product{
		ID:             "RICE-5KG",
		Name:           "Basmati Rice 5kg",
		Price:          decimal.NewFromFloat(12.50),
		TotalQuantity:  100,
		OnlineQuantity: 40,
		Allocations: []models.OfflineAllocation{
			{ProductID: "RICE-5KG", ManagerID: "mgr-1", Quantity: 30},
			{ProductID: "RICE-5KG", ManagerID: "mgr-2", Quantity: 20},
		},
	}
}

func TestBuildWarehouseView(t *testing.T) {
	view := BuildWarehouseView(sampleProduct(), map[string]int{"mgr-1": 12})

	if view.OfflineLeft != 10 {
		t.Fatalf("expected 10 unassigned units, got %d", view.OfflineLeft)
	}
	if len(view.PerStore) != 2 {
		t.Fatalf("expected 2 store rows, got %d", len(view.PerStore))
	}
	for _, row := range view.PerStore {
		switch row.ManagerID {
		case "mgr-1":
			if row.Sold != 12 || row.Remaining != 18 {
				t.Fatalf("unexpected mgr-1 row: %+v", row)
			}
		case "mgr-2":
			if row.Sold != 0 || row.Remaining != 20 {
				t.Fatalf("unexpected mgr-2 row: %+v", row)
			}
		default:
			t.Fatalf("unexpected manager %s", row.ManagerID)
		}
	}
}

func TestBuildWarehouseViewIsIdempotent(t *testing.T) {
	product := sampleProduct()
	sold := map[string]int{"mgr-1": 12}

	first := BuildWarehouseView(product, sold)
	second := BuildWarehouseView(product, sold)

	if first.OfflineLeft != second.OfflineLeft || len(first.PerStore) != len(second.PerStore) {
		t.Fatalf("projection changed between runs: %+v vs %+v", first, second)
	}
}

func TestBuildStoreView(t *testing.T) {
	view, ok := BuildStoreView(sampleProduct(), "mgr-1", 12)
	if !ok {
		t.Fatal("expected allocation for mgr-1")
	}
	if view.Allocated != 30 || view.Sold != 12 || view.Remaining != 18 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.PercentSold != 40 {
		t.Fatalf("expected 40 percent sold, got %d", view.PercentSold)
	}
	if view.StockHealth != enums.StockHealthHealthy {
		t.Fatalf("expected healthy, got %s", view.StockHealth)
	}

	if _, ok := BuildStoreView(sampleProduct(), "mgr-9", 0); ok {
		t.Fatal("manager without allocation must not get a view")
	}
}

func TestBuildStoreViewZeroAllocation(t *testing.T) {
	product := sampleProduct()
	product.Allocations = []models.OfflineAllocation{
		{ProductID: product.ID, ManagerID: "mgr-1", Quantity: 0},
	}

	view, ok := BuildStoreView(product, "mgr-1", 0)
	if !ok {
		t.Fatal("zero allocation still yields a view")
	}
	if view.PercentSold != 0 {
		t.Fatalf("zero allocation must report 0 percent, got %d", view.PercentSold)
	}
	if view.StockHealth != enums.StockHealthOut {
		t.Fatalf("zero allocation is out of stock, got %s", view.StockHealth)
	}
}

func TestStockHealthThresholds(t *testing.T) {
	tests := []struct {
		remaining int
		capacity  int
		want      enums.StockHealth
	}{
		{remaining: 0, capacity: 30, want: enums.StockHealthOut},
		{remaining: 3, capacity: 30, want: enums.StockHealthLow},
		{remaining: 4, capacity: 30, want: enums.StockHealthHealthy},
		{remaining: 30, capacity: 30, want: enums.StockHealthHealthy},
	}
	for _, tt := range tests {
		if got := healthFor(tt.remaining, tt.capacity); got != tt.want {
			t.Fatalf("healthFor(%d, %d) = %s, want %s", tt.remaining, tt.capacity, got, tt.want)
		}
	}
}

func TestBuildConsumerView(t *testing.T) {
	view := BuildConsumerView(sampleProduct())
	if view.OnlineRemaining != 40 {
		t.Fatalf("expected online remaining 40, got %d", view.OnlineRemaining)
	}
	if view.StockHealth != enums.StockHealthHealthy {
		t.Fatalf("expected healthy, got %s", view.StockHealth)
	}

	empty := sampleProduct()
	empty.OnlineQuantity = 0
	if got := BuildConsumerView(empty); got.StockHealth != enums.StockHealthOut {
		t.Fatalf("expected out of stock, got %s", got.StockHealth)
	}
}
