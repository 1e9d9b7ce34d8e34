package availability

import (
	"math"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"github.com/freshmartlabs/smartsupply-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// WarehouseView is the warehouse-wide snapshot of one product: the split
// across channels plus how far each store has drawn down its allocation.
type WarehouseView struct {
	ProductID      string                `json:"id"`
	Name           string                `json:"name"`
	Price          decimal.Decimal       `json:"price"`
	TotalQuantity  int                   `json:"total_quantity"`
	OnlineQuantity int                   `json:"online_quantity"`
	OfflineLeft    int                   `json:"offline_left"`
	PerStore       []StoreAllocationView `json:"per_store"`
}

// StoreAllocationView is one store's row inside a WarehouseView.
type StoreAllocationView struct {
	ManagerID string `json:"manager_id"`
	Allocated int    `json:"allocated"`
	Sold      int    `json:"sold"`
	Remaining int    `json:"remaining"`
}

// StoreView is what a single store manager sees for one product.
type StoreView struct {
	ProductID   string            `json:"product_id"`
	Name        string            `json:"name"`
	Price       decimal.Decimal   `json:"price"`
	Allocated   int               `json:"allocated"`
	Sold        int               `json:"sold"`
	Remaining   int               `json:"remaining"`
	PercentSold int               `json:"percent_sold"`
	StockHealth enums.StockHealth `json:"stock_health"`
}

// ConsumerView is the storefront card for one product. Consumer purchases
// draw down online_quantity directly, so the remaining figure is the live
// online stock.
type ConsumerView struct {
	ProductID       string            `json:"id"`
	Name            string            `json:"name"`
	Price           decimal.Decimal   `json:"price"`
	OnlineRemaining int               `json:"online_remaining"`
	StockHealth     enums.StockHealth `json:"stock_health"`
}

// lowStockPercent marks a channel low once remaining stock drops to this
// share of its capacity.
const lowStockPercent = 10

// BuildWarehouseView derives the warehouse snapshot. soldByManager carries
// the cumulative sold figure per manager; managers without sales default to
// zero.
func BuildWarehouseView(product *models.Product, soldByManager map[string]int) WarehouseView {
	allocated := 0
	perStore := make([]StoreAllocationView, 0, len(product.Allocations))
	for _, alloc := range product.Allocations {
		allocated += alloc.Quantity
		sold := soldByManager[alloc.ManagerID]
		perStore = append(perStore, StoreAllocationView{
			ManagerID: alloc.ManagerID,
			Allocated: alloc.Quantity,
			Sold:      sold,
			Remaining: alloc.Quantity - sold,
		})
	}
	return WarehouseView{
		ProductID:      product.ID,
		Name:           product.Name,
		Price:          product.Price,
		TotalQuantity:  product.TotalQuantity,
		OnlineQuantity: product.OnlineQuantity,
		OfflineLeft:    product.TotalQuantity - product.OnlineQuantity - allocated,
		PerStore:       perStore,
	}
}

// BuildStoreView derives one manager's view of a product. The second return
// is false when the manager holds no allocation on it.
func BuildStoreView(product *models.Product, managerID string, sold int) (StoreView, bool) {
	for _, alloc := range product.Allocations {
		if alloc.ManagerID != managerID {
			continue
		}
		remaining := alloc.Quantity - sold
		return StoreView{
			ProductID:   product.ID,
			Name:        product.Name,
			Price:       product.Price,
			Allocated:   alloc.Quantity,
			Sold:        sold,
			Remaining:   remaining,
			PercentSold: percentOf(sold, alloc.Quantity),
			StockHealth: healthFor(remaining, alloc.Quantity),
		}, true
	}
	return StoreView{}, false
}

// BuildConsumerView derives the storefront snapshot.
func BuildConsumerView(product *models.Product) ConsumerView {
	return ConsumerView{
		ProductID:       product.ID,
		Name:            product.Name,
		Price:           product.Price,
		OnlineRemaining: product.OnlineQuantity,
		StockHealth:     healthFor(product.OnlineQuantity, product.TotalQuantity),
	}
}

// percentOf guards the allocated=0 case: an empty allocation reports 0%, it
// never divides by zero.
func percentOf(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func healthFor(remaining, capacity int) enums.StockHealth {
	switch {
	case remaining <= 0:
		return enums.StockHealthOut
	case capacity > 0 && remaining*100 <= capacity*lowStockPercent:
		return enums.StockHealthLow
	default:
		return enums.StockHealthHealthy
	}
}
