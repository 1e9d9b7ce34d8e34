package orders

import (
	"time"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the committed order returned to the consumer.
type OrderDTO struct {
	ID           uuid.UUID       `json:"order_id"`
	ConsumerID   string          `json:"consumer_id"`
	CustomerName string          `json:"customer_name"`
	Address      string          `json:"address"`
	PaymentMode  string          `json:"payment_mode"`
	Total        decimal.Decimal `json:"total"`
	Lines        []OrderLineDTO  `json:"lines"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OrderLineDTO is one priced line of a committed order.
type OrderLineDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewOrderDTO converts the stored order into the response payload.
func NewOrderDTO(order *models.ConsumerOrder) *OrderDTO {
	if order == nil {
		return nil
	}
	lines := make([]OrderLineDTO, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lines = append(lines, OrderLineDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return &OrderDTO{
		ID:           order.ID,
		ConsumerID:   order.ConsumerID,
		CustomerName: order.CustomerName,
		Address:      order.Address,
		PaymentMode:  order.PaymentMode.String(),
		Total:        order.Total,
		Lines:        lines,
		CreatedAt:    order.CreatedAt,
	}
}
