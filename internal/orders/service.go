package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"github.com/freshmartlabs/smartsupply-backend/pkg/enums"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service places consumer orders against the online channel. A purchase
// reduces online_quantity directly; there is no separate sold ledger for the
// online channel.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
}

// PlaceOrderInput carries the cart plus delivery details. Consumer identity
// is always an explicit parameter, never ambient state.
type PlaceOrderInput struct {
	ConsumerID   string
	CustomerName string
	Address      string
	PaymentMode  string
	Lines        []OrderLineInput
}

// OrderLineInput is one cart line.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs the order service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// PlaceOrder commits the whole cart or nothing: every line's stock decrement
// and the order rows land in one transaction.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}
	paymentMode, err := enums.ParsePaymentMode(strings.TrimSpace(input.PaymentMode))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_mode").
			WithDetails(map[string]string{"payment_mode": "must be one of online, cash_on_delivery"})
	}

	order := &models.ConsumerOrder{
		ID:           uuid.New(),
		ConsumerID:   strings.TrimSpace(input.ConsumerID),
		CustomerName: strings.TrimSpace(input.CustomerName),
		Address:      strings.TrimSpace(input.Address),
		PaymentMode:  paymentMode,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		total := decimal.Zero

		for _, line := range input.Lines {
			product, err := txRepo.FindProduct(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}

			applied, err := txRepo.DecrementOnline(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement online stock")
			}
			if !applied {
				return pkgerrors.New(pkgerrors.CodeCapacity, "insufficient online stock").
					WithDetails(map[string]any{
						"product_id":       line.ProductID,
						"online_remaining": product.OnlineQuantity,
					})
			}

			unitPrice := product.Price
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			order.LineItems = append(order.LineItems, models.OrderLineItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				LineTotal: lineTotal,
			})
		}

		order.Total = total.Round(2)
		if err := txRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	return NewOrderDTO(order), nil
}

func validateOrderInput(input PlaceOrderInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.ConsumerID) == "" {
		details["consumer_id"] = "is required"
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.Address) == "" {
		details["address"] = "is required"
	}
	if len(input.Lines) == 0 {
		details["cart"] = "must contain at least one line"
	}
	seen := make(map[string]struct{}, len(input.Lines))
	for i, line := range input.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			details[fmt.Sprintf("cart[%d].product_id", i)] = "is required"
			continue
		}
		if line.Quantity < 1 {
			details[fmt.Sprintf("cart[%d].quantity", i)] = "must be at least 1"
		}
		if _, dup := seen[line.ProductID]; dup {
			details[fmt.Sprintf("cart[%d].product_id", i)] = "duplicate product in cart"
		}
		seen[line.ProductID] = struct{}{}
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "order payload invalid").WithDetails(details)
}
