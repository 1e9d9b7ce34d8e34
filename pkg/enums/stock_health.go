package enums

// StockHealth is the coarse indicator shown next to a product in the
// warehouse and store dashboards.
type StockHealth string

const (
	StockHealthOut     StockHealth = "out_of_stock"
	StockHealthLow     StockHealth = "low"
	StockHealthHealthy StockHealth = "healthy"
)

// String implements fmt.Stringer.
func (s StockHealth) String() string {
	return string(s)
}
