package domain

import "github.com/shopspring/decimal"

// Side is a trade direction
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Signal is a parsed trading instruction
type Signal struct {
	Side       Side
	Quantity   decimal.Decimal
	Symbol     string
	StopLoss   *decimal.Decimal
	TakeProfit *decimal.Decimal
}
