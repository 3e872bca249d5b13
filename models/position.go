package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Position is a member's holding in one asset, tracked at weighted-average
// cost. A position with zero quantity is deleted, never stored.
type Position struct {
	ID           uint64          `json:"id" gorm:"primaryKey"`
	MemberID     uint64          `json:"member_id" gorm:"index:idx_positions_member_symbol,unique"`
	AccountID    uint64          `json:"account_id"`
	Symbol       string          `json:"symbol" gorm:"index:idx_positions_member_symbol,unique"`
	Quantity     decimal.Decimal `json:"quantity" validate:"ValidateQuantity"`
	AveragePrice decimal.Decimal `json:"average_price" validate:"ValidateAveragePrice"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (p Position) ValidateQuantity(Quantity decimal.Decimal) bool {
	return Quantity.IsPositive()
}

func (p Position) ValidateAveragePrice(AveragePrice decimal.Decimal) bool {
	return AveragePrice.IsPositive()
}

// ApplyBuy folds a purchase into the position, recomputing the weighted
// average: (oldQty*oldAvg + qty*price) / (oldQty + qty).
func (p *Position) ApplyBuy(quantity, unitPrice decimal.Decimal) {
	totalCost := p.Quantity.Mul(p.AveragePrice).Add(quantity.Mul(unitPrice))
	totalQuantity := p.Quantity.Add(quantity)

	p.AveragePrice = totalCost.Div(totalQuantity)
	p.Quantity = totalQuantity
}

// ApplySell reduces the quantity. The average price of the remainder does not
// change, selling realizes cost basis at the current average.
func (p *Position) ApplySell(quantity decimal.Decimal) error {
	if quantity.GreaterThan(p.Quantity) {
		return errors.New("Cannot reduce position (symbol: " + p.Symbol + ", quantity: " + quantity.String() + ", held: " + p.Quantity.String() + ").")
	}

	p.Quantity = p.Quantity.Sub(quantity)
	return nil
}

// Exhausted reports whether the position reached exactly zero quantity.
func (p *Position) Exhausted() bool {
	return p.Quantity.IsZero()
}

// CostBasis is the total invested amount still carried by the position.
func (p *Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AveragePrice)
}

// PnL against a mark price: qty * (current - avg).
func (p *Position) PnL(currentPrice decimal.Decimal) decimal.Decimal {
	return p.Quantity.Mul(currentPrice.Sub(p.AveragePrice))
}

// PnLPercentage against a mark price: (current - avg) / avg * 100.
func (p *Position) PnLPercentage(currentPrice decimal.Decimal) decimal.Decimal {
	if p.AveragePrice.IsZero() {
		return decimal.Zero
	}

	return currentPrice.Sub(p.AveragePrice).Div(p.AveragePrice).Mul(decimal.NewFromInt(100))
}
