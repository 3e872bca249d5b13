package portfolio

import (
	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/models"
	"github.com/shopspring/decimal"
)

type PositionPnL struct {
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	PnL           decimal.Decimal `json:"pnl"`
	PnLPercentage decimal.Decimal `json:"pnl_percentage"`
}

type CategorySummary struct {
	Category     string          `json:"category"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	CurrentValue decimal.Decimal `json:"current_value"`
	PnL          decimal.Decimal `json:"pnl"`
}

// MarkPrice is the valuation price for a position. Stocks mark to the
// simulated market price; fixed-income rows carry no market price and mark at
// their cost basis.
func MarkPrice(position *models.Position, asset *models.Asset) decimal.Decimal {
	if asset != nil && asset.IsStock() {
		return asset.CurrentPrice
	}

	return position.AveragePrice
}

// ComputePnL is the pure valuation core shared by the read-side aggregations.
func ComputePnL(position *models.Position, asset *models.Asset) *PositionPnL {
	mark := MarkPrice(position, asset)

	return &PositionPnL{
		Symbol:        position.Symbol,
		Quantity:      position.Quantity,
		AveragePrice:  position.AveragePrice,
		CurrentPrice:  mark,
		CostBasis:     position.CostBasis(),
		CurrentValue:  position.Quantity.Mul(mark),
		PnL:           position.PnL(mark),
		PnLPercentage: position.PnLPercentage(mark),
	}
}

func assetsForPositions(positions []*models.Position) map[string]*models.Asset {
	symbols := make([]string, 0, len(positions))
	for _, position := range positions {
		symbols = append(symbols, position.Symbol)
	}

	var assets []*models.Asset
	config.DataBase.Where("id IN ?", symbols).Find(&assets)

	table := make(map[string]*models.Asset, len(assets))
	for _, asset := range assets {
		table[asset.ID] = asset
	}

	return table
}

func GetPositionPnL(memberID uint64, symbol string) (*PositionPnL, error) {
	position, err := GetPosition(memberID, symbol)
	if err != nil {
		return nil, err
	}

	asset, _ := models.FindAsset(symbol)

	return ComputePnL(position, asset), nil
}

func GetTotalValue(memberID uint64) decimal.Decimal {
	positions := GetPositions(memberID)
	assets := assetsForPositions(positions)

	total := decimal.Zero
	for _, position := range positions {
		total = total.Add(position.Quantity.Mul(MarkPrice(position, assets[position.Symbol])))
	}

	return total
}

func GetSummaryByCategory(memberID uint64) []*CategorySummary {
	positions := GetPositions(memberID)
	assets := assetsForPositions(positions)

	table := make(map[string]*CategorySummary)
	var order []string

	for _, position := range positions {
		asset := assets[position.Symbol]

		category := "uncategorized"
		if asset != nil && asset.Category != "" {
			category = asset.Category
		}

		summary, ok := table[category]
		if !ok {
			summary = &CategorySummary{Category: category}
			table[category] = summary
			order = append(order, category)
		}

		pnl := ComputePnL(position, asset)
		summary.CostBasis = summary.CostBasis.Add(pnl.CostBasis)
		summary.CurrentValue = summary.CurrentValue.Add(pnl.CurrentValue)
		summary.PnL = summary.PnL.Add(pnl.PnL)
	}

	summaries := make([]*CategorySummary, 0, len(order))
	for _, category := range order {
		summaries = append(summaries, table[category])
	}

	return summaries
}
