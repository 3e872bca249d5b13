package models

import (
	"time"

	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
)

// Asset is a catalog entry. Stocks carry a simulated price, fixed-income
// products carry a rate and maturity. Price fields are mutated only by the
// market simulator.
type Asset struct {
	ID                string              `json:"id" gorm:"primaryKey"`
	Name              string              `json:"name"`
	Kind              types.AssetKind     `json:"kind" gorm:"default:stock"`
	Category          string              `json:"category"`
	CurrentPrice      decimal.Decimal     `json:"current_price" gorm:"default:0.0"`
	DailyVariation    decimal.Decimal     `json:"daily_variation" gorm:"default:0.0"`
	Rate              decimal.NullDecimal `json:"rate"`
	RateType          *string             `json:"rate_type"`
	MaturityDate      *time.Time          `json:"maturity_date"`
	MinimumInvestment decimal.NullDecimal `json:"minimum_investment"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (a *Asset) IsStock() bool {
	return a.Kind == types.AssetStock
}

func (a *Asset) IsFixedIncome() bool {
	return a.Kind == types.AssetFixedIncome
}

func FindAsset(id string) (*Asset, error) {
	var asset *Asset

	result := config.DataBase.First(&asset, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}

	return asset, nil
}

func GetAvailableAssets() []*Asset {
	var assets []*Asset

	config.DataBase.Order("kind asc, id asc").Find(&assets)

	return assets
}

type AssetJSON struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Kind              types.AssetKind     `json:"kind"`
	Category          string              `json:"category"`
	CurrentPrice      decimal.Decimal     `json:"current_price"`
	DailyVariation    decimal.Decimal     `json:"daily_variation"`
	Rate              decimal.NullDecimal `json:"rate,omitempty"`
	RateType          *string             `json:"rate_type,omitempty"`
	MaturityDate      *time.Time          `json:"maturity_date,omitempty"`
	MinimumInvestment decimal.NullDecimal `json:"minimum_investment,omitempty"`
}

func (a *Asset) ToJSON() AssetJSON {
	return AssetJSON{
		ID:                a.ID,
		Name:              a.Name,
		Kind:              a.Kind,
		Category:          a.Category,
		CurrentPrice:      a.CurrentPrice,
		DailyVariation:    a.DailyVariation,
		Rate:              a.Rate,
		RateType:          a.RateType,
		MaturityDate:      a.MaturityDate,
		MinimumInvestment: a.MinimumInvestment,
	}
}
