package pricing

import (
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/models"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const LastTickCacheKey = "bankcore:market:last_tick"

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

type PriceUpdate struct {
	Symbol    string          `json:"symbol"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	Variation decimal.Decimal `json:"variation"`
}

type Simulator struct {
	rng *rand.Rand
}

func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Simulator{rng: rng}
}

// GenerateMarketVariation draws a signed daily percentage variation. The
// magnitude falls in [0.1,2) with probability 0.4, [2,3) with 0.3, [3,4)
// with 0.2 and [4,5] with 0.1; the sign is an independent coin flip.
func (s *Simulator) GenerateMarketVariation() decimal.Decimal {
	band := s.rng.Float64()

	var magnitude float64
	switch {
	case band < 0.4:
		magnitude = 0.1 + s.rng.Float64()*1.9
	case band < 0.7:
		magnitude = 2 + s.rng.Float64()
	case band < 0.9:
		magnitude = 3 + s.rng.Float64()
	default:
		magnitude = 4 + s.rng.Float64()
	}

	variation := decimal.NewFromFloat(magnitude).Round(4)
	if s.rng.Float64() < 0.5 {
		variation = variation.Neg()
	}

	return variation
}

// ApplyVariation prices a tick: newPrice = oldPrice * (1 + variation/100),
// kept at cent precision.
func ApplyVariation(oldPrice, variation decimal.Decimal) decimal.Decimal {
	return oldPrice.Mul(one.Add(variation.Div(hundred))).Round(2)
}

// SimulateMarketVariation reprices every stock in the catalog as one tick.
// It only ever touches asset price fields; balances and positions read the
// latest price at operation time.
func (s *Simulator) SimulateMarketVariation() ([]*PriceUpdate, error) {
	var assets []*models.Asset

	if result := config.DataBase.Where("kind = ?", types.AssetStock).Order("id asc").Find(&assets); result.Error != nil {
		return nil, result.Error
	}

	updates := make([]*PriceUpdate, 0, len(assets))

	err := config.DataBase.Transaction(func(tx *gorm.DB) error {
		for _, asset := range assets {
			variation := s.GenerateMarketVariation()
			oldPrice := asset.CurrentPrice

			asset.CurrentPrice = ApplyVariation(oldPrice, variation)
			asset.DailyVariation = variation

			if err := tx.Save(asset).Error; err != nil {
				return err
			}

			updates = append(updates, &PriceUpdate{
				Symbol:    asset.ID,
				OldPrice:  oldPrice,
				NewPrice:  asset.CurrentPrice,
				Variation: variation,
			})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.publishTick(updates)

	return updates, nil
}

// publishTick pushes the committed tick to the cache and the time-series
// store. Both writes are best effort; a failed publish never fails the tick.
func (s *Simulator) publishTick(updates []*PriceUpdate) {
	if config.Redis != nil {
		if err := config.Redis.SetKey(LastTickCacheKey, updates, redis.KeepTTL); err != nil {
			config.Logger.Errorf("[pricing.simulator] failed to cache tick: %v", err)
		}
	}

	if config.InfluxDB == nil {
		return
	}

	for _, update := range updates {
		oldPrice, _ := update.OldPrice.Float64()
		newPrice, _ := update.NewPrice.Float64()
		variation, _ := update.Variation.Float64()

		tags := map[string]string{"symbol": update.Symbol}
		fields := map[string]interface{}{
			"old_price": oldPrice,
			"new_price": newPrice,
			"variation": variation,
		}

		config.InfluxDB.NewPoint("market_prices", tags, fields)
	}
}
