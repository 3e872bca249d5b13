package config

import (
	"os"

	"github.com/shopspring/decimal"
)

// Financial parameters tunable per deployment. Percent values are whole
// numbers (0.5 means 0.5%).
var (
	TransferFeePercent   decimal.Decimal
	StockGainsTaxPercent decimal.Decimal
)

func LoadAppConfig() {
	TransferFeePercent = envDecimal("EXTERNAL_TRANSFER_FEE_PERCENT", "0.5")
	StockGainsTaxPercent = envDecimal("STOCK_GAINS_TAX_PERCENT", "15")
}

func envDecimal(key, fallback string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		Logger.Errorf("Invalid decimal for %s: %s, using default %s", key, raw, fallback)
		value, _ = decimal.NewFromString(fallback)
	}

	return value
}
