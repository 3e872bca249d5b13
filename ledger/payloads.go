package ledger

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
)

type DepositPayload struct {
	AccountID uint64          `json:"account_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"AmountValidator"`
}

func (p DepositPayload) AmountValidator(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

type WithdrawPayload struct {
	AccountID uint64          `json:"account_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"AmountValidator"`
}

func (p WithdrawPayload) AmountValidator(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

// TransferPayload targets either another account by id, or, for external
// transfers, a recipient resolved by contact (email or uid) whose current
// account receives the funds.
type TransferPayload struct {
	FromAccountID uint64          `json:"from_account_id" validate:"required"`
	ToAccountID   uint64          `json:"to_account_id"`
	Contact       string          `json:"contact"`
	Amount        decimal.Decimal `json:"amount" validate:"AmountValidator"`
	External      bool            `json:"external"`
}

func (p TransferPayload) AmountValidator(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

type BuyAssetPayload struct {
	AccountID uint64          `json:"account_id" validate:"required"`
	AssetID   string          `json:"asset_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"QuantityValidator"`
	Price     decimal.Decimal `json:"price" validate:"PriceValidator"`
}

func (p BuyAssetPayload) QuantityValidator(Quantity decimal.Decimal) bool {
	return Quantity.IsPositive()
}

func (p BuyAssetPayload) PriceValidator(Price decimal.Decimal) bool {
	return Price.IsPositive()
}

type SellAssetPayload struct {
	AccountID    uint64          `json:"account_id" validate:"required"`
	Symbol       string          `json:"symbol" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"QuantityValidator"`
	CurrentPrice decimal.Decimal `json:"current_price" validate:"PriceValidator"`
}

func (p SellAssetPayload) QuantityValidator(Quantity decimal.Decimal) bool {
	return Quantity.IsPositive()
}

func (p SellAssetPayload) PriceValidator(Price decimal.Decimal) bool {
	return Price.IsPositive()
}

type BuyFixedIncomePayload struct {
	AccountID uint64          `json:"account_id" validate:"required"`
	AssetID   string          `json:"asset_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"AmountValidator"`
}

func (p BuyFixedIncomePayload) AmountValidator(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

// validatePayload runs the gookit validators before any atomic unit is
// opened. All payload validation failures surface as InvalidAmount, the only
// non-structural input class the taxonomy carries.
func validatePayload(payload interface{}) error {
	v := validate.Struct(payload)
	if !v.Validate() {
		return ErrInvalidAmount
	}

	return nil
}
