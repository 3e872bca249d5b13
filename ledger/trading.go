package ledger

import (
	"github.com/google/uuid"
	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/models"
	"github.com/nubex/bankcore/portfolio"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TradeResult struct {
	TransactionRef uuid.UUID       `json:"transaction_ref"`
	Symbol         string          `json:"symbol"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Tax            decimal.Decimal `json:"tax"`
	NewBalance     decimal.Decimal `json:"new_balance"`
	AveragePrice   decimal.Decimal `json:"average_price"`
}

func BuyStockAsset(payload BuyAssetPayload) (*TradeResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	asset, err := models.FindAsset(payload.AssetID)
	if err != nil || !asset.IsStock() {
		return nil, ErrNotFound
	}

	cost := payload.Quantity.Mul(payload.Price)

	var result *TradeResult

	err = config.DataBase.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, payload.AccountID)
		if err != nil {
			return err
		}

		if account.Kind != types.AccountInvestment {
			return ErrInvalidAccountKind
		}

		if cost.GreaterThan(account.Balance) {
			return ErrInsufficientFunds
		}

		if err := account.SubFunds(tx, cost); err != nil {
			return err
		}

		transaction := &models.Transaction{
			TransactionRef: uuid.New(),
			MemberID:       account.MemberID,
			AccountID:      account.ID,
			Kind:           types.KindBuyAsset,
			Amount:         cost,
			Symbol:         asset.ID,
			Quantity:       payload.Quantity,
			Price:          payload.Price,
		}

		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		position, err := portfolio.AddOrUpdatePosition(tx, account.MemberID, account.ID, asset.ID, payload.Quantity, payload.Price)
		if err != nil {
			return err
		}

		result = &TradeResult{
			TransactionRef: transaction.TransactionRef,
			Symbol:         asset.ID,
			Quantity:       payload.Quantity,
			Price:          payload.Price,
			NewBalance:     account.Balance,
			AveragePrice:   position.AveragePrice,
		}

		return nil
	})

	if err != nil {
		return nil, wrapStoreError(err)
	}

	return result, nil
}

func SellAsset(payload SellAssetPayload) (*TradeResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var result *TradeResult

	err := config.DataBase.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, payload.AccountID)
		if err != nil {
			return err
		}

		if account.Kind != types.AccountInvestment {
			return ErrInvalidAccountKind
		}

		position, err := portfolio.LockPosition(tx, account.MemberID, payload.Symbol)
		if err != nil {
			return ErrNotFound
		}

		if payload.Quantity.GreaterThan(position.Quantity) {
			return ErrInsufficientPosition
		}

		gross := payload.Quantity.Mul(payload.CurrentPrice)
		gain := payload.Quantity.Mul(payload.CurrentPrice.Sub(position.AveragePrice))

		// Positive realized gains are taxed at source; losses are untaxed
		// and do not carry forward.
		tax := decimal.Zero
		if gain.IsPositive() {
			tax = gain.Mul(config.StockGainsTaxPercent).Div(decimal.NewFromInt(100))
		}

		net := gross.Sub(tax)

		if err := account.PlusFunds(tx, net); err != nil {
			return err
		}

		transaction := &models.Transaction{
			TransactionRef: uuid.New(),
			MemberID:       account.MemberID,
			AccountID:      account.ID,
			Kind:           types.KindSellAsset,
			Amount:         net,
			Fee:            tax,
			Symbol:         payload.Symbol,
			Quantity:       payload.Quantity,
			Price:          payload.CurrentPrice,
		}

		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		if _, err := portfolio.ReducePosition(tx, account.MemberID, payload.Symbol, payload.Quantity); err != nil {
			return err
		}

		result = &TradeResult{
			TransactionRef: transaction.TransactionRef,
			Symbol:         payload.Symbol,
			Quantity:       payload.Quantity,
			Price:          payload.CurrentPrice,
			Tax:            tax,
			NewBalance:     account.Balance,
			AveragePrice:   position.AveragePrice,
		}

		return nil
	})

	if err != nil {
		return nil, wrapStoreError(err)
	}

	return result, nil
}

func BuyFixedIncome(payload BuyFixedIncomePayload) (*TradeResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	asset, err := models.FindAsset(payload.AssetID)
	if err != nil || !asset.IsFixedIncome() {
		return nil, ErrNotFound
	}

	if asset.MinimumInvestment.Valid && payload.Amount.LessThan(asset.MinimumInvestment.Decimal) {
		return nil, ErrBelowMinimum
	}

	var result *TradeResult

	err = config.DataBase.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, payload.AccountID)
		if err != nil {
			return err
		}

		if account.Kind != types.AccountInvestment {
			return ErrInvalidAccountKind
		}

		if payload.Amount.GreaterThan(account.Balance) {
			return ErrInsufficientFunds
		}

		if err := account.SubFunds(tx, payload.Amount); err != nil {
			return err
		}

		transaction := &models.Transaction{
			TransactionRef: uuid.New(),
			MemberID:       account.MemberID,
			AccountID:      account.ID,
			Kind:           types.KindBuyFixedIncome,
			Amount:         payload.Amount,
			Symbol:         asset.ID,
			Quantity:       decimal.NewFromInt(1),
			Price:          payload.Amount,
		}

		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		// One unit per purchase at a unit price of the invested amount, so
		// the weighted-average path accumulates the cost basis.
		position, err := portfolio.AddOrUpdatePosition(tx, account.MemberID, account.ID, asset.ID, decimal.NewFromInt(1), payload.Amount)
		if err != nil {
			return err
		}

		result = &TradeResult{
			TransactionRef: transaction.TransactionRef,
			Symbol:         asset.ID,
			Quantity:       decimal.NewFromInt(1),
			Price:          payload.Amount,
			NewBalance:     account.Balance,
			AveragePrice:   position.AveragePrice,
		}

		return nil
	})

	if err != nil {
		return nil, wrapStoreError(err)
	}

	return result, nil
}
