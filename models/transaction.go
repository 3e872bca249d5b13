package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
)

// Transaction is the append-only record of a financial event. Rows are only
// ever created inside the atomic unit of the operation that produced them.
type Transaction struct {
	ID             uint64                `json:"id" gorm:"primaryKey"`
	TransactionRef uuid.UUID             `json:"transaction_ref" gorm:"type:uuid;index"`
	MemberID       uint64                `json:"member_id"`
	AccountID      uint64                `json:"account_id" gorm:"index"`
	Kind           types.TransactionKind `json:"kind"`
	Amount         decimal.Decimal       `json:"amount" validate:"ValidateAmount"`
	Fee            decimal.Decimal       `json:"fee" gorm:"default:0.0"`
	Symbol         string                `json:"symbol"`
	Quantity       decimal.Decimal       `json:"quantity" gorm:"default:0.0"`
	Price          decimal.Decimal       `json:"price" gorm:"default:0.0"`
	CreatedAt      time.Time             `json:"created_at"`
}

func (t Transaction) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.GreaterThanOrEqual(decimal.Zero)
}

func (t *Transaction) Account() *Account {
	var account *Account

	config.DataBase.First(&account, "id = ?", t.AccountID)

	return account
}

// IsCredit reports whether the row moves funds into its account.
func (t *Transaction) IsCredit() bool {
	switch t.Kind {
	case types.KindDeposit, types.KindInternalTransferIn, types.KindExternalTransferIn, types.KindSellAsset:
		return true
	default:
		return false
	}
}

// SignedAmount is the row's effect on the account balance. For debit rows the
// fee is part of the outflow, for credit rows the amount is already net.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsCredit() {
		return t.Amount
	}
	return t.Amount.Add(t.Fee).Neg()
}
