package models

import (
	"errors"
	"strconv"
	"time"

	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Account struct {
	ID        uint64            `json:"id" gorm:"primaryKey"`
	MemberID  uint64            `json:"member_id"`
	Kind      types.AccountKind `json:"kind"`
	Balance   decimal.Decimal   `json:"balance" gorm:"default:0.0" validate:"ValidateBalance"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (a Account) ValidateBalance(Balance decimal.Decimal) bool {
	return Balance.GreaterThanOrEqual(decimal.Zero)
}

func (a *Account) Member() *Member {
	var member *Member

	config.DataBase.First(&member, "id = ?", a.MemberID)

	return member
}

func (a *Account) PlusFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.New("Cannot add funds (account id: " + strconv.FormatUint(a.ID, 10) + ", amount: " + amount.String() + ", balance: " + a.Balance.String() + ").")
	}

	a.Balance = a.Balance.Add(amount)
	return tx.Save(&a).Error
}

func (a *Account) SubFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(a.Balance) {
		return errors.New("Cannot subtract funds (account id: " + strconv.FormatUint(a.ID, 10) + ", amount: " + amount.String() + ", balance: " + a.Balance.String() + ").")
	}

	a.Balance = a.Balance.Sub(amount)
	return tx.Save(&a).Error
}

type AccountJSON struct {
	ID      uint64            `json:"id"`
	Kind    types.AccountKind `json:"kind"`
	Balance decimal.Decimal   `json:"balance"`
}

func (a *Account) ToJSON() AccountJSON {
	return AccountJSON{
		ID:      a.ID,
		Kind:    a.Kind,
		Balance: a.Balance,
	}
}
