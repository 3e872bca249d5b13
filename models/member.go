package models

import (
	"time"

	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/types"
	"gorm.io/gorm"
)

type Member struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	State     string    `json:"state" gorm:"default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Member) GetAccount(kind types.AccountKind) *Account {
	var account *Account

	config.DataBase.FirstOrCreate(&account, Account{MemberID: m.ID, Kind: kind})

	return account
}

// CreateMemberWithAccounts creates the member together with its current and
// investment accounts as one unit. Every member has exactly one of each.
func CreateMemberWithAccounts(member *Member) error {
	return config.DataBase.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		for _, kind := range []types.AccountKind{types.AccountCurrent, types.AccountInvestment} {
			account := &Account{MemberID: member.ID, Kind: kind}
			if err := tx.Create(account).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func FindMemberByContact(contact string) (*Member, error) {
	var member *Member

	result := config.DataBase.Where("email = ? OR uid = ?", contact, contact).First(&member)
	if result.Error != nil {
		return nil, result.Error
	}

	return member, nil
}
