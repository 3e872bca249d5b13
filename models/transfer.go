package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/types"
)

// Transfer links the debit and credit Transaction rows that share its
// TransactionRef.
type Transfer struct {
	ID             uint64               `json:"id" gorm:"primaryKey"`
	TransactionRef uuid.UUID            `json:"transaction_ref" gorm:"type:uuid;index"`
	FromAccountID  uint64               `json:"from_account_id"`
	ToAccountID    uint64               `json:"to_account_id"`
	Status         types.TransferStatus `json:"status" gorm:"default:pending"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func (t *Transfer) Transactions() []*Transaction {
	var transactions []*Transaction

	config.DataBase.Where("transaction_ref = ?", t.TransactionRef).Order("id asc").Find(&transactions)

	return transactions
}
