package ledger

import (
	"errors"

	"github.com/google/uuid"
	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/models"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OperationResult struct {
	TransactionRef uuid.UUID             `json:"transaction_ref"`
	Kind           types.TransactionKind `json:"kind"`
	NewBalance     decimal.Decimal       `json:"new_balance"`
}

type TransferResult struct {
	TransactionRef uuid.UUID       `json:"transaction_ref"`
	ToAccountID    uint64          `json:"to_account_id"`
	Fee            decimal.Decimal `json:"fee"`
	NewBalance     decimal.Decimal `json:"new_balance"`
}

func lockAccount(tx *gorm.DB, id uint64) (*models.Account, error) {
	var account *models.Account

	result := models.LockTable(tx, "accounts").Where("id = ?", id).First(&account)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return account, nil
}

func Deposit(payload DepositPayload) (*OperationResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var result *OperationResult

	err := config.DataBase.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, payload.AccountID)
		if err != nil {
			return err
		}

		if account.Kind != types.AccountCurrent {
			return ErrInvalidAccountKind
		}

		if err := account.PlusFunds(tx, payload.Amount); err != nil {
			return err
		}

		transaction := &models.Transaction{
			TransactionRef: uuid.New(),
			MemberID:       account.MemberID,
			AccountID:      account.ID,
			Kind:           types.KindDeposit,
			Amount:         payload.Amount,
		}

		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		result = &OperationResult{
			TransactionRef: transaction.TransactionRef,
			Kind:           transaction.Kind,
			NewBalance:     account.Balance,
		}

		return nil
	})

	if err != nil {
		return nil, wrapStoreError(err)
	}

	return result, nil
}

func Withdraw(payload WithdrawPayload) (*OperationResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var result *OperationResult

	err := config.DataBase.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, payload.AccountID)
		if err != nil {
			return err
		}

		if account.Kind != types.AccountCurrent {
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
			Kind:           types.KindWithdraw,
			Amount:         payload.Amount,
		}

		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		result = &OperationResult{
			TransactionRef: transaction.TransactionRef,
			Kind:           transaction.Kind,
			NewBalance:     account.Balance,
		}

		return nil
	})

	if err != nil {
		return nil, wrapStoreError(err)
	}

	return result, nil
}

// resolveDestination turns the payload's target into a concrete account id.
// External transfers look the recipient up by contact and credit their
// current account.
func resolveDestination(payload TransferPayload) (uint64, error) {
	if !payload.External {
		if payload.ToAccountID == 0 {
			return 0, ErrDestinationNotFound
		}

		return payload.ToAccountID, nil
	}

	member, err := models.FindMemberByContact(payload.Contact)
	if err != nil {
		return 0, ErrDestinationNotFound
	}

	var account *models.Account
	result := config.DataBase.Where("member_id = ? AND kind = ?", member.ID, types.AccountCurrent).First(&account)
	if result.Error != nil {
		return 0, ErrDestinationNotFound
	}

	return account.ID, nil
}

func Transfer(payload TransferPayload) (*TransferResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	toAccountID, err := resolveDestination(payload)
	if err != nil {
		return nil, err
	}

	if toAccountID == payload.FromAccountID {
		return nil, ErrInvalidTransfer
	}

	fee := decimal.Zero
	outKind, inKind := types.KindInternalTransferOut, types.KindInternalTransferIn
	if payload.External {
		fee = payload.Amount.Mul(config.TransferFeePercent).Div(decimal.NewFromInt(100))
		outKind, inKind = types.KindExternalTransferOut, types.KindExternalTransferIn
	}

	var result *TransferResult

	err = config.DataBase.Transaction(func(tx *gorm.DB) error {
		var accounts []*models.Account

		// Both rows locked in one query; IN with ascending ids keeps the
		// lock order deterministic across concurrent transfers.
		models.LockTable(tx, "accounts").
			Where("id IN ?", []uint64{payload.FromAccountID, toAccountID}).
			Order("id asc").
			Find(&accounts)

		if len(accounts) != 2 {
			return ErrNotFound
		}

		accountsTable := make(map[uint64]*models.Account, 2)
		for _, account := range accounts {
			accountsTable[account.ID] = account
		}

		source := accountsTable[payload.FromAccountID]
		destination := accountsTable[toAccountID]

		if payload.Amount.Add(fee).GreaterThan(source.Balance) {
			return ErrInsufficientFunds
		}

		if err := source.SubFunds(tx, payload.Amount.Add(fee)); err != nil {
			return err
		}
		if err := destination.PlusFunds(tx, payload.Amount); err != nil {
			return err
		}

		ref := uuid.New()

		debit := &models.Transaction{
			TransactionRef: ref,
			MemberID:       source.MemberID,
			AccountID:      source.ID,
			Kind:           outKind,
			Amount:         payload.Amount,
			Fee:            fee,
		}
		credit := &models.Transaction{
			TransactionRef: ref,
			MemberID:       destination.MemberID,
			AccountID:      destination.ID,
			Kind:           inKind,
			Amount:         payload.Amount,
		}

		if err := tx.Create(debit).Error; err != nil {
			return err
		}
		if err := tx.Create(credit).Error; err != nil {
			return err
		}

		transfer := &models.Transfer{
			TransactionRef: ref,
			FromAccountID:  source.ID,
			ToAccountID:    destination.ID,
			Status:         types.TransferCompleted,
		}

		if err := tx.Create(transfer).Error; err != nil {
			return err
		}

		result = &TransferResult{
			TransactionRef: ref,
			ToAccountID:    destination.ID,
			Fee:            fee,
			NewBalance:     source.Balance,
		}

		return nil
	})

	if err != nil {
		return nil, wrapStoreError(err)
	}

	return result, nil
}
