package ledger

import (
	"errors"
	"fmt"

	"github.com/nubex/bankcore/portfolio"
)

var (
	ErrNotFound             = errors.New("ledger.not_found")
	ErrInvalidAmount        = errors.New("ledger.invalid_amount")
	ErrInvalidAccountKind   = errors.New("ledger.account.invalid_kind")
	ErrInsufficientFunds    = errors.New("ledger.account.insufficient_balance")
	ErrInsufficientPosition = errors.New("ledger.position.insufficient_quantity")
	ErrBelowMinimum         = errors.New("ledger.fixed_income.below_minimum")
	ErrDestinationNotFound  = errors.New("ledger.transfer.destination_not_found")
	ErrInvalidTransfer      = errors.New("ledger.transfer.invalid")
	ErrStoreUnavailable     = errors.New("ledger.store.unavailable")
)

var domainErrors = []error{
	ErrNotFound,
	ErrInvalidAmount,
	ErrInvalidAccountKind,
	ErrInsufficientFunds,
	ErrInsufficientPosition,
	ErrBelowMinimum,
	ErrDestinationNotFound,
	ErrInvalidTransfer,
	portfolio.ErrPositionNotFound,
	portfolio.ErrInsufficientQuantity,
}

// wrapStoreError folds transient backing-store failures into the taxonomy
// while passing domain errors through untouched.
func wrapStoreError(err error) error {
	if err == nil {
		return nil
	}

	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
