package portfolio

import (
	"errors"

	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPositionNotFound     = errors.New("portfolio.position.not_found")
	ErrInsufficientQuantity = errors.New("portfolio.position.insufficient_quantity")
)

func GetPosition(memberID uint64, symbol string) (*models.Position, error) {
	var position *models.Position

	result := config.DataBase.Where("member_id = ? AND symbol = ?", memberID, symbol).First(&position)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrPositionNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return position, nil
}

func GetPositions(memberID uint64) []*models.Position {
	var positions []*models.Position

	config.DataBase.Where("member_id = ?", memberID).Order("symbol asc").Find(&positions)

	return positions
}

// HasEnoughQuantity is an advisory pre-check. Callers still re-check under
// the row lock inside their atomic unit.
func HasEnoughQuantity(memberID uint64, symbol string, quantity decimal.Decimal) bool {
	position, err := GetPosition(memberID, symbol)
	if err != nil {
		return false
	}

	return position.Quantity.GreaterThanOrEqual(quantity)
}

// LockPosition reads the position under a FOR UPDATE row lock inside the
// caller's atomic unit.
func LockPosition(tx *gorm.DB, memberID uint64, symbol string) (*models.Position, error) {
	var position *models.Position

	result := models.LockTable(tx, "positions").
		Where("member_id = ? AND symbol = ?", memberID, symbol).First(&position)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrPositionNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return position, nil
}

// AddOrUpdatePosition folds a purchase into the member's position for the
// symbol, creating it on the first buy. Must run inside the caller's atomic
// unit; the row lock serializes concurrent updates to the same key.
func AddOrUpdatePosition(tx *gorm.DB, memberID, accountID uint64, symbol string, quantity, unitPrice decimal.Decimal) (*models.Position, error) {
	position, err := LockPosition(tx, memberID, symbol)
	if errors.Is(err, ErrPositionNotFound) {
		position = &models.Position{
			MemberID:     memberID,
			AccountID:    accountID,
			Symbol:       symbol,
			Quantity:     quantity,
			AveragePrice: unitPrice,
		}

		if err := tx.Create(position).Error; err != nil {
			return nil, err
		}

		return position, nil
	}
	if err != nil {
		return nil, err
	}

	position.ApplyBuy(quantity, unitPrice)

	if err := tx.Save(position).Error; err != nil {
		return nil, err
	}

	return position, nil
}

// ReducePosition takes quantity out of the position, deleting the row when it
// reaches exactly zero. The average price of the remainder is unchanged.
func ReducePosition(tx *gorm.DB, memberID uint64, symbol string, quantity decimal.Decimal) (*models.Position, error) {
	position, err := LockPosition(tx, memberID, symbol)
	if err != nil {
		return nil, err
	}

	if quantity.GreaterThan(position.Quantity) {
		return nil, ErrInsufficientQuantity
	}

	if err := position.ApplySell(quantity); err != nil {
		return nil, ErrInsufficientQuantity
	}

	if position.Exhausted() {
		if err := tx.Delete(position).Error; err != nil {
			return nil, err
		}

		return position, nil
	}

	if err := tx.Save(position).Error; err != nil {
		return nil, err
	}

	return position, nil
}
