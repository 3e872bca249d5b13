package reporting

import (
	"time"

	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/fixedincome"
	"github.com/nubex/bankcore/models"
	"github.com/nubex/bankcore/portfolio"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Read-only views over committed state. Nothing here mutates, and nothing
// here runs inside a ledger atomic unit.

type Filter struct {
	MemberID  uint64
	AccountID uint64
	Kind      types.TransactionKind
	From      time.Time
	To        time.Time
	Page      int
	Limit     int
}

type HistoryPage struct {
	Transactions []*models.Transaction `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

func History(filter Filter) (*HistoryPage, error) {
	query := config.DataBase.Model(&models.Transaction{})

	if filter.MemberID != 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.AccountID != 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}

	var transactions []*models.Transaction
	if err := query.Order("id desc").Offset((page - 1) * limit).Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return &HistoryPage{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		Limit:        limit,
	}, nil
}

func GetStatement(accountID uint64, from, to time.Time) (*Statement, error) {
	var history []*models.Transaction

	result := config.DataBase.
		Where("account_id = ? AND created_at <= ?", accountID, to).
		Order("id asc").
		Find(&history)

	if result.Error != nil {
		return nil, result.Error
	}

	return BuildStatement(accountID, from, to, history), nil
}

func GetStatistics(memberID uint64, year int) ([]*MonthlyStat, error) {
	var transactions []*models.Transaction

	result := config.DataBase.
		Where("member_id = ? AND created_at >= ? AND created_at < ?",
			memberID,
			time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)).
		Order("id asc").
		Find(&transactions)

	if result.Error != nil {
		return nil, result.Error
	}

	return GroupByKindAndMonth(transactions, year), nil
}

func GetTaxReport(memberID uint64, year int) ([]*MonthlyTax, error) {
	var transactions []*models.Transaction

	result := config.DataBase.
		Where("member_id = ? AND kind IN ? AND created_at < ?",
			memberID,
			[]types.TransactionKind{types.KindBuyAsset, types.KindSellAsset, types.KindBuyFixedIncome},
			time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)).
		Order("id asc").
		Find(&transactions)

	if result.Error != nil {
		return nil, result.Error
	}

	return ReplayRealizedGains(transactions, year), nil
}

type PortfolioSummary struct {
	Positions      []*portfolio.PositionPnL `json:"positions"`
	TotalCostBasis decimal.Decimal          `json:"total_cost_basis"`
	TotalValue     decimal.Decimal          `json:"total_value"`
	TotalPnL       decimal.Decimal          `json:"total_pnl"`
}

func GetPortfolioSummary(memberID uint64) *PortfolioSummary {
	summary := &PortfolioSummary{}

	for _, position := range portfolio.GetPositions(memberID) {
		asset, _ := models.FindAsset(position.Symbol)
		pnl := portfolio.ComputePnL(position, asset)

		summary.Positions = append(summary.Positions, pnl)
		summary.TotalCostBasis = summary.TotalCostBasis.Add(pnl.CostBasis)
		summary.TotalValue = summary.TotalValue.Add(pnl.CurrentValue)
		summary.TotalPnL = summary.TotalPnL.Add(pnl.PnL)
	}

	return summary
}

// GetFixedIncomeProjection projects the held-to-maturity yield of a member's
// fixed-income position, with the invested cost basis as principal.
func GetFixedIncomeProjection(memberID uint64, symbol string, now time.Time) (*fixedincome.Return, error) {
	position, err := portfolio.GetPosition(memberID, symbol)
	if err != nil {
		return nil, err
	}

	asset, err := models.FindAsset(symbol)
	if err != nil || !asset.IsFixedIncome() || asset.MaturityDate == nil {
		return nil, gorm.ErrRecordNotFound
	}

	projection := fixedincome.CalculateReturn(position.CostBasis(), asset.Rate.Decimal, *asset.MaturityDate, now)

	return &projection, nil
}

// GetAvailableAssets merges the stock and fixed-income catalog rows into one
// display list.
func GetAvailableAssets() []models.AssetJSON {
	assets := models.GetAvailableAssets()

	list := make([]models.AssetJSON, 0, len(assets))
	for _, asset := range assets {
		list = append(list, asset.ToJSON())
	}

	return list
}
