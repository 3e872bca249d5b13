package reporting

import (
	"sort"
	"time"

	"github.com/nubex/bankcore/models"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
)

// The aggregation cores below are pure over transaction slices, so every
// reported figure is reproducible from the log alone.

type Statement struct {
	AccountID      uint64                `json:"account_id"`
	From           time.Time             `json:"from"`
	To             time.Time             `json:"to"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	ClosingBalance decimal.Decimal       `json:"closing_balance"`
	Transactions   []*models.Transaction `json:"transactions"`
}

type MonthlyStat struct {
	Kind  types.TransactionKind `json:"kind"`
	Month time.Month            `json:"month"`
	Count int                   `json:"count"`
	Total decimal.Decimal       `json:"total"`
}

type MonthlyTax struct {
	Month        time.Month      `json:"month"`
	RealizedGain decimal.Decimal `json:"realized_gain"`
	TaxWithheld  decimal.Decimal `json:"tax_withheld"`
}

// SumSigned folds the balance effect of the rows.
func SumSigned(transactions []*models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, transaction := range transactions {
		total = total.Add(transaction.SignedAmount())
	}

	return total
}

// BuildStatement reconstructs an account statement for a window from the
// account's full history up to the window end, ordered by id.
func BuildStatement(accountID uint64, from, to time.Time, history []*models.Transaction) *Statement {
	var before, window []*models.Transaction

	for _, transaction := range history {
		if transaction.CreatedAt.Before(from) {
			before = append(before, transaction)
		} else if !transaction.CreatedAt.After(to) {
			window = append(window, transaction)
		}
	}

	opening := SumSigned(before)

	return &Statement{
		AccountID:      accountID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		ClosingBalance: opening.Add(SumSigned(window)),
		Transactions:   window,
	}
}

// GroupByKindAndMonth aggregates counts and gross amounts per transaction
// kind per month for one year.
func GroupByKindAndMonth(transactions []*models.Transaction, year int) []*MonthlyStat {
	table := make(map[string]*MonthlyStat)

	for _, transaction := range transactions {
		if transaction.CreatedAt.Year() != year {
			continue
		}

		month := transaction.CreatedAt.Month()
		key := transaction.Kind + ":" + month.String()

		stat, ok := table[key]
		if !ok {
			stat = &MonthlyStat{Kind: transaction.Kind, Month: month}
			table[key] = stat
		}

		stat.Count++
		stat.Total = stat.Total.Add(transaction.Amount)
	}

	stats := make([]*MonthlyStat, 0, len(table))
	for _, stat := range table {
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Month != stats[j].Month {
			return stats[i].Month < stats[j].Month
		}
		return stats[i].Kind < stats[j].Kind
	})

	return stats
}

type replayPosition struct {
	quantity decimal.Decimal
	average  decimal.Decimal
}

// ReplayRealizedGains replays the asset transaction history through the
// weighted-average method and aggregates realized gains and withheld tax per
// month of the given year. The input must be ordered by id and contain every
// asset row up to the end of the year.
func ReplayRealizedGains(transactions []*models.Transaction, year int) []*MonthlyTax {
	report := make([]*MonthlyTax, 12)
	for i := range report {
		report[i] = &MonthlyTax{Month: time.Month(i + 1)}
	}

	book := make(map[string]*replayPosition)

	for _, transaction := range transactions {
		switch transaction.Kind {
		case types.KindBuyAsset, types.KindBuyFixedIncome:
			position, ok := book[transaction.Symbol]
			if !ok {
				book[transaction.Symbol] = &replayPosition{
					quantity: transaction.Quantity,
					average:  transaction.Price,
				}
				continue
			}

			totalCost := position.quantity.Mul(position.average).Add(transaction.Quantity.Mul(transaction.Price))
			position.quantity = position.quantity.Add(transaction.Quantity)
			position.average = totalCost.Div(position.quantity)

		case types.KindSellAsset:
			position, ok := book[transaction.Symbol]
			if !ok {
				continue
			}

			gain := transaction.Quantity.Mul(transaction.Price.Sub(position.average))

			position.quantity = position.quantity.Sub(transaction.Quantity)
			if !position.quantity.IsPositive() {
				delete(book, transaction.Symbol)
			}

			if transaction.CreatedAt.Year() != year {
				continue
			}

			entry := report[int(transaction.CreatedAt.Month())-1]
			entry.RealizedGain = entry.RealizedGain.Add(gain)
			entry.TaxWithheld = entry.TaxWithheld.Add(transaction.Fee)
		}
	}

	return report
}
