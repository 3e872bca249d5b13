package ledger

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/models"
	"github.com/nubex/bankcore/portfolio"
	"github.com/nubex/bankcore/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// The engine suite runs against a real postgres instance, the only backing
// store whose locking semantics the engine relies on.
type suiteEngineTester struct {
	suite.Suite
}

func (s *suiteEngineTester) SetupSuite() {
	config.NewLoggerService()
	config.LoadAppConfig()

	s.Require().NoError(config.ConnectDatabase())
	s.Require().NoError(config.DataBase.AutoMigrate(
		&models.Member{},
		&models.Account{},
		&models.Transaction{},
		&models.Transfer{},
		&models.Position{},
		&models.Asset{},
	))
}

func (s *suiteEngineTester) createMember() (*models.Member, *models.Account, *models.Account) {
	member := &models.Member{
		UID:   fmt.Sprintf("UID%d", time.Now().UnixNano()),
		Email: fmt.Sprintf("member%d@bankcore.test", time.Now().UnixNano()),
		Name:  "Test Member",
	}

	s.Require().NoError(models.CreateMemberWithAccounts(member))

	return member, member.GetAccount(types.AccountCurrent), member.GetAccount(types.AccountInvestment)
}

func (s *suiteEngineTester) createStock(price decimal.Decimal) *models.Asset {
	asset := &models.Asset{
		ID:           fmt.Sprintf("TST%d", time.Now().UnixNano()),
		Name:         "Test Stock",
		Kind:         types.AssetStock,
		Category:     "tech",
		CurrentPrice: price,
	}

	s.Require().NoError(config.DataBase.Create(asset).Error)

	return asset
}

func (s *suiteEngineTester) reload(account *models.Account) *models.Account {
	var fresh *models.Account
	s.Require().NoError(config.DataBase.First(&fresh, "id = ?", account.ID).Error)
	return fresh
}

func (s *suiteEngineTester) fundInvestment(current, investment *models.Account, amount decimal.Decimal) {
	_, err := Deposit(DepositPayload{AccountID: current.ID, Amount: amount})
	s.Require().NoError(err)

	_, err = Transfer(TransferPayload{
		FromAccountID: current.ID,
		ToAccountID:   investment.ID,
		Amount:        amount,
	})
	s.Require().NoError(err)
}

func (s *suiteEngineTester) TestDepositIncreasesBalance() {
	_, current, _ := s.createMember()

	_, err := Deposit(DepositPayload{AccountID: current.ID, Amount: decimal.NewFromInt(1000)})
	s.Require().NoError(err)

	result, err := Deposit(DepositPayload{AccountID: current.ID, Amount: decimal.NewFromInt(500)})
	s.Require().NoError(err)

	s.True(result.NewBalance.Equal(decimal.NewFromInt(1500)))
	s.True(s.reload(current).Balance.Equal(decimal.NewFromInt(1500)))
}

func (s *suiteEngineTester) TestDepositIntoInvestmentRejected() {
	_, _, investment := s.createMember()

	_, err := Deposit(DepositPayload{AccountID: investment.ID, Amount: decimal.NewFromInt(100)})
	s.ErrorIs(err, ErrInvalidAccountKind)

	s.True(s.reload(investment).Balance.IsZero())
}

func (s *suiteEngineTester) TestDepositInvalidAmount() {
	_, current, _ := s.createMember()

	_, err := Deposit(DepositPayload{AccountID: current.ID, Amount: decimal.Zero})
	s.ErrorIs(err, ErrInvalidAmount)

	_, err = Deposit(DepositPayload{AccountID: current.ID, Amount: decimal.NewFromInt(-5)})
	s.ErrorIs(err, ErrInvalidAmount)
}

func (s *suiteEngineTester) TestWithdraw() {
	_, current, _ := s.createMember()

	_, err := Deposit(DepositPayload{AccountID: current.ID, Amount: decimal.NewFromInt(300)})
	s.Require().NoError(err)

	result, err := Withdraw(WithdrawPayload{AccountID: current.ID, Amount: decimal.NewFromInt(120)})
	s.Require().NoError(err)
	s.True(result.NewBalance.Equal(decimal.NewFromInt(180)))

	_, err = Withdraw(WithdrawPayload{AccountID: current.ID, Amount: decimal.NewFromInt(500)})
	s.ErrorIs(err, ErrInsufficientFunds)

	s.True(s.reload(current).Balance.Equal(decimal.NewFromInt(180)))
}

func (s *suiteEngineTester) TestInternalTransfer() {
	_, current, investment := s.createMember()

	_, err := Deposit(DepositPayload{AccountID: current.ID, Amount: decimal.NewFromInt(1000)})
	s.Require().NoError(err)

	result, err := Transfer(TransferPayload{
		FromAccountID: current.ID,
		ToAccountID:   investment.ID,
		Amount:        decimal.NewFromInt(300),
	})
	s.Require().NoError(err)

	s.True(result.Fee.IsZero())
	s.True(s.reload(current).Balance.Equal(decimal.NewFromInt(700)))
	s.True(s.reload(investment).Balance.Equal(decimal.NewFromInt(300)))

	var rows []*models.Transaction
	config.DataBase.Where("transaction_ref = ?", result.TransactionRef).Order("id asc").Find(&rows)
	s.Require().Len(rows, 2)
	s.Equal(types.KindInternalTransferOut, rows[0].Kind)
	s.Equal(types.KindInternalTransferIn, rows[1].Kind)
	s.True(rows[0].Amount.Equal(rows[1].Amount))

	var transfer *models.Transfer
	s.Require().NoError(config.DataBase.First(&transfer, "transaction_ref = ?", result.TransactionRef).Error)
	s.Equal(types.TransferCompleted, transfer.Status)
}

func (s *suiteEngineTester) TestExternalTransferChargesFee() {
	_, source, _ := s.createMember()
	recipient, recipientCurrent, _ := s.createMember()

	_, err := Deposit(DepositPayload{AccountID: source.ID, Amount: decimal.NewFromInt(1000)})
	s.Require().NoError(err)

	result, err := Transfer(TransferPayload{
		FromAccountID: source.ID,
		Contact:       recipient.Email,
		Amount:        decimal.NewFromInt(100),
		External:      true,
	})
	s.Require().NoError(err)

	// default fee is 0.5% of the amount, charged to the source
	s.True(result.Fee.Equal(decimal.NewFromFloat(0.5)))
	s.True(s.reload(source).Balance.Equal(decimal.NewFromFloat(899.5)))
	s.True(s.reload(recipientCurrent).Balance.Equal(decimal.NewFromInt(100)))
}

func (s *suiteEngineTester) TestSelfTransferRejected() {
	_, current, _ := s.createMember()

	_, err := Transfer(TransferPayload{
		FromAccountID: current.ID,
		ToAccountID:   current.ID,
		Amount:        decimal.NewFromInt(10),
	})
	s.ErrorIs(err, ErrInvalidTransfer)
}

func (s *suiteEngineTester) TestTransferDestinationNotFound() {
	_, current, _ := s.createMember()

	_, err := Transfer(TransferPayload{
		FromAccountID: current.ID,
		Contact:       "nobody@bankcore.test",
		Amount:        decimal.NewFromInt(10),
		External:      true,
	})
	s.ErrorIs(err, ErrDestinationNotFound)
}

func (s *suiteEngineTester) TestBuySellFlow() {
	member, current, investment := s.createMember()
	asset := s.createStock(decimal.NewFromInt(10))

	s.fundInvestment(current, investment, decimal.NewFromInt(1000))

	_, err := BuyStockAsset(BuyAssetPayload{
		AccountID: investment.ID,
		AssetID:   asset.ID,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(10),
	})
	s.Require().NoError(err)

	buy, err := BuyStockAsset(BuyAssetPayload{
		AccountID: investment.ID,
		AssetID:   asset.ID,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(20),
	})
	s.Require().NoError(err)

	s.True(buy.AveragePrice.Equal(decimal.NewFromInt(15)), "average: %s", buy.AveragePrice)
	s.True(buy.NewBalance.Equal(decimal.NewFromInt(700)))

	sell, err := SellAsset(SellAssetPayload{
		AccountID:    investment.ID,
		Symbol:       asset.ID,
		Quantity:     decimal.NewFromInt(5),
		CurrentPrice: decimal.NewFromInt(30),
	})
	s.Require().NoError(err)

	// gain 5*(30-15)=75 taxed at the default 15%
	s.True(sell.Tax.Equal(decimal.NewFromFloat(11.25)), "tax: %s", sell.Tax)
	s.True(sell.NewBalance.Equal(decimal.NewFromFloat(838.75)), "balance: %s", sell.NewBalance)

	position, err := portfolio.GetPosition(member.ID, asset.ID)
	s.Require().NoError(err)
	s.True(position.Quantity.Equal(decimal.NewFromInt(15)))
	s.True(position.AveragePrice.Equal(decimal.NewFromInt(15)))

	_, err = SellAsset(SellAssetPayload{
		AccountID:    investment.ID,
		Symbol:       asset.ID,
		Quantity:     decimal.NewFromInt(15),
		CurrentPrice: decimal.NewFromInt(15),
	})
	s.Require().NoError(err)

	_, err = portfolio.GetPosition(member.ID, asset.ID)
	s.ErrorIs(err, portfolio.ErrPositionNotFound)
}

func (s *suiteEngineTester) TestSellInsufficientPosition() {
	_, current, investment := s.createMember()
	asset := s.createStock(decimal.NewFromInt(10))

	s.fundInvestment(current, investment, decimal.NewFromInt(100))

	_, err := BuyStockAsset(BuyAssetPayload{
		AccountID: investment.ID,
		AssetID:   asset.ID,
		Quantity:  decimal.NewFromInt(5),
		Price:     decimal.NewFromInt(10),
	})
	s.Require().NoError(err)

	_, err = SellAsset(SellAssetPayload{
		AccountID:    investment.ID,
		Symbol:       asset.ID,
		Quantity:     decimal.NewFromInt(6),
		CurrentPrice: decimal.NewFromInt(10),
	})
	s.ErrorIs(err, ErrInsufficientPosition)
}

func (s *suiteEngineTester) TestBuyFixedIncome() {
	member, current, investment := s.createMember()

	maturity := time.Now().AddDate(2, 0, 0)
	rate := decimal.NewFromFloat(0.12)
	rateType := types.RatePreFixed
	product := &models.Asset{
		ID:                fmt.Sprintf("CDB%d", time.Now().UnixNano()),
		Name:              "Test CDB",
		Kind:              types.AssetFixedIncome,
		Category:          "fixed_income",
		Rate:              decimal.NullDecimal{Decimal: rate, Valid: true},
		RateType:          &rateType,
		MaturityDate:      &maturity,
		MinimumInvestment: decimal.NullDecimal{Decimal: decimal.NewFromInt(500), Valid: true},
	}
	s.Require().NoError(config.DataBase.Create(product).Error)

	s.fundInvestment(current, investment, decimal.NewFromInt(3000))

	_, err := BuyFixedIncome(BuyFixedIncomePayload{
		AccountID: investment.ID,
		AssetID:   product.ID,
		Amount:    decimal.NewFromInt(100),
	})
	s.ErrorIs(err, ErrBelowMinimum)

	first, err := BuyFixedIncome(BuyFixedIncomePayload{
		AccountID: investment.ID,
		AssetID:   product.ID,
		Amount:    decimal.NewFromInt(1000),
	})
	s.Require().NoError(err)
	s.True(first.AveragePrice.Equal(decimal.NewFromInt(1000)))

	second, err := BuyFixedIncome(BuyFixedIncomePayload{
		AccountID: investment.ID,
		AssetID:   product.ID,
		Amount:    decimal.NewFromInt(2000),
	})
	s.Require().NoError(err)

	position, err := portfolio.GetPosition(member.ID, product.ID)
	s.Require().NoError(err)
	s.True(position.Quantity.Equal(decimal.NewFromInt(2)))
	s.True(position.CostBasis().Equal(decimal.NewFromInt(3000)), "basis: %s", position.CostBasis())
	s.True(second.NewBalance.IsZero())
}

func (s *suiteEngineTester) TestConcurrentWithdraws() {
	_, current, _ := s.createMember()

	_, err := Deposit(DepositPayload{AccountID: current.ID, Amount: decimal.NewFromInt(150)})
	s.Require().NoError(err)

	errs := make([]error, 2)
	var wg sync.WaitGroup

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Withdraw(WithdrawPayload{AccountID: current.ID, Amount: decimal.NewFromInt(100)})
		}(i)
	}

	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, ErrInsufficientFunds)
		}
	}

	s.Equal(1, succeeded)
	s.True(s.reload(current).Balance.Equal(decimal.NewFromInt(50)))
}

func TestEngineSuite(t *testing.T) {
	if os.Getenv("DATABASE_HOST") == "" {
		t.Skip("DATABASE_HOST not set, skipping ledger engine suite")
	}

	suite.Run(t, new(suiteEngineTester))
}
