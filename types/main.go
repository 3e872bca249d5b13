package types

type AccountKind = string

var (
	AccountCurrent    AccountKind = "current"
	AccountInvestment AccountKind = "investment"
)

type TransactionKind = string

var (
	KindDeposit             TransactionKind = "deposit"
	KindWithdraw            TransactionKind = "withdraw"
	KindInternalTransferOut TransactionKind = "internal_transfer_out"
	KindInternalTransferIn  TransactionKind = "internal_transfer_in"
	KindExternalTransferOut TransactionKind = "external_transfer_out"
	KindExternalTransferIn  TransactionKind = "external_transfer_in"
	KindBuyAsset            TransactionKind = "buy_asset"
	KindSellAsset           TransactionKind = "sell_asset"
	KindBuyFixedIncome      TransactionKind = "buy_fixed_income"
)

type TransferStatus = string

var (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"
)

type AssetKind = string

var (
	AssetStock       AssetKind = "stock"
	AssetFixedIncome AssetKind = "fixed_income"
)

type RateType = string

var (
	RatePreFixed  RateType = "pre_fixed"
	RatePostFixed RateType = "post_fixed"
)
