package domain

// Table is a mongo collection name
type Table string

const (
	TableCreatorTokens Table = "creator_tokens"
	TableHoldings      Table = "holdings"
	TableOperators     Table = "operator_approvals"
	TableBids          Table = "bids"
	TableBalances      Table = "balances"
	TableCollections   Table = "collections"
	TableNfts          Table = "nfts"
	TableNftOperators  Table = "nft_operator_approvals"
	TableLedgerMeta    Table = "ledger_meta"
	TableReceipts      Table = "receipts"
)
