package api

import "github.com/shopspring/decimal"

// Order types and states.
const (
	Bid  = "BID"
	Ask  = "ASK"
	Buy  = "BUY"
	Sell = "SELL"

	StatePending  = "PENDING"
	StateComplete = "COMPLETE"
)

// =============================================================================
// Market

type Ticker struct {
	Pair                string          `json:"pair"`
	Timestamp           Time            `json:"timestamp"`
	Bid                 decimal.Decimal `json:"bid"`
	Ask                 decimal.Decimal `json:"ask"`
	LastTrade           decimal.Decimal `json:"last_trade"`
	Rolling24HourVolume decimal.Decimal `json:"rolling_24_hour_volume"`
	Status              string          `json:"status"`
}

type tickers struct {
	Tickers []Ticker `json:"tickers"`
}

// PriceLevel is one row of an order book side.
type PriceLevel struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

type OrderBook struct {
	Timestamp Time         `json:"timestamp"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
}

// Trade is a public trade on a market.
type Trade struct {
	Sequence  int64           `json:"sequence"`
	Timestamp Time            `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	IsBuy     bool            `json:"is_buy"`
}

type trades struct {
	Trades []Trade `json:"trades"`
}

// =============================================================================
// Accounts

type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type Balance struct {
	AccountID   string          `json:"account_id"`
	Asset       string          `json:"asset"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	Reserved    decimal.Decimal `json:"reserved"`
	Unconfirmed decimal.Decimal `json:"unconfirmed"`
}

type balances struct {
	Balance []Balance `json:"balance"`
}

type Transaction struct {
	RowIndex       int64           `json:"row_index"`
	Timestamp      Time            `json:"timestamp"`
	Balance        decimal.Decimal `json:"balance"`
	Available      decimal.Decimal `json:"available"`
	BalanceDelta   decimal.Decimal `json:"balance_delta"`
	AvailableDelta decimal.Decimal `json:"available_delta"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
}

type TransactionList struct {
	ID           string        `json:"id"`
	Transactions []Transaction `json:"transactions"`
}

// Transfer holds both legs of a transfer between accounts: the created
// transfer and its confirmation.
type Transfer struct {
	ID        string         `json:"id"`
	Requested map[string]any `json:"requested"`
	Confirmed map[string]any `json:"confirmed"`
}

// =============================================================================
// Orders

type Order struct {
	OrderID             string          `json:"order_id"`
	Pair                string          `json:"pair"`
	Type                string          `json:"type"`
	State               string          `json:"state"`
	CreationTimestamp   Time            `json:"creation_timestamp"`
	ExpirationTimestamp Time            `json:"expiration_timestamp"`
	CompletedTimestamp  Time            `json:"completed_timestamp"`
	LimitPrice          decimal.Decimal `json:"limit_price"`
	LimitVolume         decimal.Decimal `json:"limit_volume"`
	Base                decimal.Decimal `json:"base"`
	Counter             decimal.Decimal `json:"counter"`
	FeeBase             decimal.Decimal `json:"fee_base"`
	FeeCounter          decimal.Decimal `json:"fee_counter"`
}

type orders struct {
	Orders []Order `json:"orders"`
}

type OrderRef struct {
	OrderID string `json:"order_id"`
}

// UserTrade is a trade the account took part in.
type UserTrade struct {
	Trade
	Pair       string          `json:"pair"`
	OrderID    string          `json:"order_id"`
	Type       string          `json:"type"`
	Base       decimal.Decimal `json:"base"`
	Counter    decimal.Decimal `json:"counter"`
	FeeBase    decimal.Decimal `json:"fee_base"`
	FeeCounter decimal.Decimal `json:"fee_counter"`
}

type userTrades struct {
	Trades []UserTrade `json:"trades"`
}

type FeeInfo struct {
	MakerFee        decimal.Decimal `json:"maker_fee"`
	TakerFee        decimal.Decimal `json:"taker_fee"`
	ThirtyDayVolume decimal.Decimal `json:"thirty_day_volume"`
}

type success struct {
	Success bool `json:"success"`
}

// =============================================================================
// Quotes

type Quote struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Pair          string          `json:"pair"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	CounterAmount decimal.Decimal `json:"counter_amount"`
	CreatedAt     Time            `json:"created_at"`
	ExpiresAt     Time            `json:"expires_at"`
	Discarded     bool            `json:"discarded"`
	Exercised     bool            `json:"exercised"`
}

// =============================================================================
// Receive

type FundingAddress struct {
	Asset            string          `json:"asset"`
	Address          string          `json:"address"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	TotalUnconfirmed decimal.Decimal `json:"total_unconfirmed"`
	QRCodeURI        string          `json:"qr_code_uri"`
}

// =============================================================================
// Withdrawals

type Withdrawal struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	CreatedAt Time            `json:"created_at"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
}

type withdrawals struct {
	Withdrawals []Withdrawal `json:"withdrawals"`
}

// =============================================================================
// Send

type SendResult struct {
	Success      bool   `json:"success"`
	WithdrawalID string `json:"withdrawal_id"`
}
