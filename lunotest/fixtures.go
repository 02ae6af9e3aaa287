package lunotest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Epoch is the time the fixture market data is stamped with.
var Epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// Fixture market data. Prices are in the counter currency.
var (
	Mid       = decimal.New(1050000, 0)
	Spread    = decimal.New(500, 0)
	Step      = decimal.New(100, 0)
	LevelSize = decimal.New(125, -3) // 0.125
)

// Book depth and trade history length of the fixture market.
const (
	Depth     = 20
	TradeSize = 50
)

// Account ids of the fixture balances.
const (
	BaseAccountID    = "319232323"
	CounterAccountID = "4853494857"
)

type level struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

type trade struct {
	Sequence  int64           `json:"sequence"`
	Timestamp int64           `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	IsBuy     bool            `json:"is_buy"`
}

func ms(t time.Time) int64 {
	return t.UnixMilli()
}

func bid() decimal.Decimal {
	return Mid.Sub(Spread.Div(decimal.New(2, 0)))
}

func ask() decimal.Decimal {
	return Mid.Add(Spread.Div(decimal.New(2, 0)))
}

func ticker(pair string) map[string]any {
	return map[string]any{
		"pair":                   pair,
		"timestamp":              ms(Epoch),
		"bid":                    bid(),
		"ask":                    ask(),
		"last_trade":             Mid,
		"rolling_24_hour_volume": decimal.New(4217, -1),
		"status":                 "ACTIVE",
	}
}

// book returns Depth levels each side, best price first.
func book() (bids, asks []level) {
	for i := range Depth {
		off := Step.Mul(decimal.New(int64(i), 0))
		vol := LevelSize.Mul(decimal.New(int64(i+1), 0))
		bids = append(bids, level{Price: bid().Sub(off), Volume: vol})
		asks = append(asks, level{Price: ask().Add(off), Volume: vol})
	}

	return bids, asks
}

// history returns TradeSize trades, newest first, one a minute up to Epoch.
func history() []trade {
	out := make([]trade, 0, TradeSize)
	for i := range TradeSize {
		out = append(out, trade{
			Sequence:  int64(TradeSize - i),
			Timestamp: ms(Epoch.Add(-time.Duration(i) * time.Minute)),
			Price:     Mid.Add(Step.Mul(decimal.New(int64(i%5-2), 0))),
			Volume:    decimal.New(int64(i+1), -2),
			IsBuy:     i%2 == 0,
		})
	}

	return out
}

func balances() []map[string]any {
	return []map[string]any{
		{
			"account_id":  BaseAccountID,
			"asset":       "XBT",
			"name":        "Bitcoin",
			"balance":     decimal.New(15, -1),
			"reserved":    decimal.New(25, -2),
			"unconfirmed": decimal.Zero,
		},
		{
			"account_id":  CounterAccountID,
			"asset":       "ZAR",
			"name":        "Rand",
			"balance":     decimal.New(2500000, -2),
			"reserved":    decimal.Zero,
			"unconfirmed": decimal.New(10000, -2),
		},
	}
}
