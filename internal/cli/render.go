package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/logrusorgru/aurora"
	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/api"
)

const timeLayout = "2006-01-02 15:04:05"

func newTable(w io.Writer, title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(header)

	return t
}

func stamp(t api.Time) string {
	if t.Time().IsZero() {
		return "-"
	}

	return t.Time().UTC().Format(timeLayout)
}

func renderTickers(w io.Writer, au aurora.Aurora, title string, tickers ...api.Ticker) {
	t := newTable(w, title, table.Row{"Pair", "Bid", "Ask", "Last", "24h Volume", "Status"})
	for _, tk := range tickers {
		t.AppendRow(table.Row{
			tk.Pair,
			au.Green(tk.Bid.String()),
			au.Red(tk.Ask.String()),
			tk.LastTrade.String(),
			tk.Rolling24HourVolume.String(),
			tk.Status,
		})
	}
	t.Render()
}

func renderOrderBook(w io.Writer, au aurora.Aurora, pair string, book *api.OrderBook) {
	t := newTable(w, fmt.Sprintf("%s order book", pair), table.Row{"Bid Volume", "Bid", "Ask", "Ask Volume"})

	for i := range max(len(book.Bids), len(book.Asks)) {
		row := table.Row{"", "", "", ""}
		if i < len(book.Bids) {
			row[0] = book.Bids[i].Volume.String()
			row[1] = au.Green(book.Bids[i].Price.String())
		}
		if i < len(book.Asks) {
			row[2] = au.Red(book.Asks[i].Price.String())
			row[3] = book.Asks[i].Volume.String()
		}
		t.AppendRow(row)
	}

	if len(book.Bids) > 0 && len(book.Asks) > 0 {
		spread := book.Asks[0].Price.Sub(book.Bids[0].Price)
		t.AppendFooter(table.Row{"", "Spread", spread.String(), ""})
	}

	t.Render()
}

func renderTrades(w io.Writer, au aurora.Aurora, pair string, trades []api.Trade) {
	t := newTable(w, fmt.Sprintf("%s trades", pair), table.Row{"Time", "Side", "Price", "Volume"})

	total := decimal.Zero
	for _, tr := range trades {
		side := au.Red("SELL")
		if tr.IsBuy {
			side = au.Green("BUY")
		}
		t.AppendRow(table.Row{stamp(tr.Timestamp), side, tr.Price.String(), tr.Volume.String()})
		total = total.Add(tr.Volume)
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d trades", len(trades)), "", total.String()})
	t.Render()
}

func renderBalances(w io.Writer, au aurora.Aurora, balances []api.Balance) {
	t := newTable(w, "Balances", table.Row{"Account", "Asset", "Name", "Balance", "Reserved", "Unconfirmed"})
	for _, b := range balances {
		t.AppendRow(table.Row{b.AccountID, au.Bold(b.Asset), b.Name, b.Balance.String(), b.Reserved.String(), b.Unconfirmed.String()})
	}
	t.Render()
}

func renderOrders(w io.Writer, au aurora.Aurora, orders []api.Order) {
	t := newTable(w, "Orders", table.Row{"Order", "Pair", "Type", "State", "Price", "Volume", "Created"})
	for _, o := range orders {
		typ := au.Red(o.Type)
		if o.Type == api.Bid || o.Type == api.Buy {
			typ = au.Green(o.Type)
		}
		t.AppendRow(table.Row{o.OrderID, o.Pair, typ, o.State, o.LimitPrice.String(), o.LimitVolume.String(), stamp(o.CreationTimestamp)})
	}
	t.Render()
}

func renderAddress(w io.Writer, addr *api.FundingAddress) {
	t := newTable(w, fmt.Sprintf("%s receive address", addr.Asset), table.Row{"Address", "Received", "Unconfirmed"})
	t.AppendRow(table.Row{addr.Address, addr.TotalReceived.String(), addr.TotalUnconfirmed.String()})
	t.Render()
}

// since converts a look-back window into the trades cut-off, zero meaning
// no cut-off.
func since(now time.Time, window time.Duration) time.Time {
	if window <= 0 {
		return time.Time{}
	}

	return now.Add(-window)
}
