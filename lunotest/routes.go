package lunotest

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type order struct {
	OrderID           string          `json:"order_id"`
	Pair              string          `json:"pair"`
	Type              string          `json:"type"`
	State             string          `json:"state"`
	CreationTimestamp int64           `json:"creation_timestamp"`
	LimitPrice        decimal.Decimal `json:"limit_price"`
	LimitVolume       decimal.Decimal `json:"limit_volume"`
	Base              decimal.Decimal `json:"base"`
	Counter           decimal.Decimal `json:"counter"`
	seq               int
}

type quote struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Pair          string          `json:"pair"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	CounterAmount decimal.Decimal `json:"counter_amount"`
	CreatedAt     int64           `json:"created_at"`
	ExpiresAt     int64           `json:"expires_at"`
	Discarded     bool            `json:"discarded"`
	Exercised     bool            `json:"exercised"`
}

type withdrawal struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	CreatedAt int64           `json:"created_at"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(s.record)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "ErrNotFound", "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "ErrMethodNotAllowed", "Method not allowed")
	})

	r.Route("/api/1", func(r chi.Router) {
		r.Get("/ticker", s.ticker)
		r.Get("/tickers", s.tickers)
		r.Get("/orderbook", s.orderBook)
		r.Get("/trades", s.trades)

		r.Group(func(r chi.Router) {
			r.Use(s.private)

			r.Post("/accounts", s.createAccount)
			r.Get("/balance", s.balance)
			r.Get("/accounts/{id}/transactions", s.transactions)
			r.Get("/accounts/{id}/pending", s.pending)
			r.Post("/transfers", s.createTransfer)
			r.Put("/transfers/{id}", s.confirmTransfer)

			r.Get("/listorders", s.listOrders)
			r.Post("/postorder", s.postOrder)
			r.Post("/marketorder", s.postOrder)
			r.Post("/stoporder", s.stopOrder)
			r.Get("/orders/{id}", s.getOrder)
			r.Get("/listtrades", s.listTrades)
			r.Get("/fee_info", s.feeInfo)

			r.Post("/quotes", s.createQuote)
			r.Get("/quotes/{id}", s.getQuote)
			r.Put("/quotes/{id}", s.exerciseQuote)
			r.Delete("/quotes/{id}", s.discardQuote)

			r.Get("/funding_address", s.fundingAddress)
			r.Post("/funding_address", s.fundingAddress)

			r.Get("/withdrawals", s.listWithdrawals)
			r.Post("/withdrawals", s.createWithdrawal)
			r.Get("/withdrawals/{id}", s.getWithdrawal)
			r.Delete("/withdrawals/{id}", s.cancelWithdrawal)

			r.Post("/send", s.send)
		})
	})

	s.router = r
}

// knownPair rejects pairs other than the fixture pair the way the
// exchange does: with a 200 and an error body.
func (s *Server) knownPair(w http.ResponseWriter, r *http.Request) (string, bool) {
	pair := r.URL.Query().Get("pair")
	if pair != s.pair {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Invalid currency pair.", "error_code": "ErrInvalidPair"})
		return "", false
	}

	return pair, true
}

func (s *Server) ticker(w http.ResponseWriter, r *http.Request) {
	pair, ok := s.knownPair(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ticker(pair))
}

func (s *Server) tickers(w http.ResponseWriter, r *http.Request) {
	eth := ticker("ETHZAR")
	eth["bid"] = decimal.New(61000, 0)
	eth["ask"] = decimal.New(61250, 0)
	eth["last_trade"] = decimal.New(61100, 0)

	writeJSON(w, http.StatusOK, map[string]any{"tickers": []map[string]any{ticker(s.pair), eth}})
}

func (s *Server) orderBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.knownPair(w, r); !ok {
		return
	}

	bids, asks := book()
	writeJSON(w, http.StatusOK, map[string]any{"timestamp": ms(Epoch), "bids": bids, "asks": asks})
}

func (s *Server) trades(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.knownPair(w, r); !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"trades": since(r, history())})
}

func since(r *http.Request, all []trade) []trade {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return all
	}

	after, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return all
	}

	out := []trade{}
	for _, t := range all {
		if t.Timestamp > after {
			out = append(out, t)
		}
	}

	return out
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	currency := r.PostForm.Get("currency")
	if currency == "" {
		writeError(w, http.StatusBadRequest, "ErrInvalidParameters", "currency is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":       strconv.FormatUint(uint64(uuid.New().ID()), 10),
		"name":     r.PostForm.Get("name"),
		"currency": currency,
	})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"balance": balances()})
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != BaseAccountID && id != CounterAccountID {
		writeError(w, http.StatusNotFound, "ErrAccountNotFound", "Account not found")
		return
	}

	minRow, maxRow := 1, 101
	if v, err := strconv.Atoi(r.URL.Query().Get("min_row")); err == nil {
		minRow = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("max_row")); err == nil {
		maxRow = v
	}

	rows := []map[string]any{}
	for i := minRow; i < maxRow && i <= 10; i++ {
		rows = append(rows, map[string]any{
			"row_index":       i,
			"timestamp":       ms(Epoch) - int64(10-i)*60_000,
			"balance":         decimal.New(int64(i), -1),
			"available":       decimal.New(int64(i), -1),
			"balance_delta":   decimal.New(1, -1),
			"available_delta": decimal.New(1, -1),
			"currency":        "XBT",
			"description":     "Bought BTC",
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "transactions": rows})
}

func (s *Server) pending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"id": chi.URLParam(r, "id"), "pending": []any{}})
}

func (s *Server) createTransfer(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()

	s.mu.Lock()
	s.transfers[id] = false
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "amount": r.PostForm.Get("amount"), "confirmed": false})
}

func (s *Server) confirmTransfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.transfers[id]
	if ok {
		s.transfers[id] = true
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "ErrTransferNotFound", "Transfer not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "confirmed": true})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	state := r.URL.Query().Get("state")

	s.mu.Lock()
	out := []*order{}
	for _, o := range s.orders {
		if (pair == "" || o.Pair == pair) && (state == "" || o.State == state) {
			out = append(out, o)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })

	writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (s *Server) postOrder(w http.ResponseWriter, r *http.Request) {
	f := r.PostForm

	o := &order{
		OrderID:           "BXMC" + strconv.FormatUint(uint64(uuid.New().ID()), 10),
		Pair:              f.Get("pair"),
		Type:              f.Get("type"),
		State:             "PENDING",
		CreationTimestamp: ms(Epoch),
	}

	var err error
	switch o.Type {
	case "BID", "ASK":
		if o.LimitVolume, err = decimal.NewFromString(f.Get("volume")); err == nil {
			o.LimitPrice, err = decimal.NewFromString(f.Get("price"))
		}
	case "BUY":
		o.Counter, err = decimal.NewFromString(f.Get("counter_volume"))
		o.State = "COMPLETE"
	case "SELL":
		o.Base, err = decimal.NewFromString(f.Get("base_volume"))
		o.State = "COMPLETE"
	default:
		writeError(w, http.StatusBadRequest, "ErrInvalidOrderType", "Invalid order type")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "ErrInvalidVolume", "Invalid volume or price")
		return
	}
	if o.Pair != s.pair {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Invalid currency pair.", "error_code": "ErrInvalidPair"})
		return
	}

	s.mu.Lock()
	o.seq = len(s.orders)
	s.orders[o.OrderID] = o
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"order_id": o.OrderID})
}

func (s *Server) stopOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PostForm.Get("order_id")

	s.mu.Lock()
	o, ok := s.orders[id]
	if ok && o.State == "PENDING" {
		o.State = "COMPLETE"
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	o, ok := s.orders[chi.URLParam(r, "id")]
	var cpy order
	if ok {
		cpy = *o
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "ErrOrderNotFound", "Order not found")
		return
	}

	writeJSON(w, http.StatusOK, cpy)
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	all := since(r, history())

	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit >= 0 && limit < len(all) {
		all = all[:limit]
	}

	out := make([]map[string]any, 0, len(all))
	for _, t := range all {
		typ := "ASK"
		if t.IsBuy {
			typ = "BID"
		}
		out = append(out, map[string]any{
			"sequence":    t.Sequence,
			"timestamp":   t.Timestamp,
			"price":       t.Price,
			"volume":      t.Volume,
			"is_buy":      t.IsBuy,
			"pair":        r.URL.Query().Get("pair"),
			"order_id":    "BXMC" + strconv.FormatInt(t.Sequence, 10),
			"type":        typ,
			"base":        t.Volume,
			"counter":     t.Price.Mul(t.Volume),
			"fee_base":    decimal.Zero,
			"fee_counter": decimal.Zero,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"trades": out})
}

func (s *Server) feeInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"maker_fee":         decimal.Zero,
		"taker_fee":         decimal.New(1, -3),
		"thirty_day_volume": decimal.New(12, -1),
	})
}

func (s *Server) createQuote(w http.ResponseWriter, r *http.Request) {
	f := r.PostForm

	amount, err := decimal.NewFromString(f.Get("base_amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "ErrInvalidAmount", "Invalid base amount")
		return
	}

	price := ask()
	if f.Get("type") == "SELL" {
		price = bid()
	}

	q := &quote{
		ID:            strconv.FormatUint(uint64(uuid.New().ID()), 10),
		Type:          f.Get("type"),
		Pair:          f.Get("pair"),
		BaseAmount:    amount,
		CounterAmount: amount.Mul(price),
		CreatedAt:     ms(Epoch),
		ExpiresAt:     ms(Epoch) + 30_000,
	}

	s.mu.Lock()
	s.quotes[q.ID] = q
	cpy := *q
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, cpy)
}

// withQuote runs fn on the quote named in the path under the lock.
func (s *Server) withQuote(w http.ResponseWriter, r *http.Request, fn func(q *quote) string) {
	s.mu.Lock()
	q, ok := s.quotes[chi.URLParam(r, "id")]
	var (
		cpy     quote
		problem string
	)
	if ok {
		problem = fn(q)
		cpy = *q
	}
	s.mu.Unlock()

	switch {
	case !ok:
		writeError(w, http.StatusNotFound, "ErrQuoteNotFound", "Quote not found")
	case problem != "":
		writeError(w, http.StatusBadRequest, "ErrQuoteNotActive", problem)
	default:
		writeJSON(w, http.StatusOK, cpy)
	}
}

func (s *Server) getQuote(w http.ResponseWriter, r *http.Request) {
	s.withQuote(w, r, func(q *quote) string { return "" })
}

func (s *Server) exerciseQuote(w http.ResponseWriter, r *http.Request) {
	s.withQuote(w, r, func(q *quote) string {
		if q.Discarded || q.Exercised {
			return "Quote is no longer active"
		}
		q.Exercised = true
		return ""
	})
}

func (s *Server) discardQuote(w http.ResponseWriter, r *http.Request) {
	s.withQuote(w, r, func(q *quote) string {
		if q.Exercised {
			return "Quote is no longer active"
		}
		q.Discarded = true
		return ""
	})
}

func (s *Server) fundingAddress(w http.ResponseWriter, r *http.Request) {
	asset := r.FormValue("asset")
	if asset == "" {
		writeError(w, http.StatusBadRequest, "ErrInvalidAsset", "asset is required")
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		address = "3Gqx9fR8LYMR6oXEeLr7DJQ2sKBZ5XwuaT"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"asset":             asset,
		"address":           address,
		"total_received":    decimal.New(3, -1),
		"total_unconfirmed": decimal.Zero,
		"qr_code_uri":       "bitcoin:" + address,
	})
}

func (s *Server) listWithdrawals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := []withdrawal{}
	for _, wd := range s.withdrawals {
		out = append(out, *wd)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	writeJSON(w, http.StatusOK, map[string]any{"withdrawals": out})
}

func (s *Server) createWithdrawal(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.PostForm.Get("amount"))
	if err != nil || amount.Sign() <= 0 {
		writeError(w, http.StatusBadRequest, "ErrInvalidAmount", "Invalid amount")
		return
	}

	s.mu.Lock()
	wd := &withdrawal{
		ID:        strconv.Itoa(1000 + len(s.withdrawals)),
		Status:    "PENDING",
		Type:      r.PostForm.Get("type"),
		Currency:  "ZAR",
		CreatedAt: ms(Epoch),
		Amount:    amount,
		Fee:       decimal.New(850, -2),
	}
	s.withdrawals[wd.ID] = wd
	cpy := *wd
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, cpy)
}

func (s *Server) getWithdrawal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	wd, ok := s.withdrawals[chi.URLParam(r, "id")]
	var cpy withdrawal
	if ok {
		cpy = *wd
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "ErrWithdrawalNotFound", "Withdrawal not found")
		return
	}

	writeJSON(w, http.StatusOK, cpy)
}

func (s *Server) cancelWithdrawal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	wd, ok := s.withdrawals[chi.URLParam(r, "id")]
	var cpy withdrawal
	if ok {
		wd.Status = "CANCELLED"
		cpy = *wd
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "ErrWithdrawalNotFound", "Withdrawal not found")
		return
	}

	writeJSON(w, http.StatusOK, cpy)
}

func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	if r.PostForm.Get("address") == "" {
		writeError(w, http.StatusBadRequest, "ErrInvalidAddress", "Invalid address")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "withdrawal_id": "2001"})
}
