package kalshi

// DTOs raw de la Trade API v2. Solo se usan dentro de este paquete.

// marketsResponse es la respuesta paginada de GET /markets.
type marketsResponse struct {
	Markets []market `json:"markets"`
	Cursor  string   `json:"cursor"`
}

type market struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	YesAsk      int    `json:"yes_ask"`
}

// orderbookResponse es la respuesta de GET /markets/{ticker}/orderbook.
// Kalshi solo publica bids: cada nivel es [price_cents, quantity].
type orderbookResponse struct {
	Orderbook struct {
		Yes [][]int `json:"yes"`
		No  [][]int `json:"no"`
	} `json:"orderbook"`
}
