package dto

// YahooChartResponse is the /v8/finance/chart response envelope.
type YahooChartResponse struct {
	Chart YahooChart `json:"chart"`
}

type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooChartError   `json:"error"`
}

type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type YahooChartResult struct {
	Meta       YahooChartMeta  `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

type YahooChartMeta struct {
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
}

type YahooIndicators struct {
	Quote    []YahooQuote    `json:"quote"`
	AdjClose []YahooAdjClose `json:"adjclose"`
}

// YahooQuote carries OHLCV arrays aligned with the timestamp array.
// Entries can be null on half-days, hence the pointer elements.
type YahooQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type YahooAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}
