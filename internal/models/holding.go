// Package models defines data structures for Foliowatch
package models

// Holding is one security, or one model-as-a-row, extracted from a vendor
// email table. Holdings are created fresh on every parse and never mutated.
type Holding struct {
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	Quantity     float64          `json:"quantity"`
	Price        float64          `json:"price"`
	Value        float64          `json:"value"`
	DayChange    float64          `json:"day_change"`
	DayChangePct float64          `json:"day_change_pct"`
	Performance  *PerformanceData `json:"performance,omitempty"`
}

// PerformanceData carries the extended metrics attached to a Holding when the
// source table is a model-performance table rather than a plain holdings table.
// Percentage fields hold the bare numeric value from the source (22, not 0.22);
// this convention must be preserved for round-trip fidelity against the vendor
// format.
type PerformanceData struct {
	FinalEquity     float64 `json:"final_equity"`
	ProbabilityWin  float64 `json:"probability_win"`
	ReturnYTD       float64 `json:"return_ytd"`
	Return1Month    float64 `json:"return_1month"`
	Return3Month    float64 `json:"return_3month"`
	Return6Month    float64 `json:"return_6month"`
	Return12Month   float64 `json:"return_12month"`
	TradesYTD       float64 `json:"trades_ytd"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	CurrentDrawdown float64 `json:"current_drawdown"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
	CAGR            float64 `json:"cagr"`
	Volatility      float64 `json:"volatility"`

	// Portfolio is the vendor's free-text allocation encoding: newline-separated
	// "SYMBOL (NN%)" tokens.
	Portfolio string `json:"portfolio"`

	MLAccuracies string `json:"ml_accuracies,omitempty"`

	// GreenHoldings are symbols rendered in green in the source HTML, the
	// vendor's visual convention for newly traded positions. Secondary signal;
	// change detection works from the allocation diff, not from this list.
	GreenHoldings []string `json:"green_holdings,omitempty"`
}

// PortfolioData is one table's worth of holdings attributed to an account.
type PortfolioData struct {
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number,omitempty"`
	Holdings      []Holding `json:"holdings"`
	TotalValue    float64   `json:"total_value"`
	DayChange     float64   `json:"day_change"`
	DayChangePct  float64   `json:"day_change_pct"`
	Date          string    `json:"date"` // ISO YYYY-MM-DD
}

// ModelAccountMapping joins a model name to a brokerage account name.
// Read from the mapping sheet: column A model, column B account.
type ModelAccountMapping struct {
	Model   string `json:"model"`
	Account string `json:"account"`
}
