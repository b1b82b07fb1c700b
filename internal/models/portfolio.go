package models

// ModelData is one model held within an account, with its performance block
// carried over from the source table.
type ModelData struct {
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	Performance *PerformanceData `json:"performance,omitempty"`
}

// AccountPortfolio groups the day's models under one account name. A model
// fans out to every account whose mapping matches it, so the same ModelData
// may appear in several accounts.
type AccountPortfolio struct {
	AccountName string      `json:"account_name"`
	Models      []ModelData `json:"models"`
	TotalValue  float64     `json:"total_value"`
	Date        string      `json:"date"` // ISO YYYY-MM-DD
}

// CurrencyPortfolio is one currency's slice of a combined account.
type CurrencyPortfolio struct {
	Currency   string      `json:"currency"` // "USD" or "CAD"
	Models     []ModelData `json:"models"`
	TotalValue float64     `json:"total_value"`
}

// ChangeSummary is the per-account changes block attached to a combined
// account, populated from the day's detected portfolio changes.
type ChangeSummary struct {
	AddedHoldings   []string `json:"added_holdings"`
	RemovedHoldings []string `json:"removed_holdings"`
	HasChanges      bool     `json:"has_changes"`
}

// CombinedAccountPortfolio groups same-owner accounts across currencies under
// a base account name (currency suffix stripped, e.g. "Glen RRSP").
type CombinedAccountPortfolio struct {
	BaseAccountName         string              `json:"base_account_name"`
	Currencies              []CurrencyPortfolio `json:"currencies"`
	TotalValueAllCurrencies float64             `json:"total_value_all_currencies"`
	Date                    string              `json:"date"`
	Changes                 *ChangeSummary      `json:"changes,omitempty"`
}
