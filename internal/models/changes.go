package models

// PortfolioChange is one model's delta between two trading days. Added and
// removed entries carry the full "SYMBOL (NN%)" string from the relevant day,
// so reports reproduce the vendor's own encoding verbatim.
type PortfolioChange struct {
	ModelName       string   `json:"model_name"`
	AccountName     string   `json:"account_name"`
	AddedHoldings   []string `json:"added_holdings"`
	RemovedHoldings []string `json:"removed_holdings"`
	Date            string   `json:"date"`
}

// ChangeAlert aggregates all portfolio changes for one date.
// ComparisonDate is the previous trading day actually compared against, or
// nil when the requested date is not a trading day (no comparison was made).
type ChangeAlert struct {
	Date             string            `json:"date"`
	HasChanges       bool              `json:"has_changes"`
	TotalChanges     int               `json:"total_changes"`
	Changes          []PortfolioChange `json:"changes"`
	AffectedAccounts []string          `json:"affected_accounts"`
	ComparisonDate   *string           `json:"comparison_date"`
	Message          string            `json:"message"`
}
