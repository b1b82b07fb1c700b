package models

// RankedModel is one model's position in the trailing-return ranking.
type RankedModel struct {
	Rank          int     `json:"rank"`
	Name          string  `json:"name"`
	Return12Month float64 `json:"return_12month"`
	ReturnYTD     float64 `json:"return_ytd"`
	FinalEquity   float64 `json:"final_equity"`
	IsOwned       bool    `json:"is_owned"`
}

// MoverKind distinguishes model-level movers from estimated security movers.
type MoverKind string

const (
	MoverModel    MoverKind = "model"
	MoverSecurity MoverKind = "security"
)

// Mover flags a model or security whose day-over-day change exceeded the
// alert threshold. Security-level changes are estimated from the allocation
// weight delta, not from a price feed; EstimatedChangePct makes that explicit.
type Mover struct {
	Kind               MoverKind `json:"kind"`
	ModelName          string    `json:"model_name"`
	Symbol             string    `json:"symbol,omitempty"`
	ChangePct          float64   `json:"change_pct,omitempty"`           // real equity change, model movers only
	EstimatedChangePct float64   `json:"estimated_change_pct,omitempty"` // allocation-delta proxy, security movers only
}

// ModelAnalysis is the ranking layer's output for one date.
type ModelAnalysis struct {
	Date            string        `json:"date"`
	TopPerformers   []RankedModel `json:"top_performers"`
	Opportunities   []RankedModel `json:"opportunities"` // top performers not currently owned
	DailyMovers     []Mover       `json:"daily_movers"`
	Underperformers []RankedModel `json:"underperformers"`
	ModelCount      int           `json:"model_count"`
}

// Digest is the rendered daily summary: subject plus an HTML email body and
// optional AI commentary. Delivery is a downstream concern.
type Digest struct {
	Date       string `json:"date"`
	Subject    string `json:"subject"`
	HTMLBody   string `json:"html_body"`
	Commentary string `json:"commentary,omitempty"`
}
