package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/gmorrison/foliowatch/internal/matching"
	"github.com/gmorrison/foliowatch/internal/models"
)

// parseHoldingsRow converts a plain holdings-table row into a Holding.
// Returns nil with a reason when no symbol or name can be resolved.
func parseHoldingsRow(headers, cells []string) (*models.Holding, string) {
	symIdx := headerIndex(headers, "symbol", "ticker", "security")
	nameIdx := headerIndex(headers, "name", "description")
	qtyIdx := headerIndex(headers, "quantity", "shares", "units")
	priceIdx := headerIndex(headers, "price")
	valueIdx := headerIndex(headers, "value")
	pctIdx := headerIndex(headers, "change %", "change%")
	changeIdx := changeColumn(headers, pctIdx)

	symbol := cellAt(cells, symIdx)
	name := cellAt(cells, nameIdx)
	if symbol == "" && name == "" {
		return nil, "no symbol or name"
	}
	if symbol == "" {
		symbol = name
	}
	if name == "" {
		name = symbol
	}

	return &models.Holding{
		Symbol:       symbol,
		Name:         name,
		Quantity:     ParseNumber(cellAt(cells, qtyIdx)),
		Price:        ParseNumber(cellAt(cells, priceIdx)),
		Value:        ParseNumber(cellAt(cells, valueIdx)),
		DayChange:    ParseNumber(cellAt(cells, changeIdx)),
		DayChangePct: ParseNumber(cellAt(cells, pctIdx)),
	}, ""
}

// changeColumn finds the absolute-change column, skipping the percent column
// so "change" doesn't bind to a "change %" header.
func changeColumn(headers []string, pctIdx int) int {
	for i, h := range headers {
		if i == pctIdx {
			continue
		}
		if containsTerm(h, "change") {
			return i
		}
	}
	return -1
}

func containsTerm(header, term string) bool {
	return headerIndex([]string{header}, term) == 0
}

// perfColumns maps PerformanceData fields to header search terms, more
// specific terms first. The first matching term wins per field.
var perfColumns = []struct {
	field string
	terms []string
}{
	{"final_equity", []string{"final equity"}},
	{"probability_win", []string{"prob. win", "probability", "prob win"}},
	{"return_ytd", []string{"ret. ytd", "return ytd"}},
	{"return_1month", []string{"ret. 1mo", "1 mo", "1mo"}},
	{"return_3month", []string{"ret. 3mo", "3 mo", "3mo"}},
	{"return_6month", []string{"ret. 6mo", "6 mo", "6mo"}},
	{"return_12month", []string{"ret. 12mo", "12 mo", "12mo", "1 yr"}},
	{"trades_ytd", []string{"trades"}},
	{"max_drawdown", []string{"max. dd", "max dd", "max drawdown"}},
	{"current_drawdown", []string{"curr. dd", "current dd", "current drawdown"}},
	{"sharpe_ratio", []string{"sharpe"}},
	{"cagr", []string{"cagr"}},
	{"volatility", []string{"volatility", "vol"}},
	{"portfolio", []string{"portfolio"}},
	{"ml_accuracies", []string{"ml acc", "accurac"}},
	{"name", []string{"name", "model"}},
}

// parsePerformanceRow converts a model-performance row into a Holding with an
// attached PerformanceData block. The row selection is needed for the
// green-holdings style scan over the portfolio cell.
//
// The vendor feed has no daily price series, so Value and Price are set to
// final equity and DayChangePct to the YTD return as proxies. Downstream
// consumers treat these as the approximations they are.
func parsePerformanceRow(headers, cells []string, row *goquery.Selection) (*models.Holding, string) {
	idx := make(map[string]int, len(perfColumns))
	for _, pc := range perfColumns {
		idx[pc.field] = headerIndex(headers, pc.terms...)
	}

	name := cellAt(cells, idx["name"])
	if name == "" {
		return nil, "no model name"
	}

	perf := &models.PerformanceData{
		FinalEquity:     ParseNumber(cellAt(cells, idx["final_equity"])),
		ProbabilityWin:  ParseNumber(cellAt(cells, idx["probability_win"])),
		ReturnYTD:       ParseNumber(cellAt(cells, idx["return_ytd"])),
		Return1Month:    ParseNumber(cellAt(cells, idx["return_1month"])),
		Return3Month:    ParseNumber(cellAt(cells, idx["return_3month"])),
		Return6Month:    ParseNumber(cellAt(cells, idx["return_6month"])),
		Return12Month:   ParseNumber(cellAt(cells, idx["return_12month"])),
		TradesYTD:       ParseNumber(cellAt(cells, idx["trades_ytd"])),
		MaxDrawdown:     ParseNumber(cellAt(cells, idx["max_drawdown"])),
		CurrentDrawdown: ParseNumber(cellAt(cells, idx["current_drawdown"])),
		SharpeRatio:     ParseNumber(cellAt(cells, idx["sharpe_ratio"])),
		CAGR:            ParseNumber(cellAt(cells, idx["cagr"])),
		Volatility:      ParseNumber(cellAt(cells, idx["volatility"])),
		Portfolio:       cellAt(cells, idx["portfolio"]),
		MLAccuracies:    cellAt(cells, idx["ml_accuracies"]),
	}

	if pIdx := idx["portfolio"]; pIdx >= 0 {
		perf.GreenHoldings = greenHoldings(row, pIdx)
	}

	return &models.Holding{
		Symbol:       matching.StripNumberPrefix(name),
		Name:         name,
		Price:        perf.FinalEquity,
		Value:        perf.FinalEquity,
		DayChangePct: perf.ReturnYTD,
		Performance:  perf,
	}, ""
}
