package models

// RowStatus is the outcome of parsing a single table row.
type RowStatus string

const (
	RowParsed    RowStatus = "parsed"
	RowSkipped   RowStatus = "skipped"
	RowMalformed RowStatus = "malformed"
)

// TableKind is the classification assigned to an extracted table.
type TableKind string

const (
	TableHoldings     TableKind = "holdings"
	TablePerformance  TableKind = "performance"
	TableUnclassified TableKind = "unclassified"
)

// RowReport records the outcome for one data row.
type RowReport struct {
	Index  int       `json:"index"`
	Status RowStatus `json:"status"`
	Reason string    `json:"reason,omitempty"`
	Symbol string    `json:"symbol,omitempty"`
}

// TableReport records the classification and per-row outcomes for one table.
// Tables skipped before row parsing carry a SkipReason and no rows.
type TableReport struct {
	Index      int         `json:"index"`
	Kind       TableKind   `json:"kind"`
	Headers    []string    `json:"headers,omitempty"`
	SkipReason string      `json:"skip_reason,omitempty"`
	Rows       []RowReport `json:"rows,omitempty"`
}

// ParseReport aggregates per-table outcomes for one document, replacing log
// scraping as the diagnostic channel for best-effort extraction.
type ParseReport struct {
	Tables []TableReport `json:"tables"`
}

// Counts returns the number of parsed, skipped, and malformed rows.
func (r *ParseReport) Counts() (parsed, skipped, malformed int) {
	for _, t := range r.Tables {
		for _, row := range t.Rows {
			switch row.Status {
			case RowParsed:
				parsed++
			case RowSkipped:
				skipped++
			case RowMalformed:
				malformed++
			}
		}
	}
	return parsed, skipped, malformed
}

// Merge appends another report's tables, renumbering their indexes to follow
// this report's. Used when a date spans multiple emails.
func (r *ParseReport) Merge(other *ParseReport) {
	if other == nil {
		return
	}
	base := len(r.Tables)
	for _, t := range other.Tables {
		t.Index += base
		r.Tables = append(r.Tables, t)
	}
}
