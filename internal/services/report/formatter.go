package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/models"
)

// formatDigest renders the full digest HTML body. Inline styles only; email
// clients strip stylesheet blocks.
func formatDigest(dateStr string, accounts []*models.CombinedAccountPortfolio, alert *models.ChangeAlert, analysis *models.ModelAnalysis, commentary string) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family:Arial,Helvetica,sans-serif;color:#222;max-width:720px;margin:0 auto\">\n")
	sb.WriteString(fmt.Sprintf("<h1 style=\"font-size:20px\">Portfolio Digest &mdash; %s</h1>\n", html.EscapeString(dateStr)))

	if commentary != "" {
		sb.WriteString(fmt.Sprintf("<p style=\"font-style:italic;color:#555\">%s</p>\n", html.EscapeString(commentary)))
	}

	formatChangesSection(&sb, alert)
	formatAccountsSection(&sb, accounts)
	formatAnalysisSection(&sb, analysis)

	sb.WriteString("</body></html>\n")
	return sb.String()
}

func formatChangesSection(sb *strings.Builder, alert *models.ChangeAlert) {
	sb.WriteString("<h2 style=\"font-size:16px\">Portfolio Changes</h2>\n")

	if !alert.HasChanges {
		msg := alert.Message
		if msg == "" {
			msg = "No portfolio changes detected"
		}
		sb.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(msg)))
		return
	}

	sb.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(alert.Message)))
	sb.WriteString("<table style=\"border-collapse:collapse;width:100%\">\n")
	sb.WriteString("<tr><th style=\"text-align:left;border-bottom:1px solid #ccc\">Account</th><th style=\"text-align:left;border-bottom:1px solid #ccc\">Model</th><th style=\"text-align:left;border-bottom:1px solid #ccc\">Added</th><th style=\"text-align:left;border-bottom:1px solid #ccc\">Removed</th></tr>\n")
	for _, c := range alert.Changes {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td style=\"color:#1a7f37\">%s</td><td style=\"color:#b91c1c\">%s</td></tr>\n",
			html.EscapeString(c.AccountName), html.EscapeString(c.ModelName),
			html.EscapeString(strings.Join(c.AddedHoldings, ", ")),
			html.EscapeString(strings.Join(c.RemovedHoldings, ", "))))
	}
	sb.WriteString("</table>\n")
}

func formatAccountsSection(sb *strings.Builder, accounts []*models.CombinedAccountPortfolio) {
	sb.WriteString("<h2 style=\"font-size:16px\">Accounts</h2>\n")
	if len(accounts) == 0 {
		sb.WriteString("<p>No account portfolios for this date.</p>\n")
		return
	}

	for _, acct := range accounts {
		sb.WriteString(fmt.Sprintf("<h3 style=\"font-size:14px;margin-bottom:4px\">%s &middot; %s</h3>\n",
			html.EscapeString(acct.BaseAccountName), common.FormatMoney(acct.TotalValueAllCurrencies)))

		for _, cur := range acct.Currencies {
			sb.WriteString(fmt.Sprintf("<p style=\"margin:2px 0;color:#555\">%s &middot; %s</p>\n",
				html.EscapeString(cur.Currency), common.FormatMoney(cur.TotalValue)))
			sb.WriteString("<ul style=\"margin:4px 0 12px\">\n")
			for _, m := range cur.Models {
				line := html.EscapeString(m.Name)
				if m.Performance != nil {
					line += fmt.Sprintf(" (YTD %s, 12m %s)",
						common.FormatSignedPct(m.Performance.ReturnYTD),
						common.FormatSignedPct(m.Performance.Return12Month))
				}
				sb.WriteString(fmt.Sprintf("<li>%s</li>\n", line))
			}
			sb.WriteString("</ul>\n")
		}
	}
}

func formatAnalysisSection(sb *strings.Builder, analysis *models.ModelAnalysis) {
	sb.WriteString(fmt.Sprintf("<h2 style=\"font-size:16px\">Model Analysis (%d models)</h2>\n", analysis.ModelCount))

	if len(analysis.TopPerformers) > 0 {
		sb.WriteString("<h3 style=\"font-size:14px\">Top Performers</h3>\n<ol>\n")
		for _, r := range analysis.TopPerformers {
			owned := ""
			if r.IsOwned {
				owned = " &#10003;"
			}
			sb.WriteString(fmt.Sprintf("<li>%s &middot; 12m %s &middot; YTD %s%s</li>\n",
				html.EscapeString(r.Name), common.FormatSignedPct(r.Return12Month), common.FormatSignedPct(r.ReturnYTD), owned))
		}
		sb.WriteString("</ol>\n")
	}

	if len(analysis.Opportunities) > 0 {
		sb.WriteString("<h3 style=\"font-size:14px\">Opportunities (not owned)</h3>\n<ul>\n")
		for _, r := range analysis.Opportunities {
			sb.WriteString(fmt.Sprintf("<li>#%d %s &middot; 12m %s</li>\n",
				r.Rank, html.EscapeString(r.Name), common.FormatSignedPct(r.Return12Month)))
		}
		sb.WriteString("</ul>\n")
	}

	if len(analysis.DailyMovers) > 0 {
		sb.WriteString("<h3 style=\"font-size:14px\">Daily Movers</h3>\n<ul>\n")
		for _, m := range analysis.DailyMovers {
			switch m.Kind {
			case models.MoverSecurity:
				sb.WriteString(fmt.Sprintf("<li>%s in %s &middot; est. %s allocation shift</li>\n",
					html.EscapeString(m.Symbol), html.EscapeString(m.ModelName), common.FormatSignedPct(m.EstimatedChangePct)))
			default:
				sb.WriteString(fmt.Sprintf("<li>%s &middot; %s equity change</li>\n",
					html.EscapeString(m.ModelName), common.FormatSignedPct(m.ChangePct)))
			}
		}
		sb.WriteString("</ul>\n")
	}

	if len(analysis.Underperformers) > 0 {
		sb.WriteString("<h3 style=\"font-size:14px\">Underperformers</h3>\n<ul>\n")
		for _, r := range analysis.Underperformers {
			sb.WriteString(fmt.Sprintf("<li>#%d %s &middot; 12m %s</li>\n",
				r.Rank, html.EscapeString(r.Name), common.FormatSignedPct(r.Return12Month)))
		}
		sb.WriteString("</ul>\n")
	}
}
