package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pip-tracker/pip-backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// SummaryMarkdown renders summaries and per-position errors as markdown tables.
// Dates are shown in loc.
func SummaryMarkdown(report model.PositionsReport, loc *time.Location) string {
	var b strings.Builder

	b.WriteString("# Positions\n\n")
	if len(report.Positions) == 0 {
		b.WriteString("_No positions._\n")
	} else {
		b.WriteString("| Instrument | Ticker | Opened | Status | Invested | Realized | Unrealized | Transactions | PnL | PnL % |\n")
		b.WriteString("|---|---|---|---|--:|--:|--:|--:|--:|--:|\n")
		for _, s := range report.Positions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				cell(s.InstrumentName),
				cell(s.InstrumentTicker),
				formatDate(s.OpeningDate, loc),
				cell(statusText(s, loc)),
				formatAmount(s.TotalInvested, s.InstrumentSymbol),
				formatAmount(s.RealizedPnL, s.InstrumentSymbol),
				unrealized(s),
				formatAmount(s.TransactionsNet, s.InstrumentSymbol),
				formatAmount(s.PnL, s.InstrumentSymbol),
				s.PnLPercent.Mul(hundred).StringFixed(2)+"%",
			)
		}
	}

	if len(report.Errors) > 0 {
		b.WriteString("\n## Skipped positions\n\n")
		b.WriteString("| Position | Trade | Error |\n|---|---|---|\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", e.PositionID, e.TradeID, cell(e.Error))
		}
	}
	return b.String()
}

// TotalsMarkdown renders the per-currency totals as a markdown table.
func TotalsMarkdown(totals []model.CurrencyTotal) string {
	var b strings.Builder

	b.WriteString("# Totals\n\n")
	if len(totals) == 0 {
		b.WriteString("_No positions._\n")
		return b.String()
	}
	b.WriteString("| Currency | Invested | PnL |\n|---|--:|--:|\n")
	for _, t := range totals {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			t.Currency,
			formatAmount(t.TotalInvested, t.Symbol),
			formatAmount(t.TotalPnL, t.Symbol),
		)
	}
	return b.String()
}

// statusText shows the closing date in loc; the summary's status carries it in UTC.
func statusText(s model.PositionSummary, loc *time.Location) string {
	if s.IsClosed() && s.RemainingQuantity == 0 {
		return "Closed on " + formatDate(s.ClosingDate, loc)
	}
	return s.Status
}

func unrealized(s model.PositionSummary) string {
	if !s.Priced && s.RemainingQuantity > 0 {
		return "n/a"
	}
	return formatAmount(s.UnrealizedPnL, s.InstrumentSymbol)
}

func formatAmount(d decimal.Decimal, symbol string) string {
	return d.StringFixed(2) + " " + symbol
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format(time.DateOnly)
}

// cell escapes pipes so free text cannot break the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
