package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const (
	compactShown  = 4
	compactName   = 28
	tableNameSize = 45
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
	now   func() time.Time
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table, now: time.Now}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table, now: time.Now}
}

// Notify imprime el output en el modo configurado.
func (c *Console) Notify(_ context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] No opportunities found\n", c.now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printTable(opportunities)
	} else {
		c.printCompact(opportunities)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(opps []domain.Opportunity) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d opps", c.now().Format("15:04:05"), len(opps))

	for i, opp := range opps {
		if i >= compactShown {
			fmt.Fprintf(&sb, " | +%d more", len(opps)-compactShown)
			break
		}
		fmt.Fprintf(&sb, " | %s @%.0f¢ vs %+.0f edge %.1f%% ev$%.2f",
			domain.TruncateTitle(opp.EventName, opp.Ticker, compactName),
			opp.MarketPrice*100,
			opp.SportsbookOdds,
			opp.EdgePct,
			opp.ExpectedValue,
		)
	}
	fmt.Fprintln(c.out, sb.String())
}

// printTable imprime una fila por oportunidad.
func (c *Console) printTable(opps []domain.Opportunity) {
	fmt.Fprintf(c.out, "\n[%s] %d opportunities\n", c.now().Format("15:04:05"), len(opps))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Event", "Ticker", "Kalshi", "Book", "Book prob", "Edge", "EV", "Action")

	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			domain.TruncateTitle(opp.EventName, opp.Ticker, tableNameSize),
			opp.Ticker,
			fmt.Sprintf("%.0f%%", opp.MarketImpliedProb),
			fmt.Sprintf("%+.0f", opp.SportsbookOdds),
			fmt.Sprintf("%.1f%%", opp.SportsbookImpliedProb),
			fmt.Sprintf("%.2f%%", opp.EdgePct),
			fmt.Sprintf("$%.2f", opp.ExpectedValue),
			opp.Recommendation,
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  Kalshi = best ask YES | Edge = book prob / Kalshi − 1 | EV sobre $%.2f\n\n", opps[0].Stake)
}
