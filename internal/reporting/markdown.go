package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a run report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Simulation Run %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Steps | %d |\n", r.Summary.Steps))
	sb.WriteString(fmt.Sprintf("| Step Size (years) | %.6f |\n", r.Summary.StepSizeYears))
	sb.WriteString(fmt.Sprintf("| Position Duration (years) | %.4f |\n", r.Summary.PositionDuration))
	sb.WriteString(fmt.Sprintf("| Agents | %d |\n", r.Summary.AgentCount))
	sb.WriteString(fmt.Sprintf("| Final Market Time (years) | %.4f |\n", r.Summary.FinalMarketTime))
	sb.WriteString(fmt.Sprintf("| Final Spot Price | %.6f |\n", r.Summary.FinalSpotPrice))
	sb.WriteString(fmt.Sprintf("| Total PnL | %.6f |\n", r.Summary.TotalPnL))
	sb.WriteString("\n")

	// Agent Performance
	sb.WriteString("## Agent Performance\n\n")
	if len(r.AgentRows) > 0 {
		sb.WriteString("| Address | Policy | Budget | Worth | PnL | HPR | APR |\n")
		sb.WriteString("|---------|--------|--------|-------|-----|-----|-----|\n")
		for _, row := range r.AgentRows {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.2f | %.4f | %.4f |\n",
				row.Address, row.PolicyName, row.Budget, row.Worth,
				row.ProfitAndLoss, row.HoldingPeriodRate, row.AnnualizedRate))
		}
	} else {
		sb.WriteString("No agent reports available.\n")
	}
	sb.WriteString("\n")

	// Market Path
	sb.WriteString("## Market Path\n\n")
	if r.MarketPath.SnapshotCount > 0 {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Snapshots | %d |\n", r.MarketPath.SnapshotCount))
		sb.WriteString(fmt.Sprintf("| Open Price | %.6f |\n", r.MarketPath.OpenPrice))
		sb.WriteString(fmt.Sprintf("| Close Price | %.6f |\n", r.MarketPath.ClosePrice))
		sb.WriteString(fmt.Sprintf("| Min Price | %.6f |\n", r.MarketPath.MinPrice))
		sb.WriteString(fmt.Sprintf("| Max Price | %.6f |\n", r.MarketPath.MaxPrice))
	} else {
		sb.WriteString("No step snapshots recorded.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
