package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders per-agent performance rows as CSV string.
func RenderCSV(rows []AgentRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("address,policy,budget,worth,profit_and_loss,holding_period_rate,annualized_rate\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			r.Address,
			r.PolicyName,
			r.Budget,
			r.Worth,
			r.ProfitAndLoss,
			r.HoldingPeriodRate,
			r.AnnualizedRate,
		))
	}

	return sb.String()
}
