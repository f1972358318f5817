// Package export defines the outbound port for pushing monthly summaries
// to external reporting destinations.
package export

import (
	"context"

	"contas/internal/core"
)

// SummaryWriter appends one summary row to a reporting destination and
// returns a destination-specific reference to the written row.
type SummaryWriter interface {
	Append(ctx context.Context, s *core.MonthlyFinanceSummary) (rowRef string, err error)
}
