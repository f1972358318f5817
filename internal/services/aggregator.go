// Package services contains orchestrators that sit above the use cases:
// processes that keep derived data consistent with the operation log.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/usecase"
)

// SummaryAggregator recomputes one user-month summary from the completed
// operations of that month. It is the process that owns summary creation;
// the read path only ever sees what it produced.
type SummaryAggregator struct {
	ops       usecase.OperationStore
	summaries usecase.SummaryStore
	currency  string
}

func NewSummaryAggregator(ops usecase.OperationStore, summaries usecase.SummaryStore, currency string) *SummaryAggregator {
	if currency == "" {
		currency = core.DefaultCurrency
	}
	return &SummaryAggregator{ops: ops, summaries: summaries, currency: currency}
}

// Reaggregate recomputes and persists the summary for userID and month
// (YYYY-MM). Pending operations are excluded; only settled money counts.
// The actual budget follows the expense total, the planned budget is
// preserved from any existing summary.
func (a *SummaryAggregator) Reaggregate(ctx context.Context, userID, month string) (*core.MonthlyFinanceSummary, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, fmt.Errorf("reaggregate month: %w", err)
	}

	start, end, err := monthBounds(month)
	if err != nil {
		return nil, fmt.Errorf("reaggregate month bounds: %w", err)
	}

	operations, err := a.ops.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load operations for %s: %w", month, err)
	}

	income := core.Zero(a.currency)
	expense := core.Zero(a.currency)
	skipped := 0
	for _, op := range operations {
		if !op.IsCompleted() {
			continue
		}
		if op.Value.Currency != a.currency {
			// no conversion in this system; foreign-currency operations
			// are left out of the aggregate
			skipped++
			continue
		}
		switch op.Nature {
		case core.NatureIncome:
			income, err = income.Add(op.Value)
		case core.NatureExpense:
			expense, err = expense.Add(op.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("sum operation %s: %w", op.ID, err)
		}
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "Operations skipped during aggregation",
			"month", month,
			"currency", a.currency,
			"skipped", skipped)
	}

	existing, err := a.summaries.FindByUserAndMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("load summary for %s %s: %w", userID, month, err)
	}

	summary, err := a.buildSummary(existing, userID, month, income, expense)
	if err != nil {
		return nil, fmt.Errorf("build summary for %s %s: %w", userID, month, err)
	}

	saved, err := a.summaries.Save(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("save summary for %s %s: %w", userID, month, err)
	}

	slog.InfoContext(ctx, "Monthly summary reaggregated",
		"user_id", userID,
		"month", month,
		"total_income", saved.TotalIncome.Amount.String(),
		"total_expense", saved.TotalExpense.Amount.String(),
		"balance", saved.Balance.Amount.String())

	return saved, nil
}

func (a *SummaryAggregator) buildSummary(existing *core.MonthlyFinanceSummary, userID, month string, income, expense core.Money) (*core.MonthlyFinanceSummary, error) {
	if existing != nil {
		updated, err := existing.UpdateTotalIncome(income)
		if err != nil {
			return nil, err
		}
		updated, err = updated.UpdateTotalExpense(expense)
		if err != nil {
			return nil, err
		}
		return updated.UpdateBudgetValues(existing.TotalPlannedBudget, expense)
	}

	balance := core.Zero(a.currency)
	if over, err := income.GreaterThan(expense); err == nil && over {
		balance, err = income.Subtract(expense)
		if err != nil {
			return nil, err
		}
	}

	return core.NewMonthlyFinanceSummary(core.SummaryProps{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Month:              month,
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            balance,
		TotalPlannedBudget: core.Zero(a.currency),
		TotalActualBudget:  expense,
		CreatedAt:          time.Now(),
	})
}

// monthBounds returns the inclusive UTC range covering a YYYY-MM month.
func monthBounds(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}
