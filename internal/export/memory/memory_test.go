package memory

import (
	"context"
	"testing"
	"time"

	"contas/internal/core"
)

func testSummary(t *testing.T) *core.MonthlyFinanceSummary {
	t.Helper()
	income, _ := core.NewMoneyFromString("1000.00", core.DefaultCurrency)
	expense, _ := core.NewMoneyFromString("400.00", core.DefaultCurrency)
	balance, _ := core.NewMoneyFromString("600.00", core.DefaultCurrency)
	s, err := core.NewMonthlyFinanceSummary(core.SummaryProps{
		ID:                 "sum-1",
		UserID:             "user-1",
		Month:              "2025-03",
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            balance,
		TotalPlannedBudget: core.Zero(core.DefaultCurrency),
		TotalActualBudget:  expense,
		CreatedAt:          time.Now(),
	})
	if err != nil {
		t.Fatalf("NewMonthlyFinanceSummary: %v", err)
	}
	return s
}

func TestAppendReturnsSequentialRefs(t *testing.T) {
	store := New()

	ref, err := store.Append(context.Background(), testSummary(t))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	ref, err = store.Append(context.Background(), testSummary(t))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:2" {
		t.Errorf("ref = %q, want mem:2", ref)
	}

	if got := len(store.Items()); got != 2 {
		t.Errorf("Items() length = %d, want 2", got)
	}
}
