package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"contas/internal/amqp"
	exportmem "contas/internal/export/memory"
	"contas/internal/core"
	"contas/internal/services"
	"contas/internal/storage/memory"
	"contas/internal/worker"
)

func seedOperation(t *testing.T, ops *memory.OperationStore, nature core.Nature, state core.State, amount string, date time.Time) {
	t.Helper()
	value, err := core.NewMoneyFromString(amount, core.DefaultCurrency)
	if err != nil {
		t.Fatalf("NewMoneyFromString(%q): %v", amount, err)
	}
	op, err := core.NewOperation(core.OperationProps{
		ID:                 uuid.NewString(),
		Nature:             nature,
		State:              state,
		PaymentMethod:      core.PaymentPix,
		SourceAccount:      "corrente",
		DestinationAccount: "mercado",
		Date:               date,
		Value:              value,
		Category:           "geral",
		CreatedAt:          time.Now(),
	})
	if err != nil {
		t.Fatalf("NewOperation: %v", err)
	}
	if _, err := ops.Save(context.Background(), op); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func newWorker(exporter *exportmem.Store) (*worker.AggregationWorker, *memory.OperationStore, *memory.SummaryStore) {
	ops := memory.NewOperationStore()
	summaries := memory.NewSummaryStore()
	agg := services.NewSummaryAggregator(ops, summaries, core.DefaultCurrency)
	var writer = worker.NewAggregationWorker(agg, ops, summaries, nil, "user-1")
	if exporter != nil {
		writer = worker.NewAggregationWorker(agg, ops, summaries, exporter, "user-1")
	}
	return writer, ops, summaries
}

func TestHandleOperationChangedCreatesSummary(t *testing.T) {
	exporter := exportmem.New()
	w, ops, summaries := newWorker(exporter)

	march := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	seedOperation(t, ops, core.NatureIncome, core.StateReceived, "2000.00", march)
	seedOperation(t, ops, core.NatureExpense, core.StatePaid, "750.00", march)

	msg := amqp.NewOperationChangedMessage("op-1", "user-1", "2025-03", amqp.ActionCreated)
	if err := w.HandleOperationChanged(context.Background(), msg); err != nil {
		t.Fatalf("HandleOperationChanged: %v", err)
	}

	got, err := summaries.FindByUserAndMonth(context.Background(), "user-1", "2025-03")
	if err != nil {
		t.Fatalf("FindByUserAndMonth: %v", err)
	}
	if got == nil {
		t.Fatal("summary was not created")
	}
	if got.Balance.Amount.String() != "1250" {
		t.Errorf("Balance = %s, want 1250", got.Balance.Amount.String())
	}

	if exported := exporter.Items(); len(exported) != 1 {
		t.Errorf("exported %d summaries, want 1", len(exported))
	}
}

func TestHandleOperationChangedFallsBackToDefaultUser(t *testing.T) {
	w, ops, summaries := newWorker(nil)

	june := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedOperation(t, ops, core.NatureExpense, core.StatePaid, "80.00", june)

	msg := amqp.NewOperationChangedMessage("op-1", "", "2025-06", amqp.ActionDeleted)
	if err := w.HandleOperationChanged(context.Background(), msg); err != nil {
		t.Fatalf("HandleOperationChanged: %v", err)
	}

	got, err := summaries.FindByUserAndMonth(context.Background(), "user-1", "2025-06")
	if err != nil {
		t.Fatalf("FindByUserAndMonth: %v", err)
	}
	if got == nil {
		t.Fatal("summary should be attributed to the default user")
	}
}

func TestHandleOperationChangedRejectsInvalidMonth(t *testing.T) {
	w, _, _ := newWorker(nil)

	msg := amqp.NewOperationChangedMessage("op-1", "user-1", "junho", amqp.ActionCreated)
	if err := w.HandleOperationChanged(context.Background(), msg); err == nil {
		t.Fatal("expected error for malformed month")
	}
}

func TestReconcileAllCoversOperationMonthsAndStaleSummaries(t *testing.T) {
	w, ops, summaries := newWorker(nil)

	seedOperation(t, ops, core.NatureIncome, core.StateReceived, "100.00",
		time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	seedOperation(t, ops, core.NatureIncome, core.StateReceived, "200.00",
		time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC))

	// stale summary for a month with no remaining operations
	stale, err := core.NewMonthlyFinanceSummary(core.SummaryProps{
		ID:                 uuid.NewString(),
		UserID:             "user-2",
		Month:              "2024-12",
		TotalIncome:        core.Zero(core.DefaultCurrency),
		TotalExpense:       core.Zero(core.DefaultCurrency),
		Balance:            core.Zero(core.DefaultCurrency),
		TotalPlannedBudget: core.Zero(core.DefaultCurrency),
		TotalActualBudget:  core.Zero(core.DefaultCurrency),
		CreatedAt:          time.Now(),
	})
	if err != nil {
		t.Fatalf("NewMonthlyFinanceSummary: %v", err)
	}
	if _, err := summaries.Save(context.Background(), stale); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := w.ReconcileAll(context.Background()); err != nil {
		t.Fatalf("ReconcileAll: %v", err)
	}

	for _, month := range []string{"2025-01", "2025-02"} {
		got, err := summaries.FindByUserAndMonth(context.Background(), "user-1", month)
		if err != nil {
			t.Fatalf("FindByUserAndMonth(%s): %v", month, err)
		}
		if got == nil {
			t.Fatalf("no summary for %s after reconcile", month)
		}
	}

	got, err := summaries.FindByUserAndMonth(context.Background(), "user-2", "2024-12")
	if err != nil {
		t.Fatalf("FindByUserAndMonth: %v", err)
	}
	if got == nil {
		t.Fatal("stale summary should have been recomputed, not dropped")
	}
}
