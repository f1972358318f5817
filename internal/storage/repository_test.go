package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"contas/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "contas.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testOperation(t *testing.T, id string) *core.Operation {
	t.Helper()
	value, err := core.NewMoneyFromString("123.45", "BRL")
	if err != nil {
		t.Fatalf("money: %v", err)
	}
	op, err := core.NewOperation(core.OperationProps{
		ID:                 id,
		Nature:             core.NatureIncome,
		State:              core.StateReceived,
		PaymentMethod:      core.PaymentTransfer,
		SourceAccount:      "Empresa",
		DestinationAccount: "Conta Corrente",
		Date:               time.Date(2024, 3, 15, 12, 30, 45, 123000000, time.UTC),
		Value:              value,
		Category:           "Salário",
		Details:            "março",
		Project:            "pessoal",
		Receipt:            []byte{0x25, 0x50, 0x44, 0x46},
		CreatedAt:          time.Date(2024, 3, 15, 12, 31, 0, 500000000, time.UTC),
	})
	if err != nil {
		t.Fatalf("operation: %v", err)
	}
	return op
}

func TestOperationRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ops := repo.Operations()
	ctx := context.Background()

	original := testOperation(t, "op-1")
	if _, err := ops.Save(ctx, original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := ops.FindByID(ctx, "op-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatalf("operation not found after save")
	}

	// every scalar survives, dates to the millisecond
	if got.ID != original.ID ||
		got.Nature != original.Nature ||
		got.State != original.State ||
		got.PaymentMethod != original.PaymentMethod ||
		got.SourceAccount != original.SourceAccount ||
		got.DestinationAccount != original.DestinationAccount ||
		got.Category != original.Category ||
		got.Details != original.Details ||
		got.Project != original.Project {
		t.Fatalf("scalar fields changed: %+v", got)
	}
	if !got.Value.Equal(original.Value) {
		t.Fatalf("value changed: %s vs %s", got.Value.Amount, original.Value.Amount)
	}
	if !got.Date.Equal(original.Date) || !got.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("date precision lost: %v vs %v, %v vs %v",
			got.Date, original.Date, got.CreatedAt, original.CreatedAt)
	}
	if !bytes.Equal(got.Receipt, original.Receipt) {
		t.Fatalf("receipt changed")
	}
}

func TestOperationFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Operations().FindByID(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("a missing row is not an error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestOperationSaveIsUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ops := repo.Operations()
	ctx := context.Background()

	op := testOperation(t, "op-1")
	if _, err := ops.Save(ctx, op); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := ops.Save(ctx, op.MarkAsPending()); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, _ := ops.FindByID(ctx, "op-1")
	if got.State != core.StateToReceive {
		t.Fatalf("upsert did not replace state: %s", got.State)
	}
	if n, _ := ops.Count(ctx); n != 1 {
		t.Fatalf("expected one row, got %d", n)
	}
}

func TestOperationFilters(t *testing.T) {
	repo := newTestRepo(t)
	ops := repo.Operations()
	ctx := context.Background()

	mk := func(id, account, category string, date time.Time) {
		t.Helper()
		op := testOperation(t, id)
		base := core.OperationProps{
			ID:                 id,
			Nature:             op.Nature,
			State:              op.State,
			PaymentMethod:      op.PaymentMethod,
			SourceAccount:      account,
			DestinationAccount: "dest",
			Date:               date,
			Value:              op.Value,
			Category:           category,
			CreatedAt:          op.CreatedAt,
		}
		built, err := core.NewOperation(base)
		if err != nil {
			t.Fatalf("build %s: %v", id, err)
		}
		if _, err := ops.Save(ctx, built); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	mk("op-a", "X", "Food", march)
	mk("op-b", "Y", "Food", march)
	mk("op-c", "X", "Rent", may)

	inMarch, err := ops.FindByDateRange(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	if err != nil || len(inMarch) != 2 {
		t.Fatalf("date range: got %d err=%v", len(inMarch), err)
	}

	byAccount, err := ops.FindByAccount(ctx, "X")
	if err != nil || len(byAccount) != 2 {
		t.Fatalf("by account: got %d err=%v", len(byAccount), err)
	}

	byCategory, err := ops.FindByCategory(ctx, "Food")
	if err != nil || len(byCategory) != 2 {
		t.Fatalf("by category: got %d err=%v", len(byCategory), err)
	}
}

func TestOperationDelete(t *testing.T) {
	repo := newTestRepo(t)
	ops := repo.Operations()
	ctx := context.Background()

	if _, err := ops.Save(ctx, testOperation(t, "op-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deleted, err := ops.Delete(ctx, "op-1")
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = ops.Delete(ctx, "op-1")
	if err != nil || deleted {
		t.Fatalf("second Delete must report zero rows: deleted=%v err=%v", deleted, err)
	}
}

func testSummary(t *testing.T, id, userID, month string) *core.MonthlyFinanceSummary {
	t.Helper()
	m := func(amount string) core.Money {
		v, err := core.NewMoneyFromString(amount, "BRL")
		if err != nil {
			t.Fatalf("money: %v", err)
		}
		return v
	}
	s, err := core.NewMonthlyFinanceSummary(core.SummaryProps{
		ID:                 id,
		UserID:             userID,
		Month:              month,
		TotalIncome:        m("5000"),
		TotalExpense:       m("3250.75"),
		Balance:            m("1749.25"),
		TotalPlannedBudget: m("3500"),
		TotalActualBudget:  m("3250.75"),
		CreatedAt:          time.Date(2024, 4, 1, 0, 0, 0, 250000000, time.UTC),
	})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	return s
}

func TestSummaryRoundTripAndQueries(t *testing.T) {
	repo := newTestRepo(t)
	sums := repo.Summaries()
	ctx := context.Background()

	if _, err := sums.Save(ctx, testSummary(t, "s1", "alice", "2024-03")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := sums.Save(ctx, testSummary(t, "s2", "alice", "2024-04")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := sums.Save(ctx, testSummary(t, "s3", "bob", "2024-03")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := sums.FindByUserAndMonth(ctx, "alice", "2024-03")
	if err != nil || got == nil {
		t.Fatalf("FindByUserAndMonth: %v %v", got, err)
	}
	if got.TotalExpense.Amount.String() != "3250.75" {
		t.Fatalf("expense changed: %s", got.TotalExpense.Amount)
	}
	if got.CalculateSavingsRate().IsZero() {
		t.Fatalf("derived computation broken after round trip")
	}

	byUser, err := sums.FindByUser(ctx, "alice")
	if err != nil || len(byUser) != 2 {
		t.Fatalf("FindByUser: got %d err=%v", len(byUser), err)
	}
	byMonth, err := sums.FindByMonth(ctx, "2024-03")
	if err != nil || len(byMonth) != 2 {
		t.Fatalf("FindByMonth: got %d err=%v", len(byMonth), err)
	}
	all, err := sums.FindAll(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("FindAll: got %d err=%v", len(all), err)
	}

	missing, err := sums.FindByUserAndMonth(ctx, "carol", "2024-03")
	if err != nil || missing != nil {
		t.Fatalf("missing pair: %v %v", missing, err)
	}

	deleted, err := sums.Delete(ctx, "s1")
	if err != nil || !deleted {
		t.Fatalf("Delete: %v %v", deleted, err)
	}
	if n, _ := sums.Count(ctx); n != 2 {
		t.Fatalf("Count after delete = %d", n)
	}
}
