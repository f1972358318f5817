package usecase_test

import (
	"context"
	"testing"
	"time"

	"contas/internal/core"
	"contas/internal/storage/memory"
	"contas/internal/usecase"
)

func seedSummary(t *testing.T, store *memory.SummaryStore, id, userID, month string) *core.MonthlyFinanceSummary {
	t.Helper()
	s, err := core.NewMonthlyFinanceSummary(core.SummaryProps{
		ID:                 id,
		UserID:             userID,
		Month:              month,
		TotalIncome:        money(t, "5000"),
		TotalExpense:       money(t, "3000"),
		Balance:            money(t, "2000"),
		TotalPlannedBudget: money(t, "3500"),
		TotalActualBudget:  money(t, "3000"),
		CreatedAt:          time.Now(),
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
	if _, err := store.Save(context.Background(), s); err != nil {
		t.Fatalf("seed save %s: %v", id, err)
	}
	return s
}

func strptr(s string) *string { return &s }

func TestGetMonthlyFinanceSummaryDispatch(t *testing.T) {
	store := memory.NewSummaryStore()
	seedSummary(t, store, "s1", "alice", "2024-03")
	seedSummary(t, store, "s2", "alice", "2024-04")
	seedSummary(t, store, "s3", "bob", "2024-03")
	uc := usecase.NewGetMonthlyFinanceSummary(store)

	cases := []struct {
		name string
		req  usecase.GetMonthlyFinanceSummaryRequest
		want int
	}{
		{"user and month", usecase.GetMonthlyFinanceSummaryRequest{UserID: strptr("alice"), Month: strptr("2024-03")}, 1},
		{"user only", usecase.GetMonthlyFinanceSummaryRequest{UserID: strptr("alice")}, 2},
		{"month only", usecase.GetMonthlyFinanceSummaryRequest{Month: strptr("2024-03")}, 2},
		{"no filters", usecase.GetMonthlyFinanceSummaryRequest{}, 3},
		{"user and month, absent", usecase.GetMonthlyFinanceSummaryRequest{UserID: strptr("carol"), Month: strptr("2024-03")}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := uc.Execute(context.Background(), tc.req)
			list, err := res.Value()
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if len(list) != tc.want {
				t.Fatalf("got %d summaries, want %d", len(list), tc.want)
			}
		})
	}
}

func TestGetMonthlyFinanceSummaryValidation(t *testing.T) {
	uc := usecase.NewGetMonthlyFinanceSummary(memory.NewSummaryStore())

	cases := []struct {
		name string
		req  usecase.GetMonthlyFinanceSummaryRequest
		want string
	}{
		{"blank user", usecase.GetMonthlyFinanceSummaryRequest{UserID: strptr("  ")}, "User ID cannot be empty"},
		{"bad shape", usecase.GetMonthlyFinanceSummaryRequest{Month: strptr("03/2024")}, "Month must be in YYYY-MM format"},
		{"month 13", usecase.GetMonthlyFinanceSummaryRequest{Month: strptr("2024-13")}, "Month must be between 01 and 12"},
		{"year 1899", usecase.GetMonthlyFinanceSummaryRequest{Month: strptr("1899-01")}, "Year must be between 1900 and 2100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := uc.Execute(context.Background(), tc.req)
			if !res.IsFailure() {
				t.Fatalf("expected failure")
			}
			if res.Err().Error() != tc.want {
				t.Fatalf("got %q, want %q", res.Err().Error(), tc.want)
			}
		})
	}
}
