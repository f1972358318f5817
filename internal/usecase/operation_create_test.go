package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"contas/internal/core"
	"contas/internal/storage/memory"
	"contas/internal/usecase"
)

func money(t *testing.T, amount string) core.Money {
	t.Helper()
	m, err := core.NewMoneyFromString(amount, "BRL")
	if err != nil {
		t.Fatalf("NewMoneyFromString(%q): %v", amount, err)
	}
	return m
}

func TestCreateOperation(t *testing.T) {
	store := memory.NewOperationStore()
	uc := usecase.NewCreateOperation(store)

	res := uc.Execute(context.Background(), usecase.CreateOperationRequest{
		Nature:             core.NatureExpense,
		State:              core.StateToPay,
		PaymentMethod:      core.PaymentPix,
		SourceAccount:      "A",
		DestinationAccount: "B",
		Value:              money(t, "500"),
		Category:           "Food",
	})

	op, err := res.Value()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if op.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if op.CreatedAt.IsZero() || time.Since(op.CreatedAt) > time.Minute {
		t.Fatalf("expected CreatedAt to be now, got %v", op.CreatedAt)
	}

	stored, err := store.FindByID(context.Background(), op.ID)
	if err != nil || stored == nil {
		t.Fatalf("operation not persisted: %v", err)
	}

	// each create generates a distinct id
	second := uc.Execute(context.Background(), usecase.CreateOperationRequest{
		Nature:             core.NatureExpense,
		State:              core.StateToPay,
		PaymentMethod:      core.PaymentPix,
		SourceAccount:      "A",
		DestinationAccount: "B",
		Value:              money(t, "500"),
		Category:           "Food",
	}).MustValue()
	if second.ID == op.ID {
		t.Fatalf("ids must be unique")
	}
}

func TestCreateOperationIncompatibleState(t *testing.T) {
	uc := usecase.NewCreateOperation(memory.NewOperationStore())

	res := uc.Execute(context.Background(), usecase.CreateOperationRequest{
		Nature:             core.NatureExpense,
		State:              core.StateReceived,
		PaymentMethod:      core.PaymentPix,
		SourceAccount:      "A",
		DestinationAccount: "B",
		Value:              money(t, "500"),
		Category:           "Food",
	})

	if !res.IsFailure() {
		t.Fatalf("expected failure")
	}
	err := res.Err()
	if !strings.Contains(err.Error(), `State "recebido" is not compatible with nature "despesa"`) {
		t.Fatalf("unexpected message: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Failed to create operation: ") {
		t.Fatalf("missing prefix: %v", err)
	}
}

func TestCreateOperationValidationFailureLeavesStoreEmpty(t *testing.T) {
	store := memory.NewOperationStore()
	uc := usecase.NewCreateOperation(store)

	res := uc.Execute(context.Background(), usecase.CreateOperationRequest{
		Nature:             "bonus",
		State:              core.StateToPay,
		PaymentMethod:      core.PaymentPix,
		SourceAccount:      "A",
		DestinationAccount: "B",
		Value:              money(t, "10"),
		Category:           "Food",
	})

	if !res.IsFailure() {
		t.Fatalf("expected failure")
	}
	if n, _ := store.Count(context.Background()); n != 0 {
		t.Fatalf("nothing should be persisted, found %d", n)
	}
}
