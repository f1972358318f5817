package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"contas/internal/core"
	"contas/internal/storage/memory"
	"contas/internal/usecase"
)

func seedOperation(t *testing.T, store *memory.OperationStore) *core.Operation {
	t.Helper()
	op, err := core.NewOperation(core.OperationProps{
		ID:                 "op-1",
		Nature:             core.NatureExpense,
		State:              core.StateToPay,
		PaymentMethod:      core.PaymentBoleto,
		SourceAccount:      "Conta Corrente",
		DestinationAccount: "Energia",
		Date:               time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Value:              money(t, "230.50"),
		Category:           "Moradia",
		Details:            "conta de luz",
		CreatedAt:          time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Save(context.Background(), op); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	return op
}

func TestUpdateOperationMergesPartialFields(t *testing.T) {
	store := memory.NewOperationStore()
	original := seedOperation(t, store)
	uc := usecase.NewUpdateOperation(store)

	state := core.StatePaid
	category := "Casa"
	res := uc.Execute(context.Background(), usecase.UpdateOperationRequest{
		ID:       original.ID,
		State:    &state,
		Category: &category,
	})

	updated, err := res.Value()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if updated.State != core.StatePaid || updated.Category != "Casa" {
		t.Fatalf("changed fields not applied: %s %s", updated.State, updated.Category)
	}
	// unspecified fields preserved verbatim, creation timestamp included
	if updated.PaymentMethod != original.PaymentMethod ||
		updated.Details != original.Details ||
		!updated.Date.Equal(original.Date) ||
		!updated.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("unspecified fields not preserved: %+v", updated)
	}

	stored, _ := store.FindByID(context.Background(), original.ID)
	if stored.State != core.StatePaid {
		t.Fatalf("update not persisted")
	}
}

func TestUpdateOperationNotFound(t *testing.T) {
	uc := usecase.NewUpdateOperation(memory.NewOperationStore())

	res := uc.Execute(context.Background(), usecase.UpdateOperationRequest{ID: "ghost"})
	if !res.IsFailure() {
		t.Fatalf("expected failure")
	}
	if !errors.Is(res.Err(), usecase.ErrOperationNotFound) {
		t.Fatalf("got %v, want operation-not-found", res.Err())
	}
	if res.Err().Error() != "Operation not found" {
		t.Fatalf("message changed: %q", res.Err().Error())
	}
}

func TestUpdateOperationRevalidates(t *testing.T) {
	store := memory.NewOperationStore()
	original := seedOperation(t, store)
	uc := usecase.NewUpdateOperation(store)

	// pushing a despesa into an income state must fail entity validation
	state := core.StateReceived
	res := uc.Execute(context.Background(), usecase.UpdateOperationRequest{
		ID:    original.ID,
		State: &state,
	})

	if !res.IsFailure() {
		t.Fatalf("expected failure")
	}
	if !strings.HasPrefix(res.Err().Error(), "Failed to update operation: ") {
		t.Fatalf("missing prefix: %v", res.Err())
	}

	stored, _ := store.FindByID(context.Background(), original.ID)
	if stored.State != core.StateToPay {
		t.Fatalf("failed update must not persist, state is %s", stored.State)
	}
}
