package usecase_test

import (
	"context"
	"errors"
	"testing"

	"contas/internal/storage/memory"
	"contas/internal/usecase"
)

func TestDeleteOperation(t *testing.T) {
	store := memory.NewOperationStore()
	op := seedOperation(t, store)
	uc := usecase.NewDeleteOperation(store)

	res := uc.Execute(context.Background(), usecase.DeleteOperationRequest{ID: op.ID})
	resp, err := res.Value()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !resp.Deleted {
		t.Fatalf("expected Deleted=true")
	}
	if found, _ := store.FindByID(context.Background(), op.ID); found != nil {
		t.Fatalf("operation still present after delete")
	}
}

func TestDeleteOperationMissing(t *testing.T) {
	uc := usecase.NewDeleteOperation(memory.NewOperationStore())

	res := uc.Execute(context.Background(), usecase.DeleteOperationRequest{ID: "ghost"})
	if !res.IsFailure() {
		t.Fatalf("expected failure")
	}
	if res.Err().Error() != "Operation not found" {
		t.Fatalf("got %q, want %q", res.Err().Error(), "Operation not found")
	}
}

func TestDeleteOperationBlankID(t *testing.T) {
	uc := usecase.NewDeleteOperation(memory.NewOperationStore())

	for _, id := range []string{"", "   "} {
		res := uc.Execute(context.Background(), usecase.DeleteOperationRequest{ID: id})
		if !res.IsFailure() {
			t.Fatalf("id %q: expected failure", id)
		}
		if !errors.Is(res.Err(), usecase.ErrOperationIDEmpty) {
			t.Fatalf("id %q: got %v", id, res.Err())
		}
	}
}
