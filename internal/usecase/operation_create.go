package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/result"
)

// CreateOperationRequest carries the fields of a new operation. The id and
// creation timestamp are generated here, never supplied by the caller.
type CreateOperationRequest struct {
	Nature             core.Nature
	State              core.State
	PaymentMethod      core.PaymentMethod
	SourceAccount      string
	DestinationAccount string
	Date               time.Time
	Value              core.Money
	Category           string
	Details            string
	Project            string
	Receipt            []byte
}

// CreateOperation builds and persists a new operation.
type CreateOperation struct {
	ops OperationStore
}

func NewCreateOperation(ops OperationStore) *CreateOperation {
	return &CreateOperation{ops: ops}
}

func (uc *CreateOperation) Execute(ctx context.Context, req CreateOperationRequest) result.Result[*core.Operation] {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	op, err := core.NewOperation(core.OperationProps{
		ID:                 uuid.NewString(),
		Nature:             req.Nature,
		State:              req.State,
		PaymentMethod:      req.PaymentMethod,
		SourceAccount:      req.SourceAccount,
		DestinationAccount: req.DestinationAccount,
		Date:               date,
		Value:              req.Value,
		Category:           req.Category,
		Details:            req.Details,
		Project:            req.Project,
		Receipt:            req.Receipt,
		CreatedAt:          time.Now(),
	})
	if err != nil {
		return result.Failure[*core.Operation](fmt.Errorf("Failed to create operation: %w", err))
	}

	saved, err := uc.ops.Save(ctx, op)
	if err != nil {
		return result.Failure[*core.Operation](fmt.Errorf("Failed to create operation: %w", err))
	}
	return result.Success(saved)
}
