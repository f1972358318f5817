package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contas/internal/core"
	"contas/internal/result"
)

// ErrOperationNotFound is the business outcome for update/delete against an
// unknown id. Callers match on the message, so it stays stable.
var ErrOperationNotFound = errors.New("Operation not found")

// UpdateOperationRequest carries the id plus the fields to change. Nil
// pointers mean "keep the stored value"; the original creation timestamp is
// always preserved.
type UpdateOperationRequest struct {
	ID                 string
	Nature             *core.Nature
	State              *core.State
	PaymentMethod      *core.PaymentMethod
	SourceAccount      *string
	DestinationAccount *string
	Date               *time.Time
	Value              *core.Money
	Category           *string
	Details            *string
	Project            *string
	Receipt            []byte
}

// UpdateOperation replaces a stored operation with a re-validated merge of
// the provided fields over the existing ones. The read-then-write pair is
// not transactional; concurrent updates to the same id can race.
type UpdateOperation struct {
	ops OperationStore
}

func NewUpdateOperation(ops OperationStore) *UpdateOperation {
	return &UpdateOperation{ops: ops}
}

func (uc *UpdateOperation) Execute(ctx context.Context, req UpdateOperationRequest) result.Result[*core.Operation] {
	existing, err := uc.ops.FindByID(ctx, req.ID)
	if err != nil {
		return result.Failure[*core.Operation](fmt.Errorf("Failed to update operation: %w", err))
	}
	if existing == nil {
		return result.Failure[*core.Operation](ErrOperationNotFound)
	}

	props := core.OperationProps{
		ID:                 existing.ID,
		Nature:             existing.Nature,
		State:              existing.State,
		PaymentMethod:      existing.PaymentMethod,
		SourceAccount:      existing.SourceAccount,
		DestinationAccount: existing.DestinationAccount,
		Date:               existing.Date,
		Value:              existing.Value,
		Category:           existing.Category,
		Details:            existing.Details,
		Project:            existing.Project,
		Receipt:            existing.Receipt,
		CreatedAt:          existing.CreatedAt,
	}
	if req.Nature != nil {
		props.Nature = *req.Nature
	}
	if req.State != nil {
		props.State = *req.State
	}
	if req.PaymentMethod != nil {
		props.PaymentMethod = *req.PaymentMethod
	}
	if req.SourceAccount != nil {
		props.SourceAccount = *req.SourceAccount
	}
	if req.DestinationAccount != nil {
		props.DestinationAccount = *req.DestinationAccount
	}
	if req.Date != nil {
		props.Date = *req.Date
	}
	if req.Value != nil {
		props.Value = *req.Value
	}
	if req.Category != nil {
		props.Category = *req.Category
	}
	if req.Details != nil {
		props.Details = *req.Details
	}
	if req.Project != nil {
		props.Project = *req.Project
	}
	if req.Receipt != nil {
		props.Receipt = req.Receipt
	}

	merged, err := core.NewOperation(props)
	if err != nil {
		return result.Failure[*core.Operation](fmt.Errorf("Failed to update operation: %w", err))
	}

	saved, err := uc.ops.Save(ctx, merged)
	if err != nil {
		return result.Failure[*core.Operation](fmt.Errorf("Failed to update operation: %w", err))
	}
	return result.Success(saved)
}
