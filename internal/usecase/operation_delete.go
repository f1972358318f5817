package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contas/internal/result"
)

// ErrOperationIDEmpty rejects blank ids before any storage call.
var ErrOperationIDEmpty = errors.New("Operation ID cannot be empty")

type DeleteOperationRequest struct {
	ID string
}

type DeleteOperationResponse struct {
	Deleted bool
}

// DeleteOperation removes an operation. A missing id and a zero-row delete
// are the same business outcome: not found.
type DeleteOperation struct {
	ops OperationStore
}

func NewDeleteOperation(ops OperationStore) *DeleteOperation {
	return &DeleteOperation{ops: ops}
}

func (uc *DeleteOperation) Execute(ctx context.Context, req DeleteOperationRequest) result.Result[DeleteOperationResponse] {
	if strings.TrimSpace(req.ID) == "" {
		return result.Failure[DeleteOperationResponse](ErrOperationIDEmpty)
	}

	existing, err := uc.ops.FindByID(ctx, req.ID)
	if err != nil {
		return result.Failure[DeleteOperationResponse](fmt.Errorf("Failed to delete operation: %w", err))
	}
	if existing == nil {
		return result.Failure[DeleteOperationResponse](ErrOperationNotFound)
	}

	deleted, err := uc.ops.Delete(ctx, req.ID)
	if err != nil {
		return result.Failure[DeleteOperationResponse](fmt.Errorf("Failed to delete operation: %w", err))
	}
	if !deleted {
		// the row vanished between the read and the delete
		return result.Failure[DeleteOperationResponse](ErrOperationNotFound)
	}
	return result.Success(DeleteOperationResponse{Deleted: true})
}
