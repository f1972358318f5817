package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contas/internal/core"
	"contas/internal/result"
)

// GetOperationByIDRequest looks up a single operation.
type GetOperationByIDRequest struct {
	ID string
}

// GetOperationByID fetches one operation. A missing operation is a success
// with a nil payload: only the lookup itself can fail.
type GetOperationByID struct {
	ops OperationStore
}

func NewGetOperationByID(ops OperationStore) *GetOperationByID {
	return &GetOperationByID{ops: ops}
}

func (uc *GetOperationByID) Execute(ctx context.Context, req GetOperationByIDRequest) result.Result[*core.Operation] {
	if strings.TrimSpace(req.ID) == "" {
		return result.Failure[*core.Operation](ErrOperationIDEmpty)
	}

	op, err := uc.ops.FindByID(ctx, req.ID)
	if err != nil {
		return result.Failure[*core.Operation](fmt.Errorf("Failed to get operation: %w", err))
	}
	return result.Success(op)
}

// GetOperationsRequest holds the optional filters. StartDate and EndDate
// must be supplied together.
type GetOperationsRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
	Category  string
}

// GetOperations lists operations, running one storage query per active
// filter and intersecting the result sets by id. The multi-query shape is
// kept for parity with existing consumers, cost included.
type GetOperations struct {
	ops OperationStore
}

func NewGetOperations(ops OperationStore) *GetOperations {
	return &GetOperations{ops: ops}
}

func (uc *GetOperations) Execute(ctx context.Context, req GetOperationsRequest) result.Result[[]*core.Operation] {
	if (req.StartDate == nil) != (req.EndDate == nil) {
		return result.Failure[[]*core.Operation](errors.New("Start date and end date must be provided together"))
	}

	var sets [][]*core.Operation

	if req.StartDate != nil {
		ops, err := uc.ops.FindByDateRange(ctx, *req.StartDate, *req.EndDate)
		if err != nil {
			return result.Failure[[]*core.Operation](fmt.Errorf("Failed to get operations: %w", err))
		}
		sets = append(sets, ops)
	}
	if strings.TrimSpace(req.AccountID) != "" {
		ops, err := uc.ops.FindByAccount(ctx, req.AccountID)
		if err != nil {
			return result.Failure[[]*core.Operation](fmt.Errorf("Failed to get operations: %w", err))
		}
		sets = append(sets, ops)
	}
	if strings.TrimSpace(req.Category) != "" {
		ops, err := uc.ops.FindByCategory(ctx, req.Category)
		if err != nil {
			return result.Failure[[]*core.Operation](fmt.Errorf("Failed to get operations: %w", err))
		}
		sets = append(sets, ops)
	}

	if len(sets) == 0 {
		ops, err := uc.ops.FindAll(ctx)
		if err != nil {
			return result.Failure[[]*core.Operation](fmt.Errorf("Failed to get operations: %w", err))
		}
		return result.Success(ops)
	}

	return result.Success(intersectByID(sets))
}

// intersectByID keeps the order of the first set and drops any operation
// whose id is absent from a later set.
func intersectByID(sets [][]*core.Operation) []*core.Operation {
	out := sets[0]
	for _, set := range sets[1:] {
		ids := make(map[string]struct{}, len(set))
		for _, op := range set {
			ids[op.ID] = struct{}{}
		}
		var kept []*core.Operation
		for _, op := range out {
			if _, ok := ids[op.ID]; ok {
				kept = append(kept, op)
			}
		}
		out = kept
	}
	return out
}
