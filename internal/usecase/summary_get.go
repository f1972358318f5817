package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contas/internal/core"
	"contas/internal/result"
)

// ErrUserIDEmpty rejects a present-but-blank user filter.
var ErrUserIDEmpty = errors.New("User ID cannot be empty")

// GetMonthlyFinanceSummaryRequest filters summaries. Both fields are
// optional; nil means "no filter", which is distinct from present-but-blank.
type GetMonthlyFinanceSummaryRequest struct {
	UserID *string
	Month  *string
}

// GetMonthlyFinanceSummary reads summaries, dispatching to the most specific
// store query the supplied filters allow.
type GetMonthlyFinanceSummary struct {
	summaries SummaryStore
}

func NewGetMonthlyFinanceSummary(summaries SummaryStore) *GetMonthlyFinanceSummary {
	return &GetMonthlyFinanceSummary{summaries: summaries}
}

func (uc *GetMonthlyFinanceSummary) Execute(ctx context.Context, req GetMonthlyFinanceSummaryRequest) result.Result[[]*core.MonthlyFinanceSummary] {
	fail := result.Failure[[]*core.MonthlyFinanceSummary]

	if req.UserID != nil && strings.TrimSpace(*req.UserID) == "" {
		return fail(ErrUserIDEmpty)
	}
	if req.Month != nil {
		// same two-stage check the entity runs, so the messages match
		if err := core.ValidateMonth(*req.Month); err != nil {
			return fail(err)
		}
	}

	switch {
	case req.UserID != nil && req.Month != nil:
		s, err := uc.summaries.FindByUserAndMonth(ctx, *req.UserID, *req.Month)
		if err != nil {
			return fail(fmt.Errorf("Failed to get monthly finance summary: %w", err))
		}
		if s == nil {
			return result.Success([]*core.MonthlyFinanceSummary(nil))
		}
		return result.Success([]*core.MonthlyFinanceSummary{s})

	case req.UserID != nil:
		list, err := uc.summaries.FindByUser(ctx, *req.UserID)
		if err != nil {
			return fail(fmt.Errorf("Failed to get monthly finance summary: %w", err))
		}
		return result.Success(list)

	case req.Month != nil:
		list, err := uc.summaries.FindByMonth(ctx, *req.Month)
		if err != nil {
			return fail(fmt.Errorf("Failed to get monthly finance summary: %w", err))
		}
		return result.Success(list)

	default:
		list, err := uc.summaries.FindAll(ctx)
		if err != nil {
			return fail(fmt.Errorf("Failed to get monthly finance summary: %w", err))
		}
		return result.Success(list)
	}
}
