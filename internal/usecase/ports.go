// Package usecase contains the orchestration layer: one stateless use case
// per operation, each validating its request, driving the domain entities
// and delegating persistence to the storage contracts below.
package usecase

import (
	"context"
	"time"

	"contas/internal/core"
)

// Ports for outbound storage adapters. Any conforming implementation
// (SQLite, memory) is interchangeable without touching use cases.
type (
	// OperationStore persists operations. FindByID returns nil without an
	// error when the id is unknown; Delete reports whether a row was
	// actually removed.
	OperationStore interface {
		Save(ctx context.Context, op *core.Operation) (*core.Operation, error)
		FindByID(ctx context.Context, id string) (*core.Operation, error)
		FindAll(ctx context.Context) ([]*core.Operation, error)
		FindByDateRange(ctx context.Context, start, end time.Time) ([]*core.Operation, error)
		FindByAccount(ctx context.Context, accountID string) ([]*core.Operation, error)
		FindByCategory(ctx context.Context, category string) ([]*core.Operation, error)
		Delete(ctx context.Context, id string) (bool, error)
		Count(ctx context.Context) (int64, error)
	}

	// SummaryStore persists monthly finance summaries.
	SummaryStore interface {
		Save(ctx context.Context, s *core.MonthlyFinanceSummary) (*core.MonthlyFinanceSummary, error)
		FindByID(ctx context.Context, id string) (*core.MonthlyFinanceSummary, error)
		FindAll(ctx context.Context) ([]*core.MonthlyFinanceSummary, error)
		FindByUser(ctx context.Context, userID string) ([]*core.MonthlyFinanceSummary, error)
		FindByMonth(ctx context.Context, month string) ([]*core.MonthlyFinanceSummary, error)
		FindByUserAndMonth(ctx context.Context, userID, month string) (*core.MonthlyFinanceSummary, error)
		Delete(ctx context.Context, id string) (bool, error)
		Count(ctx context.Context) (int64, error)
	}
)
