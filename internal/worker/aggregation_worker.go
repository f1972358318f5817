// Package worker keeps monthly summaries consistent with the operation log.
// It reacts to operation-changed messages and runs reconcile passes to
// recover from missed messages or downtime.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"contas/internal/amqp"
	"contas/internal/export"
	"contas/internal/services"
	"contas/internal/usecase"
)

// AggregationWorker recomputes user-month summaries. The exporter is
// optional; when set, every recomputed summary is also pushed to the
// reporting destination.
type AggregationWorker struct {
	aggregator  *services.SummaryAggregator
	ops         usecase.OperationStore
	summaries   usecase.SummaryStore
	exporter    export.SummaryWriter
	defaultUser string
}

func NewAggregationWorker(aggregator *services.SummaryAggregator, ops usecase.OperationStore, summaries usecase.SummaryStore, exporter export.SummaryWriter, defaultUser string) *AggregationWorker {
	return &AggregationWorker{
		aggregator:  aggregator,
		ops:         ops,
		summaries:   summaries,
		exporter:    exporter,
		defaultUser: defaultUser,
	}
}

// HandleOperationChanged processes a single operation-changed message.
// Messages without a user fall back to the configured default user.
func (w *AggregationWorker) HandleOperationChanged(ctx context.Context, msg *amqp.OperationChangedMessage) error {
	userID := msg.UserID
	if userID == "" {
		userID = w.defaultUser
	}
	if userID == "" {
		return fmt.Errorf("message %s has no user and no default user is configured", msg.OperationID)
	}

	if _, err := w.aggregator.Reaggregate(ctx, userID, msg.Month); err != nil {
		return fmt.Errorf("reaggregate %s %s: %w", userID, msg.Month, err)
	}

	w.exportMonth(ctx, userID, msg.Month)
	return nil
}

// ReconcileAll recomputes every user-month that has either operations or an
// existing summary. Operations are attributed to the default user; summaries
// keep their own user. Individual failures are logged and skipped so one bad
// month cannot stall the pass.
func (w *AggregationWorker) ReconcileAll(ctx context.Context) error {
	targets, err := w.collectTargets(ctx)
	if err != nil {
		return fmt.Errorf("collect reconcile targets: %w", err)
	}

	if len(targets) == 0 {
		slog.InfoContext(ctx, "Nothing to reconcile")
		return nil
	}

	successCount := 0
	errorCount := 0
	for _, target := range targets {
		if _, err := w.aggregator.Reaggregate(ctx, target.userID, target.month); err != nil {
			slog.ErrorContext(ctx, "Failed to reconcile month",
				"user_id", target.userID,
				"month", target.month,
				"error", err)
			errorCount++
			continue
		}
		w.exportMonth(ctx, target.userID, target.month)
		successCount++
	}

	slog.InfoContext(ctx, "Reconcile pass completed",
		"total", len(targets),
		"reconciled", successCount,
		"errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("reconcile pass finished with %d failures", errorCount)
	}
	return nil
}

type reconcileTarget struct {
	userID string
	month  string
}

func (w *AggregationWorker) collectTargets(ctx context.Context) ([]reconcileTarget, error) {
	seen := make(map[reconcileTarget]struct{})

	if w.defaultUser != "" {
		operations, err := w.ops.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list operations: %w", err)
		}
		for _, op := range operations {
			target := reconcileTarget{
				userID: w.defaultUser,
				month:  op.Date.UTC().Format("2006-01"),
			}
			seen[target] = struct{}{}
		}
	}

	summaries, err := w.summaries.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	for _, s := range summaries {
		seen[reconcileTarget{userID: s.UserID, month: s.Month}] = struct{}{}
	}

	targets := make([]reconcileTarget, 0, len(seen))
	for target := range seen {
		targets = append(targets, target)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].userID != targets[j].userID {
			return targets[i].userID < targets[j].userID
		}
		return targets[i].month < targets[j].month
	})
	return targets, nil
}

// exportMonth pushes the freshly recomputed summary to the reporting
// destination. Export is best effort: the database already holds the truth,
// so a failed push only logs.
func (w *AggregationWorker) exportMonth(ctx context.Context, userID, month string) {
	if w.exporter == nil {
		return
	}

	summary, err := w.summaries.FindByUserAndMonth(ctx, userID, month)
	if err != nil || summary == nil {
		slog.WarnContext(ctx, "Skipping export, summary not readable",
			"user_id", userID,
			"month", month,
			"error", err)
		return
	}

	ref, err := w.exporter.Append(ctx, summary)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to export summary",
			"user_id", userID,
			"month", month,
			"error", err)
		return
	}

	slog.InfoContext(ctx, "Exported summary",
		"user_id", userID,
		"month", month,
		"row_ref", ref)
}
