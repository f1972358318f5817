// Package memory provides mutex-guarded in-memory implementations of the
// storage contracts. Used by tests and by the "memory" data backend.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"contas/internal/core"
	"contas/internal/usecase"
)

// Ensure interface conformance
var (
	_ usecase.OperationStore = (*OperationStore)(nil)
	_ usecase.SummaryStore   = (*SummaryStore)(nil)
)

// OperationStore keeps operations in a map keyed by id. Save upserts.
type OperationStore struct {
	mu    sync.Mutex
	items map[string]*core.Operation
	order []string // insertion order, so listings are deterministic
}

func NewOperationStore() *OperationStore {
	return &OperationStore{items: make(map[string]*core.Operation)}
}

func (s *OperationStore) Save(_ context.Context, op *core.Operation) (*core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[op.ID]; !ok {
		s.order = append(s.order, op.ID)
	}
	s.items[op.ID] = op
	return op, nil
}

func (s *OperationStore) FindByID(_ context.Context, id string) (*core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id], nil
}

func (s *OperationStore) FindAll(_ context.Context) ([]*core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(*core.Operation) bool { return true }), nil
}

func (s *OperationStore) FindByDateRange(_ context.Context, start, end time.Time) ([]*core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(op *core.Operation) bool {
		return !op.Date.Before(start) && !op.Date.After(end)
	}), nil
}

func (s *OperationStore) FindByAccount(_ context.Context, accountID string) ([]*core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(op *core.Operation) bool {
		return op.SourceAccount == accountID || op.DestinationAccount == accountID
	}), nil
}

func (s *OperationStore) FindByCategory(_ context.Context, category string) ([]*core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(op *core.Operation) bool {
		return op.Category == category
	}), nil
}

func (s *OperationStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *OperationStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *OperationStore) snapshot(keep func(*core.Operation) bool) []*core.Operation {
	var out []*core.Operation
	for _, id := range s.order {
		if op := s.items[id]; op != nil && keep(op) {
			out = append(out, op)
		}
	}
	return out
}

// SummaryStore keeps monthly summaries in a map keyed by id.
type SummaryStore struct {
	mu    sync.Mutex
	items map[string]*core.MonthlyFinanceSummary
}

func NewSummaryStore() *SummaryStore {
	return &SummaryStore{items: make(map[string]*core.MonthlyFinanceSummary)}
}

func (s *SummaryStore) Save(_ context.Context, sum *core.MonthlyFinanceSummary) (*core.MonthlyFinanceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sum.ID] = sum
	return sum, nil
}

func (s *SummaryStore) FindByID(_ context.Context, id string) (*core.MonthlyFinanceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id], nil
}

func (s *SummaryStore) FindAll(_ context.Context) ([]*core.MonthlyFinanceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered(func(*core.MonthlyFinanceSummary) bool { return true }), nil
}

func (s *SummaryStore) FindByUser(_ context.Context, userID string) ([]*core.MonthlyFinanceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered(func(sum *core.MonthlyFinanceSummary) bool { return sum.UserID == userID }), nil
}

func (s *SummaryStore) FindByMonth(_ context.Context, month string) ([]*core.MonthlyFinanceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered(func(sum *core.MonthlyFinanceSummary) bool { return sum.Month == month }), nil
}

func (s *SummaryStore) FindByUserAndMonth(_ context.Context, userID, month string) (*core.MonthlyFinanceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sum := range s.items {
		if sum.UserID == userID && sum.Month == month {
			return sum, nil
		}
	}
	return nil, nil
}

func (s *SummaryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *SummaryStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *SummaryStore) filtered(keep func(*core.MonthlyFinanceSummary) bool) []*core.MonthlyFinanceSummary {
	var out []*core.MonthlyFinanceSummary
	for _, sum := range s.items {
		if keep(sum) {
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Month < out[j].Month
	})
	return out
}
