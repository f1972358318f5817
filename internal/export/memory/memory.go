// Package memory is an in-process SummaryWriter for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"contas/internal/core"
	ports "contas/internal/export"
)

type Store struct {
	mu    sync.Mutex
	items []*core.MonthlyFinanceSummary
}

var _ ports.SummaryWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the summary and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, sum *core.MonthlyFinanceSummary) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, sum)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a snapshot of everything appended so far.
func (s *Store) Items() []*core.MonthlyFinanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.MonthlyFinanceSummary(nil), s.items...)
}
