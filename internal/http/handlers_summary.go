package http

import (
	"net/http"
	"time"

	"contas/internal/core"
	"contas/internal/usecase"
)

type summaryResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Month              string    `json:"month"`
	TotalIncome        string    `json:"total_income"`
	TotalExpense       string    `json:"total_expense"`
	Balance            string    `json:"balance"`
	TotalPlannedBudget string    `json:"total_planned_budget"`
	TotalActualBudget  string    `json:"total_actual_budget"`
	Currency           string    `json:"currency"`
	SavingsRate        string    `json:"savings_rate"`
	BudgetAdherence    string    `json:"budget_adherence"`
	IsProfitable       bool      `json:"is_profitable"`
	CreatedAt          time.Time `json:"created_at"`
}

func toSummaryResponse(s *core.MonthlyFinanceSummary) summaryResponse {
	return summaryResponse{
		ID:                 s.ID,
		UserID:             s.UserID,
		Month:              s.Month,
		TotalIncome:        s.TotalIncome.Amount.StringFixed(2),
		TotalExpense:       s.TotalExpense.Amount.StringFixed(2),
		Balance:            s.Balance.Amount.StringFixed(2),
		TotalPlannedBudget: s.TotalPlannedBudget.Amount.StringFixed(2),
		TotalActualBudget:  s.TotalActualBudget.Amount.StringFixed(2),
		Currency:           s.Balance.Currency,
		SavingsRate:        s.CalculateSavingsRate().StringFixed(2),
		BudgetAdherence:    s.CalculateBudgetAdherence().StringFixed(2),
		IsProfitable:       s.IsProfitable(),
		CreatedAt:          s.CreatedAt,
	}
}

func (s *Server) handleGetSummaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := usecase.GetMonthlyFinanceSummaryRequest{}
	cacheKey := "*|*"
	if q.Has("user_id") {
		userID := q.Get("user_id")
		req.UserID = &userID
		cacheKey = userID + "|*"
	}
	if q.Has("month") {
		month := q.Get("month")
		req.Month = &month
		if req.UserID != nil {
			cacheKey = *req.UserID + "|" + month
		} else {
			cacheKey = "*|" + month
		}
	}

	if cached, ok := s.summaryCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summaries, err := s.getSummaries.Execute(r.Context(), req).Value()
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]summaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, toSummaryResponse(summary))
	}

	s.summaryCache.Set(cacheKey, out)
	writeJSON(w, http.StatusOK, out)
}
