package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// balanceTolerance absorbs rounding noise when checking the clamped-balance
// invariant on construction.
var balanceTolerance = decimal.NewFromFloat(0.01)

// ValidateMonth checks a YYYY-MM key in two stages: shape first, then month
// and year ranges. Use cases run the same check on request input so the
// messages stay identical either way.
func ValidateMonth(month string) error {
	if !monthPattern.MatchString(month) {
		return newValidationError("month", "Month must be in YYYY-MM format")
	}
	m, _ := strconv.Atoi(month[5:7])
	if m < 1 || m > 12 {
		return newValidationError("month", "Month must be between 01 and 12")
	}
	y, _ := strconv.Atoi(month[0:4])
	if y < 1900 || y > 2100 {
		return newValidationError("month", "Year must be between 1900 and 2100")
	}
	return nil
}

// MonthlyFinanceSummary aggregates one user-month: totals, clamped balance
// and budget figures. Immutable; the Update methods recompute the balance and
// return new instances so callers can never hand-roll an inconsistent one.
type MonthlyFinanceSummary struct {
	ID                 string
	UserID             string
	Month              string // YYYY-MM
	TotalIncome        Money
	TotalExpense       Money
	Balance            Money
	TotalPlannedBudget Money
	TotalActualBudget  Money
	CreatedAt          time.Time
}

// SummaryProps carries the full field set for construction.
type SummaryProps struct {
	ID                 string
	UserID             string
	Month              string
	TotalIncome        Money
	TotalExpense       Money
	Balance            Money
	TotalPlannedBudget Money
	TotalActualBudget  Money
	CreatedAt          time.Time
}

// NewMonthlyFinanceSummary validates props all-or-nothing: month key, then
// the clamped-balance invariant balance == max(0, income-expense) within a
// 0.01 tolerance. Monetary non-negativity is guaranteed by Money itself.
func NewMonthlyFinanceSummary(props SummaryProps) (*MonthlyFinanceSummary, error) {
	if err := ValidateMonth(props.Month); err != nil {
		return nil, err
	}

	expected := clampedBalance(props.TotalIncome, props.TotalExpense)
	if props.Balance.Amount.Sub(expected.Amount).Abs().GreaterThan(balanceTolerance) {
		return nil, newValidationError("balance",
			"Balance %s does not match income %s minus expense %s",
			props.Balance.Amount.String(), props.TotalIncome.Amount.String(), props.TotalExpense.Amount.String())
	}

	return &MonthlyFinanceSummary{
		ID:                 props.ID,
		UserID:             props.UserID,
		Month:              props.Month,
		TotalIncome:        props.TotalIncome,
		TotalExpense:       props.TotalExpense,
		Balance:            props.Balance,
		TotalPlannedBudget: props.TotalPlannedBudget,
		TotalActualBudget:  props.TotalActualBudget,
		CreatedAt:          props.CreatedAt,
	}, nil
}

// clampedBalance is max(0, income-expense) in the income currency.
func clampedBalance(income, expense Money) Money {
	diff := income.Amount.Sub(expense.Amount)
	if diff.IsNegative() {
		diff = decimal.Zero
	}
	return Money{Amount: diff, Currency: income.Currency}
}

// CalculateSavingsRate returns balance/income*100 rounded to two decimals,
// or 0 when there is no income.
func (s *MonthlyFinanceSummary) CalculateSavingsRate() decimal.Decimal {
	if s.TotalIncome.IsZero() {
		return decimal.Zero
	}
	return s.Balance.Amount.Div(s.TotalIncome.Amount).Mul(decimal.NewFromInt(100)).Round(2)
}

// CalculateBudgetAdherence returns actual/planned*100 rounded to two
// decimals, or 0 when no budget was planned.
func (s *MonthlyFinanceSummary) CalculateBudgetAdherence() decimal.Decimal {
	if s.TotalPlannedBudget.IsZero() {
		return decimal.Zero
	}
	return s.TotalActualBudget.Amount.Div(s.TotalPlannedBudget.Amount).Mul(decimal.NewFromInt(100)).Round(2)
}

// IsProfitable compares raw totals, independent of the clamped balance.
func (s *MonthlyFinanceSummary) IsProfitable() bool {
	return s.TotalIncome.Amount.GreaterThan(s.TotalExpense.Amount)
}

// IsBalanced reports a zero balance.
func (s *MonthlyFinanceSummary) IsBalanced() bool {
	return s.Balance.IsZero()
}

// MonthAndYear parses the month key into its numeric parts.
func (s *MonthlyFinanceSummary) MonthAndYear() (month, year int) {
	year, _ = strconv.Atoi(s.Month[0:4])
	month, _ = strconv.Atoi(s.Month[5:7])
	return month, year
}

// UpdateTotalIncome returns a copy with the new income and a recomputed
// clamped balance. ID, user, month and creation time are preserved.
func (s *MonthlyFinanceSummary) UpdateTotalIncome(income Money) (*MonthlyFinanceSummary, error) {
	return s.rebuild(income, s.TotalExpense, s.TotalPlannedBudget, s.TotalActualBudget)
}

// UpdateTotalExpense returns a copy with the new expense and a recomputed
// clamped balance.
func (s *MonthlyFinanceSummary) UpdateTotalExpense(expense Money) (*MonthlyFinanceSummary, error) {
	return s.rebuild(s.TotalIncome, expense, s.TotalPlannedBudget, s.TotalActualBudget)
}

// UpdateBudgetValues returns a copy with new planned and actual budgets.
func (s *MonthlyFinanceSummary) UpdateBudgetValues(planned, actual Money) (*MonthlyFinanceSummary, error) {
	return s.rebuild(s.TotalIncome, s.TotalExpense, planned, actual)
}

func (s *MonthlyFinanceSummary) rebuild(income, expense, planned, actual Money) (*MonthlyFinanceSummary, error) {
	if income.Currency != expense.Currency {
		return nil, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, income.Currency, expense.Currency)
	}
	return NewMonthlyFinanceSummary(SummaryProps{
		ID:                 s.ID,
		UserID:             s.UserID,
		Month:              s.Month,
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            clampedBalance(income, expense),
		TotalPlannedBudget: planned,
		TotalActualBudget:  actual,
		CreatedAt:          s.CreatedAt,
	})
}
