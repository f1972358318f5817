// Package storage implements the storage contracts on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"contas/internal/core"
	"contas/internal/usecase"
)

// Dates are stored as fixed-width UTC text so string comparison in SQL
// matches chronological order; amounts are stored as decimal text plus a
// currency column.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository implements both storage contracts on one database file.
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var (
	_ usecase.OperationStore = (*OperationRepository)(nil)
	_ usecase.SummaryStore   = (*SummaryRepository)(nil)
)

// NewSQLiteRepository opens (creating directories as needed) and migrates
// the database.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Operations returns the OperationStore view of the repository.
func (r *SQLiteRepository) Operations() *OperationRepository {
	return &OperationRepository{db: r.db}
}

// Summaries returns the SummaryStore view of the repository.
func (r *SQLiteRepository) Summaries() *SummaryRepository {
	return &SummaryRepository{db: r.db}
}

// OperationRepository persists operations.
type OperationRepository struct {
	db *sql.DB
}

const operationColumns = `id, nature, state, payment_method, source_account, destination_account,
	date, amount, currency, category, details, project, receipt, created_at`

func (r *OperationRepository) Save(ctx context.Context, op *core.Operation) (*core.Operation, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO operations (`+operationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			nature = excluded.nature,
			state = excluded.state,
			payment_method = excluded.payment_method,
			source_account = excluded.source_account,
			destination_account = excluded.destination_account,
			date = excluded.date,
			amount = excluded.amount,
			currency = excluded.currency,
			category = excluded.category,
			details = excluded.details,
			project = excluded.project,
			receipt = excluded.receipt`,
		op.ID, string(op.Nature), string(op.State), string(op.PaymentMethod),
		op.SourceAccount, op.DestinationAccount,
		op.Date.UTC().Format(timeLayout),
		op.Value.Amount.String(), op.Value.Currency,
		op.Category, op.Details, op.Project, op.Receipt,
		op.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("save operation: %w", err)
	}

	slog.DebugContext(ctx, "Operation saved",
		"id", op.ID,
		"nature", string(op.Nature),
		"state", string(op.State),
		"amount", op.Value.Amount.String())

	return op, nil
}

func (r *OperationRepository) FindByID(ctx context.Context, id string) (*core.Operation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+operationColumns+` FROM operations WHERE id = ?`, id)
	op, err := scanOperation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find operation by id: %w", err)
	}
	return op, nil
}

func (r *OperationRepository) FindAll(ctx context.Context) ([]*core.Operation, error) {
	return r.query(ctx, `SELECT `+operationColumns+` FROM operations ORDER BY date, id`)
}

func (r *OperationRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*core.Operation, error) {
	return r.query(ctx, `SELECT `+operationColumns+` FROM operations
		WHERE date >= ? AND date <= ? ORDER BY date, id`,
		start.UTC().Format(timeLayout), end.UTC().Format(timeLayout))
}

func (r *OperationRepository) FindByAccount(ctx context.Context, accountID string) ([]*core.Operation, error) {
	return r.query(ctx, `SELECT `+operationColumns+` FROM operations
		WHERE source_account = ? OR destination_account = ? ORDER BY date, id`,
		accountID, accountID)
}

func (r *OperationRepository) FindByCategory(ctx context.Context, category string) ([]*core.Operation, error) {
	return r.query(ctx, `SELECT `+operationColumns+` FROM operations
		WHERE category = ? ORDER BY date, id`, category)
}

func (r *OperationRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM operations WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete operation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete operation rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *OperationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	return n, nil
}

func (r *OperationRepository) query(ctx context.Context, q string, args ...any) ([]*core.Operation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var out []*core.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOperation maps a stored row back onto the entity. The row went through
// the constructor on the way in, so a failure here means corrupted data and
// is surfaced as an error rather than papered over.
func scanOperation(row rowScanner) (*core.Operation, error) {
	var (
		rec       operationRow
		receipt   []byte
		date      string
		createdAt string
	)
	if err := row.Scan(&rec.ID, &rec.Nature, &rec.State, &rec.PaymentMethod,
		&rec.SourceAccount, &rec.DestinationAccount, &date,
		&rec.Amount, &rec.Currency, &rec.Category, &rec.Details, &rec.Project,
		&receipt, &createdAt); err != nil {
		return nil, err
	}
	rec.Receipt = receipt

	var err error
	rec.Date, err = time.Parse(timeLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	return rec.toDomain()
}

// operationRow is the storage shape of an operation.
type operationRow struct {
	ID                 string
	Nature             string
	State              string
	PaymentMethod      string
	SourceAccount      string
	DestinationAccount string
	Date               time.Time
	Amount             string
	Currency           string
	Category           string
	Details            string
	Project            string
	Receipt            []byte
	CreatedAt          time.Time
}

func (rec operationRow) toDomain() (*core.Operation, error) {
	value, err := core.NewMoneyFromString(rec.Amount, rec.Currency)
	if err != nil {
		return nil, fmt.Errorf("stored amount: %w", err)
	}
	return core.NewOperation(core.OperationProps{
		ID:                 rec.ID,
		Nature:             core.Nature(rec.Nature),
		State:              core.State(rec.State),
		PaymentMethod:      core.PaymentMethod(rec.PaymentMethod),
		SourceAccount:      rec.SourceAccount,
		DestinationAccount: rec.DestinationAccount,
		Date:               rec.Date,
		Value:              value,
		Category:           rec.Category,
		Details:            rec.Details,
		Project:            rec.Project,
		Receipt:            rec.Receipt,
		CreatedAt:          rec.CreatedAt,
	})
}

// SummaryRepository persists monthly finance summaries.
type SummaryRepository struct {
	db *sql.DB
}

const summaryColumns = `id, user_id, month, total_income, total_expense, balance,
	total_planned_budget, total_actual_budget, currency, created_at`

func (r *SummaryRepository) Save(ctx context.Context, s *core.MonthlyFinanceSummary) (*core.MonthlyFinanceSummary, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO monthly_summaries (`+summaryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			month = excluded.month,
			total_income = excluded.total_income,
			total_expense = excluded.total_expense,
			balance = excluded.balance,
			total_planned_budget = excluded.total_planned_budget,
			total_actual_budget = excluded.total_actual_budget,
			currency = excluded.currency`,
		s.ID, s.UserID, s.Month,
		s.TotalIncome.Amount.String(), s.TotalExpense.Amount.String(), s.Balance.Amount.String(),
		s.TotalPlannedBudget.Amount.String(), s.TotalActualBudget.Amount.String(),
		s.TotalIncome.Currency,
		s.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}

	slog.DebugContext(ctx, "Monthly summary saved",
		"id", s.ID,
		"user_id", s.UserID,
		"month", s.Month,
		"balance", s.Balance.Amount.String())

	return s, nil
}

func (r *SummaryRepository) FindByID(ctx context.Context, id string) (*core.MonthlyFinanceSummary, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM monthly_summaries WHERE id = ?`, id)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find summary by id: %w", err)
	}
	return s, nil
}

func (r *SummaryRepository) FindAll(ctx context.Context) ([]*core.MonthlyFinanceSummary, error) {
	return r.query(ctx, `SELECT `+summaryColumns+` FROM monthly_summaries ORDER BY user_id, month`)
}

func (r *SummaryRepository) FindByUser(ctx context.Context, userID string) ([]*core.MonthlyFinanceSummary, error) {
	return r.query(ctx, `SELECT `+summaryColumns+` FROM monthly_summaries
		WHERE user_id = ? ORDER BY month`, userID)
}

func (r *SummaryRepository) FindByMonth(ctx context.Context, month string) ([]*core.MonthlyFinanceSummary, error) {
	return r.query(ctx, `SELECT `+summaryColumns+` FROM monthly_summaries
		WHERE month = ? ORDER BY user_id`, month)
}

func (r *SummaryRepository) FindByUserAndMonth(ctx context.Context, userID, month string) (*core.MonthlyFinanceSummary, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM monthly_summaries
		WHERE user_id = ? AND month = ?`, userID, month)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find summary by user and month: %w", err)
	}
	return s, nil
}

func (r *SummaryRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM monthly_summaries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete summary rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *SummaryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM monthly_summaries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}

func (r *SummaryRepository) query(ctx context.Context, q string, args ...any) ([]*core.MonthlyFinanceSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []*core.MonthlyFinanceSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

func scanSummary(row rowScanner) (*core.MonthlyFinanceSummary, error) {
	var (
		id, userID, month              string
		income, expense, balance       string
		planned, actual, currency      string
		createdAt                      string
	)
	if err := row.Scan(&id, &userID, &month, &income, &expense, &balance,
		&planned, &actual, &currency, &createdAt); err != nil {
		return nil, err
	}

	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	parse := func(amount string) (core.Money, error) {
		return core.NewMoneyFromString(amount, currency)
	}
	totalIncome, err := parse(income)
	if err != nil {
		return nil, fmt.Errorf("stored total_income: %w", err)
	}
	totalExpense, err := parse(expense)
	if err != nil {
		return nil, fmt.Errorf("stored total_expense: %w", err)
	}
	bal, err := parse(balance)
	if err != nil {
		return nil, fmt.Errorf("stored balance: %w", err)
	}
	plannedBudget, err := parse(planned)
	if err != nil {
		return nil, fmt.Errorf("stored total_planned_budget: %w", err)
	}
	actualBudget, err := parse(actual)
	if err != nil {
		return nil, fmt.Errorf("stored total_actual_budget: %w", err)
	}

	return core.NewMonthlyFinanceSummary(core.SummaryProps{
		ID:                 id,
		UserID:             userID,
		Month:              month,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Balance:            bal,
		TotalPlannedBudget: plannedBudget,
		TotalActualBudget:  actualBudget,
		CreatedAt:          created,
	})
}
