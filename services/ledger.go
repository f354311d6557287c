package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/utils"
)

var (
	ErrInvalidDateRange = errors.New("start date cannot be after end date")
	ErrNotOwned         = errors.New("transaction not found for this user")
	ErrUnknownCategory  = errors.New("unknown category")
)

type LedgerService struct {
	db *sql.DB
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

// ListForUser returns the user's transactions newest first, each joined with
// its category. When both bounds are set the range is inclusive: from the
// start of startDate through the end of endDate.
func (s *LedgerService) ListForUser(ctx context.Context, userID string, startDate, endDate *time.Time) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.category_id, t.amount, COALESCE(t.note, ''), t.occurred_at,
		       c.id, c.title, c.type
		FROM transactions t
		INNER JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1
	`
	args := []interface{}{userID}

	if startDate != nil && endDate != nil {
		if startDate.After(*endDate) {
			return nil, ErrInvalidDateRange
		}
		from := truncateToDay(*startDate)
		until := truncateToDay(*endDate).AddDate(0, 0, 1)
		query += ` AND t.occurred_at >= $2 AND t.occurred_at < $3`
		args = append(args, from, until)
	}

	query += ` ORDER BY t.occurred_at DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var c models.Category
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.CategoryID,
			&t.Amount,
			&t.Note,
			&t.Date,
			&c.ID,
			&c.Title,
			&c.Type,
		)
		if err != nil {
			return nil, err
		}
		t.Category = &c
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// Get returns one transaction owned by the user, for the edit form.
func (s *LedgerService) Get(ctx context.Context, userID string, id int) (*models.Transaction, error) {
	var t models.Transaction
	var c models.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.user_id, t.category_id, t.amount, COALESCE(t.note, ''), t.occurred_at,
		       c.id, c.title, c.type
		FROM transactions t
		INNER JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1 AND t.user_id = $2
	`, id, userID).Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Note, &t.Date, &c.ID, &c.Title, &c.Type)

	if err == sql.ErrNoRows {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}
	t.Category = &c
	return &t, nil
}

// Upsert inserts a new transaction when req.ID is 0, otherwise updates the
// existing row. Ownership is taken from the session, never from the payload,
// and updates only touch rows the caller owns. The category check and the
// write share one transaction so the category cannot vanish between them.
func (s *LedgerService) Upsert(ctx context.Context, userID string, req models.TransactionRequest) (*models.Transaction, error) {
	id := req.ID

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var categoryExists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, req.CategoryID,
		).Scan(&categoryExists)
		if err != nil {
			return err
		}
		if !categoryExists {
			return ErrUnknownCategory
		}

		if req.ID == 0 {
			return tx.QueryRowContext(ctx, `
				INSERT INTO transactions (user_id, category_id, amount, note, occurred_at)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, userID, req.CategoryID, req.Amount, req.Note, req.Date).Scan(&id)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET category_id = $1, amount = $2, note = $3, occurred_at = $4
			WHERE id = $5 AND user_id = $6
		`, req.CategoryID, req.Amount, req.Note, req.Date, req.ID, userID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotOwned
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

// Delete removes the user's transaction. A missing row is not an error;
// delete is idempotent.
func (s *LedgerService) Delete(ctx context.Context, userID string, id int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

// Categories returns all categories ordered by id, prefixed with the
// synthetic "Choose a Category" placeholder for selection defaults.
func (s *LedgerService) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{models.PlaceholderCategory()}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// MonthlyExpenseTotals sums the user's expense amounts for the current month
// so far and for the whole previous month.
func (s *LedgerService) MonthlyExpenseTotals(ctx context.Context, userID string, now time.Time) (current, previous decimal.Decimal, err error) {
	today := truncateToDay(now)
	currentMonthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	lastMonthStart := currentMonthStart.AddDate(0, -1, 0)
	tomorrow := today.AddDate(0, 0, 1)

	const query = `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		INNER JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND c.type = 'Expense'
		  AND t.occurred_at >= $2 AND t.occurred_at < $3
	`

	if err = s.db.QueryRowContext(ctx, query, userID, currentMonthStart, tomorrow).Scan(&current); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if err = s.db.QueryRowContext(ctx, query, userID, lastMonthStart, currentMonthStart).Scan(&previous); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return current, previous, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
