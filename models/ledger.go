package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// CATEGORY MODEL
// ============================================================================

// CategoryType is the closed set of category kinds. Aggregation switches on
// this value, so it is a real type rather than free text.
type CategoryType string

const (
	Income  CategoryType = "Income"
	Expense CategoryType = "Expense"
)

type Category struct {
	ID    int          `json:"id"`
	Title string       `json:"title"`
	Type  CategoryType `json:"type,omitempty"`
}

// PlaceholderCategory is the synthetic first entry of every category list,
// used by clients as the unselected default.
func PlaceholderCategory() Category {
	return Category{ID: 0, Title: "Choose a Category"}
}

// ============================================================================
// TRANSACTION MODEL
// ============================================================================

type Transaction struct {
	ID         int             `json:"id"`
	UserID     string          `json:"-"`
	CategoryID int             `json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	Date       time.Time       `json:"date"`
}

// TransactionRequest is the upsert payload. ID 0 means insert; any other
// value updates the matching row owned by the caller. The owner is never
// taken from the payload.
type TransactionRequest struct {
	ID         int             `json:"id"`
	CategoryID int             `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Note       string          `json:"note"`
	Date       time.Time       `json:"date" binding:"required"`
}
