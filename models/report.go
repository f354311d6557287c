package models

import "github.com/shopspring/decimal"

// ============================================================================
// REPORT MODEL
// ============================================================================
// The aggregated report is a typed struct rather than loose key/value pairs
// so every widget the dashboard renders has an explicit, testable shape.

type Report struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`

	// TopCategory is "Title ($N)" for the biggest expense group, or the
	// "No expenses" sentinel.
	TopCategory string `json:"top_category"`

	// ExpenseTrend is the month-over-month expense movement: "no change",
	// "increased significantly", "increased by X.X%" or "decreased by X.X%".
	ExpenseTrend string `json:"expense_trend"`

	// AvgTransaction is the mean amount over all filtered transactions,
	// formatted as whole dollars; "$0" when the set is empty.
	AvgTransaction string `json:"avg_transaction"`

	CategoryBreakdown []CategoryAmount `json:"category_breakdown"`
	DailyTrend        []DailyPoint     `json:"daily_trend"`
	Heatmap           Heatmap          `json:"heatmap"`
}

// CategoryAmount is one slice of the expense-by-category proportion chart.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailyPoint is one day of the income/expense time series.
type DailyPoint struct {
	Day     string          `json:"day"` // yyyy-mm-dd
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Heatmap is a rectangular day-by-category grid of summed expense amounts.
// Rows follow DayLabels, columns follow CategoryLabels, and every row has
// exactly one cell per column.
type Heatmap struct {
	CategoryLabels []string            `json:"category_labels"`
	DayLabels      []string            `json:"day_labels"` // DD-Mon
	LabelRotation  int                 `json:"label_rotation"`
	Cells          [][]decimal.Decimal `json:"cells"`
}
