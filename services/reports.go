package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-api/models"
)

// NoExpenses is reported as the top category when the filtered set contains
// no expense transactions.
const NoExpenses = "No expenses"

var oneHundred = decimal.NewFromInt(100)

// BuildReport computes every derived view of the dashboard from an already
// filtered transaction list plus the user's month-over-month expense sums.
// It never fails: empty input degrades to zeros and sentinels.
func BuildReport(transactions []models.Transaction, currentMonthExpense, previousMonthExpense decimal.Decimal) models.Report {
	report := models.Report{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, t := range transactions {
		switch categoryType(t) {
		case models.Income:
			report.TotalIncome = report.TotalIncome.Add(t.Amount)
		case models.Expense:
			report.TotalExpense = report.TotalExpense.Add(t.Amount)
		}
	}
	report.Balance = report.TotalIncome.Sub(report.TotalExpense)

	report.TopCategory = topExpenseCategory(transactions)
	report.ExpenseTrend = ExpenseTrend(currentMonthExpense, previousMonthExpense)
	report.AvgTransaction = averageTransaction(transactions)
	report.CategoryBreakdown = expenseBreakdown(transactions)
	report.DailyTrend = dailyTrend(transactions)
	report.Heatmap = heatmap(transactions)

	return report
}

// topExpenseCategory groups expenses by category title and returns the
// largest group as "Title ($N)". Ties keep the first-encountered category,
// walking the list in its given (newest first) order.
func topExpenseCategory(transactions []models.Transaction) string {
	titles, sums := expenseSumsByCategory(transactions)
	if len(titles) == 0 {
		return NoExpenses
	}

	top := titles[0]
	for _, title := range titles[1:] {
		if sums[title].GreaterThan(sums[top]) {
			top = title
		}
	}
	return top + " (" + FormatDollars(sums[top]) + ")"
}

// ExpenseTrend describes how this month's expenses compare to last month's.
// Percentages carry one decimal place, rounded half away from zero.
func ExpenseTrend(current, previous decimal.Decimal) string {
	switch {
	case previous.IsZero() && current.IsZero():
		return "no change"
	case previous.IsZero():
		return "increased significantly"
	}

	change := current.Sub(previous).Div(previous).Mul(oneHundred)
	if change.Sign() >= 0 {
		return "increased by " + change.StringFixed(1) + "%"
	}
	return "decreased by " + change.Abs().StringFixed(1) + "%"
}

func averageTransaction(transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return "$0"
	}

	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(t.Amount)
	}
	return FormatDollars(sum.Div(decimal.NewFromInt(int64(len(transactions)))))
}

// expenseBreakdown emits one entry per distinct expense category, in
// first-seen order, for the proportion chart.
func expenseBreakdown(transactions []models.Transaction) []models.CategoryAmount {
	titles, sums := expenseSumsByCategory(transactions)

	breakdown := make([]models.CategoryAmount, 0, len(titles))
	for _, title := range titles {
		breakdown = append(breakdown, models.CategoryAmount{Category: title, Amount: sums[title]})
	}
	return breakdown
}

// dailyTrend groups transactions by calendar day, ascending, each day with
// its income and expense sums.
func dailyTrend(transactions []models.Transaction) []models.DailyPoint {
	days := distinctDays(transactions)

	trend := make([]models.DailyPoint, 0, len(days))
	for _, day := range days {
		point := models.DailyPoint{
			Day:     day.Format("2006-01-02"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, t := range transactions {
			if !sameDay(t.Date, day) {
				continue
			}
			switch categoryType(t) {
			case models.Income:
				point.Income = point.Income.Add(t.Amount)
			case models.Expense:
				point.Expense = point.Expense.Add(t.Amount)
			}
		}
		trend = append(trend, point)
	}
	return trend
}

// heatmap builds the rectangular day-by-category grid of expense sums.
// Rows are the distinct days of the whole filtered set, ascending; columns
// are the distinct expense categories in first-seen order. Cells without a
// matching transaction hold zero, so every row has one cell per column.
func heatmap(transactions []models.Transaction) models.Heatmap {
	titles, _ := expenseSumsByCategory(transactions)
	days := distinctDays(transactions)

	cells := make([][]decimal.Decimal, 0, len(days))
	dayLabels := make([]string, 0, len(days))
	for _, day := range days {
		row := make([]decimal.Decimal, len(titles))
		for col, title := range titles {
			sum := decimal.Zero
			for _, t := range transactions {
				if categoryType(t) == models.Expense && t.Category.Title == title && sameDay(t.Date, day) {
					sum = sum.Add(t.Amount)
				}
			}
			row[col] = sum
		}
		cells = append(cells, row)
		dayLabels = append(dayLabels, day.Format("02-Jan"))
	}

	return models.Heatmap{
		CategoryLabels: titles,
		DayLabels:      dayLabels,
		LabelRotation:  45,
		Cells:          cells,
	}
}

// expenseSumsByCategory returns expense category titles in first-seen order
// along with the summed amount per title.
func expenseSumsByCategory(transactions []models.Transaction) ([]string, map[string]decimal.Decimal) {
	titles := []string{}
	sums := map[string]decimal.Decimal{}

	for _, t := range transactions {
		if categoryType(t) != models.Expense {
			continue
		}
		title := t.Category.Title
		if _, seen := sums[title]; !seen {
			titles = append(titles, title)
			sums[title] = decimal.Zero
		}
		sums[title] = sums[title].Add(t.Amount)
	}
	return titles, sums
}

func distinctDays(transactions []models.Transaction) []time.Time {
	seen := map[string]time.Time{}
	for _, t := range transactions {
		day := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
		seen[day.Format("2006-01-02")] = day
	}

	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func categoryType(t models.Transaction) models.CategoryType {
	if t.Category == nil {
		return ""
	}
	return t.Category.Type
}

// FormatDollars renders an amount as whole dollars, rounding half away from
// zero, e.g. 80 -> "$80", -12.5 -> "-$13".
func FormatDollars(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	if rounded.Sign() < 0 {
		return "-$" + rounded.Abs().StringFixed(0)
	}
	return "$" + rounded.StringFixed(0)
}
