package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-api/models"
)

func expense(title string, amount string, date string) models.Transaction {
	return tx(title, models.Expense, amount, date)
}

func income(title string, amount string, date string) models.Transaction {
	return tx(title, models.Income, amount, date)
}

func tx(title string, kind models.CategoryType, amount string, date string) models.Transaction {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{
		Category: &models.Category{Title: title, Type: kind},
		Amount:   decimal.RequireFromString(amount),
		Date:     day,
	}
}

func TestBuildReportTotals(t *testing.T) {
	// Newest first, the order the repository returns
	transactions := []models.Transaction{
		expense("Groceries", "30", "2024-02-01"),
		income("Salary", "1000", "2024-01-05"),
		expense("Groceries", "50", "2024-01-05"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)

	if !report.TotalIncome.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalIncome = %s, want 1000", report.TotalIncome)
	}
	if !report.TotalExpense.Equal(decimal.NewFromInt(80)) {
		t.Errorf("TotalExpense = %s, want 80", report.TotalExpense)
	}
	if !report.Balance.Equal(decimal.NewFromInt(920)) {
		t.Errorf("Balance = %s, want 920", report.Balance)
	}
	if report.TopCategory != "Groceries ($80)" {
		t.Errorf("TopCategory = %q, want %q", report.TopCategory, "Groceries ($80)")
	}
	// Mean of 30, 1000 and 50 is 360
	if report.AvgTransaction != "$360" {
		t.Errorf("AvgTransaction = %q, want %q", report.AvgTransaction, "$360")
	}
}

func TestBuildReportBalanceInvariant(t *testing.T) {
	sets := [][]models.Transaction{
		{},
		{income("Salary", "0.01", "2024-03-01")},
		{
			expense("Rent", "1200.55", "2024-03-02"),
			income("Salary", "3000.10", "2024-03-01"),
			expense("Groceries", "87.45", "2024-03-01"),
		},
	}

	for _, transactions := range sets {
		report := BuildReport(transactions, decimal.Zero, decimal.Zero)
		if !report.Balance.Equal(report.TotalIncome.Sub(report.TotalExpense)) {
			t.Errorf("balance %s != income %s - expense %s",
				report.Balance, report.TotalIncome, report.TotalExpense)
		}
	}
}

func TestBuildReportEmptySet(t *testing.T) {
	report := BuildReport(nil, decimal.Zero, decimal.Zero)

	if !report.TotalIncome.IsZero() || !report.TotalExpense.IsZero() || !report.Balance.IsZero() {
		t.Errorf("expected zero totals, got income=%s expense=%s balance=%s",
			report.TotalIncome, report.TotalExpense, report.Balance)
	}
	if report.TopCategory != NoExpenses {
		t.Errorf("TopCategory = %q, want %q", report.TopCategory, NoExpenses)
	}
	if report.AvgTransaction != "$0" {
		t.Errorf("AvgTransaction = %q, want %q", report.AvgTransaction, "$0")
	}
	if report.ExpenseTrend != "no change" {
		t.Errorf("ExpenseTrend = %q, want %q", report.ExpenseTrend, "no change")
	}
	if len(report.CategoryBreakdown) != 0 {
		t.Errorf("CategoryBreakdown = %v, want empty", report.CategoryBreakdown)
	}
	if len(report.DailyTrend) != 0 {
		t.Errorf("DailyTrend = %v, want empty", report.DailyTrend)
	}
	if len(report.Heatmap.Cells) != 0 {
		t.Errorf("Heatmap.Cells = %v, want empty", report.Heatmap.Cells)
	}
}

func TestTopCategoryTieBreak(t *testing.T) {
	// Equal sums: the first category seen in list order wins
	transactions := []models.Transaction{
		expense("Dining Out", "40", "2024-01-03"),
		expense("Transport", "40", "2024-01-02"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)
	if report.TopCategory != "Dining Out ($40)" {
		t.Errorf("TopCategory = %q, want first-seen %q", report.TopCategory, "Dining Out ($40)")
	}
}

func TestTopCategoryIgnoresIncome(t *testing.T) {
	transactions := []models.Transaction{
		income("Salary", "9999", "2024-01-01"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)
	if report.TopCategory != NoExpenses {
		t.Errorf("TopCategory = %q, want %q", report.TopCategory, NoExpenses)
	}
}

func TestExpenseTrend(t *testing.T) {
	cases := []struct {
		name     string
		current  string
		previous string
		want     string
	}{
		{"both zero", "0", "0", "no change"},
		{"previous zero", "120", "0", "increased significantly"},
		{"doubled", "200", "100", "increased by 100.0%"},
		{"halved", "50", "100", "decreased by 50.0%"},
		{"unchanged", "100", "100", "increased by 0.0%"},
		{"small increase", "100.1", "100", "increased by 0.1%"},
		// .X5 boundaries round half away from zero
		{"quarter point up", "200.5", "200", "increased by 0.3%"},
		{"quarter point down", "199.5", "200", "decreased by 0.3%"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExpenseTrend(
				decimal.RequireFromString(tc.current),
				decimal.RequireFromString(tc.previous),
			)
			if got != tc.want {
				t.Errorf("ExpenseTrend(%s, %s) = %q, want %q", tc.current, tc.previous, got, tc.want)
			}
		})
	}
}

func TestCategoryBreakdownFirstSeenOrder(t *testing.T) {
	transactions := []models.Transaction{
		expense("Rent", "1200", "2024-01-31"),
		expense("Groceries", "20", "2024-01-20"),
		income("Salary", "3000", "2024-01-15"),
		expense("Rent", "50", "2024-01-10"),
		expense("Utilities", "90", "2024-01-05"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)

	wantOrder := []string{"Rent", "Groceries", "Utilities"}
	if len(report.CategoryBreakdown) != len(wantOrder) {
		t.Fatalf("breakdown has %d entries, want %d", len(report.CategoryBreakdown), len(wantOrder))
	}
	for i, want := range wantOrder {
		if report.CategoryBreakdown[i].Category != want {
			t.Errorf("breakdown[%d] = %q, want %q", i, report.CategoryBreakdown[i].Category, want)
		}
	}
	if !report.CategoryBreakdown[0].Amount.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("Rent total = %s, want 1250", report.CategoryBreakdown[0].Amount)
	}
}

func TestDailyTrendAscendingWithZeroFill(t *testing.T) {
	transactions := []models.Transaction{
		expense("Groceries", "30", "2024-02-01"),
		income("Salary", "1000", "2024-01-05"),
		expense("Groceries", "50", "2024-01-05"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)

	if len(report.DailyTrend) != 2 {
		t.Fatalf("DailyTrend has %d points, want 2", len(report.DailyTrend))
	}

	first := report.DailyTrend[0]
	if first.Day != "2024-01-05" {
		t.Errorf("first day = %q, want 2024-01-05", first.Day)
	}
	if !first.Income.Equal(decimal.NewFromInt(1000)) || !first.Expense.Equal(decimal.NewFromInt(50)) {
		t.Errorf("first point = income %s / expense %s, want 1000 / 50", first.Income, first.Expense)
	}

	second := report.DailyTrend[1]
	if second.Day != "2024-02-01" {
		t.Errorf("second day = %q, want 2024-02-01", second.Day)
	}
	if !second.Income.IsZero() {
		t.Errorf("second point income = %s, want 0", second.Income)
	}
	if !second.Expense.Equal(decimal.NewFromInt(30)) {
		t.Errorf("second point expense = %s, want 30", second.Expense)
	}
}

func TestHeatmapRectangular(t *testing.T) {
	transactions := []models.Transaction{
		expense("Groceries", "30", "2024-02-01"),
		income("Salary", "1000", "2024-01-20"),
		expense("Transport", "15", "2024-01-05"),
		expense("Groceries", "50", "2024-01-05"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)
	heatmap := report.Heatmap

	// Columns: expense categories in first-seen order over the list
	wantCols := []string{"Groceries", "Transport"}
	if len(heatmap.CategoryLabels) != len(wantCols) {
		t.Fatalf("got %d columns, want %d", len(heatmap.CategoryLabels), len(wantCols))
	}
	for i, want := range wantCols {
		if heatmap.CategoryLabels[i] != want {
			t.Errorf("column[%d] = %q, want %q", i, heatmap.CategoryLabels[i], want)
		}
	}

	// Rows: every distinct day of the filtered set, ascending, even the
	// income-only day
	wantRows := []string{"05-Jan", "20-Jan", "01-Feb"}
	if len(heatmap.DayLabels) != len(wantRows) {
		t.Fatalf("got %d rows, want %d", len(heatmap.DayLabels), len(wantRows))
	}
	for i, want := range wantRows {
		if heatmap.DayLabels[i] != want {
			t.Errorf("row[%d] = %q, want %q", i, heatmap.DayLabels[i], want)
		}
	}

	// Rectangular: one cell per column on every row
	for i, row := range heatmap.Cells {
		if len(row) != len(wantCols) {
			t.Fatalf("row %d has %d cells, want %d", i, len(row), len(wantCols))
		}
	}

	assertCell := func(row, col int, want string) {
		t.Helper()
		if !heatmap.Cells[row][col].Equal(decimal.RequireFromString(want)) {
			t.Errorf("cell[%d][%d] = %s, want %s", row, col, heatmap.Cells[row][col], want)
		}
	}
	assertCell(0, 0, "50") // 05-Jan Groceries
	assertCell(0, 1, "15") // 05-Jan Transport
	assertCell(1, 0, "0")  // 20-Jan income-only day
	assertCell(1, 1, "0")
	assertCell(2, 0, "30") // 01-Feb Groceries
	assertCell(2, 1, "0")

	if heatmap.LabelRotation != 45 {
		t.Errorf("LabelRotation = %d, want 45", heatmap.LabelRotation)
	}
}

func TestHeatmapSumsSameDayCategoryPairs(t *testing.T) {
	transactions := []models.Transaction{
		expense("Groceries", "10.25", "2024-01-05"),
		expense("Groceries", "9.75", "2024-01-05"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)
	if len(report.Heatmap.Cells) != 1 || len(report.Heatmap.Cells[0]) != 1 {
		t.Fatalf("unexpected heatmap shape: %v", report.Heatmap.Cells)
	}
	if !report.Heatmap.Cells[0][0].Equal(decimal.NewFromInt(20)) {
		t.Errorf("cell = %s, want 20", report.Heatmap.Cells[0][0])
	}
}

func TestFormatDollars(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"80", "$80"},
		{"0", "$0"},
		{"79.5", "$80"},
		{"79.49", "$79"},
		{"-12.5", "-$13"},
	}

	for _, tc := range cases {
		if got := FormatDollars(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Errorf("FormatDollars(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAverageUsesExactDecimals(t *testing.T) {
	// (10.10 + 10.10 + 10.10) / 3 must be exactly 10.10, i.e. "$10"
	transactions := []models.Transaction{
		expense("Groceries", "10.10", "2024-01-01"),
		expense("Groceries", "10.10", "2024-01-02"),
		expense("Groceries", "10.10", "2024-01-03"),
	}

	report := BuildReport(transactions, decimal.Zero, decimal.Zero)
	if report.AvgTransaction != "$10" {
		t.Errorf("AvgTransaction = %q, want %q", report.AvgTransaction, "$10")
	}
	if !report.TotalExpense.Equal(decimal.RequireFromString("30.30")) {
		t.Errorf("TotalExpense = %s, want 30.30", report.TotalExpense)
	}
}
