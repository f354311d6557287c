package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/services"
)

type ReportsHandler struct {
	Ledger *services.LedgerService
}

func NewReportsHandler(ledger *services.LedgerService) *ReportsHandler {
	return &ReportsHandler{Ledger: ledger}
}

// Index renders the aggregated report for an optional inclusive date range.
func (h *ReportsHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	startDate, endDate, ok := parseDateRange(c)
	if !ok {
		return
	}

	h.respondWithReport(c, userID, startDate, endDate)
}

// Dashboard renders the same report fixed to the current month so far.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	h.respondWithReport(c, userID, &monthStart, &now)
}

// TrendChart renders the daily income/expense series as a PNG.
func (h *ReportsHandler) TrendChart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	startDate, endDate, ok := parseDateRange(c)
	if !ok {
		return
	}

	transactions, err := h.Ledger.ListForUser(c.Request.Context(), userID, startDate, endDate)
	if errors.Is(err, services.ErrInvalidDateRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start Date cannot be after End Date."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	current, previous, err := h.Ledger.MonthlyExpenseTotals(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute monthly totals"})
		return
	}

	report := services.BuildReport(transactions, current, previous)

	png, err := services.RenderTrendChart(report.DailyTrend)
	if errors.Is(err, services.ErrNoChartData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not enough data to draw a chart"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *ReportsHandler) respondWithReport(c *gin.Context, userID string, startDate, endDate *time.Time) {
	transactions, err := h.Ledger.ListForUser(c.Request.Context(), userID, startDate, endDate)
	if errors.Is(err, services.ErrInvalidDateRange) {
		// Short-circuit: a bad range yields the validation message and an
		// empty transaction list, never partial totals.
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Start Date cannot be after End Date.",
			"transactions": []struct{}{},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	current, previous, err := h.Ledger.MonthlyExpenseTotals(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute monthly totals"})
		return
	}

	report := services.BuildReport(transactions, current, previous)

	c.JSON(http.StatusOK, gin.H{
		"report":       report,
		"transactions": transactions,
		"start_date":   formatDatePtr(startDate),
		"end_date":     formatDatePtr(endDate),
	})
}

// parseDateRange reads optional startDate/endDate query parameters. Filtering
// applies only when both are present.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	rawStart := c.Query("startDate")
	rawEnd := c.Query("endDate")
	if rawStart == "" || rawEnd == "" {
		return nil, nil, true
	}

	start, err := time.Parse("2006-01-02", rawStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate; expected YYYY-MM-DD"})
		return nil, nil, false
	}
	end, err := time.Parse("2006-01-02", rawEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate; expected YYYY-MM-DD"})
		return nil, nil, false
	}

	return &start, &end, true
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
