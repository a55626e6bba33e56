package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"jangbu/internal/stats"
)

type categoryExpenseResponse struct {
	CategoryName string  `json:"categoryName"`
	AmountCents  int64   `json:"amountCents"`
	Percentage   float64 `json:"percentage"`
}

type monthlyStatisticsResponse struct {
	YearMonth         string                    `json:"yearMonth"`
	TotalIncomeCents  int64                     `json:"totalIncomeCents"`
	TotalExpenseCents int64                     `json:"totalExpenseCents"`
	NetIncomeCents    int64                     `json:"netIncomeCents"`
	CategoryExpenses  []categoryExpenseResponse `json:"categoryExpenses"`
}

type monthlyTrendResponse struct {
	YearMonth      string `json:"yearMonth"`
	IncomeCents    int64  `json:"incomeCents"`
	ExpenseCents   int64  `json:"expenseCents"`
	NetIncomeCents int64  `json:"netIncomeCents"`
}

type trendResponse struct {
	StartYearMonth string                 `json:"startYearMonth"`
	EndYearMonth   string                 `json:"endYearMonth"`
	MonthlyTrends  []monthlyTrendResponse `json:"monthlyTrends"`
}

type categoryComparisonResponse struct {
	CategoryName string  `json:"categoryName"`
	BudgetCents  int64   `json:"budgetCents"`
	ExpenseCents int64   `json:"expenseCents"`
	Ratio        float64 `json:"ratio"`
}

type budgetComparisonResponse struct {
	YearMonth         string                       `json:"yearMonth"`
	TotalBudgetCents  int64                        `json:"totalBudgetCents"`
	TotalExpenseCents int64                        `json:"totalExpenseCents"`
	ExpenseRatio      float64                      `json:"expenseRatio"`
	Categories        []categoryComparisonResponse `json:"categories"`
}

func toMonthlyStatisticsResponse(m stats.MonthlyStatistics) monthlyStatisticsResponse {
	breakdown := make([]categoryExpenseResponse, 0, len(m.CategoryExpenses))
	for _, c := range m.CategoryExpenses {
		breakdown = append(breakdown, categoryExpenseResponse{
			CategoryName: c.CategoryName,
			AmountCents:  c.Amount.Cents,
			Percentage:   c.Percentage,
		})
	}
	// Largest categories first; name breaks ties so output is stable.
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].AmountCents != breakdown[j].AmountCents {
			return breakdown[i].AmountCents > breakdown[j].AmountCents
		}
		return breakdown[i].CategoryName < breakdown[j].CategoryName
	})

	return monthlyStatisticsResponse{
		YearMonth:         m.Month.String(),
		TotalIncomeCents:  m.TotalIncome.Cents,
		TotalExpenseCents: m.TotalExpense.Cents,
		NetIncomeCents:    m.NetIncome.Cents,
		CategoryExpenses:  breakdown,
	}
}

func toBudgetComparisonResponse(c stats.BudgetComparison) budgetComparisonResponse {
	categories := make([]categoryComparisonResponse, 0, len(c.Categories))
	for _, cat := range c.Categories {
		categories = append(categories, categoryComparisonResponse{
			CategoryName: cat.CategoryName,
			BudgetCents:  cat.Budget.Cents,
			ExpenseCents: cat.Expense.Cents,
			Ratio:        cat.Ratio,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CategoryName < categories[j].CategoryName
	})

	return budgetComparisonResponse{
		YearMonth:         c.Month.String(),
		TotalBudgetCents:  c.TotalBudget.Cents,
		TotalExpenseCents: c.TotalExpense.Cents,
		ExpenseRatio:      c.ExpenseRatio,
		Categories:        categories,
	}
}

func (s *Server) handleMonthlyStatistics(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, "yearMonth", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	key := fmt.Sprintf("user:%d:monthly:%s", uid, month)
	if cached, found := s.statsCache.Get(key); found {
		slog.DebugContext(r.Context(), "Statistics cache hit", "key", key)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), statsFetchTimeout)
	defer cancel()
	summary, err := s.statistics.Monthly(ctx, uid, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := toMonthlyStatisticsResponse(summary)
	s.statsCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrendStatistics(w http.ResponseWriter, r *http.Request) {
	start, err := monthParam(r, "startYearMonth", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := monthParam(r, "endYearMonth", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	key := fmt.Sprintf("user:%d:trend:%s:%s", uid, start, end)
	if cached, found := s.statsCache.Get(key); found {
		slog.DebugContext(r.Context(), "Statistics cache hit", "key", key)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), statsFetchTimeout)
	defer cancel()
	trend, err := s.statistics.Trend(ctx, uid, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := trendResponse{
		StartYearMonth: trend.Start.String(),
		EndYearMonth:   trend.End.String(),
		MonthlyTrends:  make([]monthlyTrendResponse, 0, len(trend.MonthlyTrends)),
	}
	for _, m := range trend.MonthlyTrends {
		resp.MonthlyTrends = append(resp.MonthlyTrends, monthlyTrendResponse{
			YearMonth:      m.Month.String(),
			IncomeCents:    m.Income.Cents,
			ExpenseCents:   m.Expense.Cents,
			NetIncomeCents: m.NetIncome.Cents,
		})
	}

	s.statsCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBudgetComparison(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, "yearMonth", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	key := fmt.Sprintf("user:%d:comparison:%s", uid, month)
	if cached, found := s.statsCache.Get(key); found {
		slog.DebugContext(r.Context(), "Statistics cache hit", "key", key)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), statsFetchTimeout)
	defer cancel()
	comparison, err := s.statistics.BudgetComparison(ctx, uid, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := toBudgetComparisonResponse(comparison)
	s.statsCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// invalidateStats drops every cached statistic for the user. Any ledger or
// budget write calls this, so stale aggregates live at most one cache TTL
// even if an invalidation is missed.
func (s *Server) invalidateStats(userID int64) {
	if n := s.statsCache.DeletePrefix(fmt.Sprintf("user:%d:", userID)); n > 0 {
		slog.Debug("Statistics cache invalidated", "user_id", userID, "entries", n)
	}
}
