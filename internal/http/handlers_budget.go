package http

import (
	"net/http"

	"jangbu/internal/core"
)

type budgetRequest struct {
	YearMonth  string `json:"yearMonth"`
	CategoryID int64  `json:"categoryId"`
	Amount     string `json:"amount"` // decimal string
}

type budgetResponse struct {
	ID          int64  `json:"id"`
	YearMonth   string `json:"yearMonth"`
	CategoryID  int64  `json:"categoryId"`
	AmountCents int64  `json:"amountCents"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		YearMonth:   b.Month.String(),
		CategoryID:  b.CategoryID,
		AmountCents: b.Amount.Cents,
	}
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	month, err := core.ParseMonthKey(req.YearMonth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid yearMonth: expected YYYY-MM")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.budgets.Create(r.Context(), core.Budget{
		UserID:     userID(r),
		Month:      month,
		CategoryID: req.CategoryID,
		Amount:     core.Money{Cents: cents},
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateStats(userID(r))
	writeJSON(w, http.StatusCreated, toBudgetResponse(created))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, "yearMonth", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	budgets, err := s.budgets.ListMonth(r.Context(), userID(r), month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := s.budgets.Get(r.Context(), userID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.budgets.Update(r.Context(), core.Budget{
		ID:     id,
		UserID: userID(r),
		Amount: core.Money{Cents: cents},
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateStats(userID(r))
	writeJSON(w, http.StatusOK, toBudgetResponse(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.budgets.Delete(r.Context(), userID(r), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateStats(userID(r))
	writeJSON(w, http.StatusOK, nil)
}
