package http

import (
	"context"
	"net/http"
	"time"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady checks every registered dependency.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string, len(s.checks)+1)

	checks["ledger"] = "ok"
	if s.store == nil {
		checks["ledger"] = "not_configured"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "failed: " + err.Error()
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	if s.receipts == nil {
		checks["receipts"] = "disabled"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// handleListTransactions applies query parameters on top of the stored
// filter.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilterQuery(r.URL.Query(), s.store.State().Filter)
	if err != nil {
		s.fail(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filter":       f,
		"transactions": s.store.Query(f),
	})
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	n, err := parseLimit(r.URL.Query(), 5, 100)
	if err != nil {
		s.fail(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Recent(n))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, applog.OpCreate, err)
		return
	}
	tx, err := req.toTransaction(core.DateOf(s.now()))
	if err != nil {
		s.fail(w, r, applog.OpCreate, err)
		return
	}
	stored, err := s.store.AddTransaction(tx)
	if err != nil {
		s.fail(w, r, applog.OpCreate, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		applog.NewFields().WithTransaction(stored.ID, stored.Amount.Units, stored.Category, string(stored.Type)).ToSlice()...)
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, applog.OpUpdate, err)
		return
	}
	tx, err := req.toTransaction(core.DateOf(s.now()))
	if err != nil {
		s.fail(w, r, applog.OpUpdate, err)
		return
	}
	tx.ID = r.PathValue("id")
	stored, err := s.store.UpdateTransaction(tx)
	if err != nil {
		s.fail(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTransaction(r.PathValue("id")); err != nil {
		s.fail(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListCategories optionally narrows by ?type=income|expense.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.store.State().Categories
	if v, ok := lookup(r.URL.Query(), "type"); ok {
		t := core.TransactionType(v)
		if !t.IsValid() {
			s.fail(w, r, applog.OpList, core.ErrInvalidType)
			return
		}
		cats = core.CategoriesOfType(cats, t)
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, applog.OpCreate, err)
		return
	}
	c.Name = sanitizeInput(c.Name)
	if err := s.store.AddCategory(c); err != nil {
		s.fail(w, r, applog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var p core.FilterPatch
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, applog.OpUpdate, err)
		return
	}
	if err := s.store.SetFilter(p); err != nil {
		s.fail(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.State().Filter)
}

type analyticsResponse struct {
	Filter           core.FilterState      `json:"filter"`
	Stats            core.Stats            `json:"stats"`
	ExpenseBreakdown []core.CategoryAmount `json:"expenseBreakdown"`
	IncomeBreakdown  []core.CategoryAmount `json:"incomeBreakdown"`
	Monthly          []core.MonthOverview  `json:"monthly"`
}

// handleAnalytics covers every transaction unless query parameters narrow
// the selection. The stored filter is not applied.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilterQuery(r.URL.Query(), core.DefaultFilter())
	if err != nil {
		s.fail(w, r, applog.OpRead, err)
		return
	}
	snap := s.store.Snapshot()
	selected := s.store.Query(f)
	writeJSON(w, http.StatusOK, analyticsResponse{
		Filter:           f,
		Stats:            core.ComputeStats(selected),
		ExpenseBreakdown: core.BreakdownByCategory(selected, snap.Categories, core.Expense),
		IncomeBreakdown:  core.BreakdownByCategory(selected, snap.Categories, core.Income),
		Monthly:          core.MonthlyTrend(selected),
	})
}
