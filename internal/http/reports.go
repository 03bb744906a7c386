package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gastos/internal/core"
	"gastos/internal/format"
	"gastos/internal/log"
	"gastos/internal/metrics"
)

// handleReportChart renders the trailing twelve months of income, expenses
// and balance as a PNG for the signed-in user.
func (s *Server) handleReportChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user, err := s.backend.UserFromToken(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	uid := user.ID.String()

	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y >= 2020 && y <= 2100 {
			year = y
		}
	}

	logger := log.FromContext(r.Context())

	rawExpenses, err := s.backend.List(r.Context(), core.TableExpenses, "*", uid, "")
	if err != nil {
		logger.ErrorContext(r.Context(), "report expense read failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report failed")
		return
	}
	rawIncome, err := s.backend.List(r.Context(), core.TableIncome, "*", uid, "")
	if err != nil {
		logger.ErrorContext(r.Context(), "report income read failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report failed")
		return
	}

	var expenses []core.Expense
	var income []core.Income
	if err := json.Unmarshal(rawExpenses, &expenses); err != nil {
		writeError(w, http.StatusInternalServerError, "report failed")
		return
	}
	if err := json.Unmarshal(rawIncome, &income); err != nil {
		writeError(w, http.StatusInternalServerError, "report failed")
		return
	}

	series := metrics.Series(month, year, expenses, income, format.MonthShort)
	png, err := s.renderer.MonthlyReport(series)
	if err != nil {
		logger.ErrorContext(r.Context(), "chart render failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report failed")
		return
	}
	if png == nil {
		writeError(w, http.StatusNotFound, "no data")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
