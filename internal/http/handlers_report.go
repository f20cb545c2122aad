package http

import (
	"net/http"
	"strconv"

	applog "moneytracker/internal/log"
	"moneytracker/internal/report"
)

// handleStatementPDF renders the transactions selected by the query (on
// top of the stored filter) as a PDF download.
func (s *Server) handleStatementPDF(w http.ResponseWriter, r *http.Request) {
	state := s.store.State()
	f, err := parseFilterQuery(r.URL.Query(), state.Filter)
	if err != nil {
		s.fail(w, r, applog.OpExport, err)
		return
	}

	st := report.NewStatement(state.Snapshot(), f, s.now())
	body, err := report.BuildStatementPDF(st)
	if err != nil {
		s.fail(w, r, applog.OpExport, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+st.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
