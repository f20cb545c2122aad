package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/receipt"
)

// handleScanReceipt accepts a multipart form with an "image" file and an
// optional "type" (default expense). The ledger is not modified.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if s.receipts == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt scanning is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, receipt.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, applog.OpScan, receipt.ErrImageTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, receipt.MaxImageSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	t := core.Expense
	if v := strings.TrimSpace(r.FormValue("type")); v != "" {
		t = core.TransactionType(v)
	}

	res, err := s.receipts.Scan(r.Context(), receipt.Image{Data: data, MIMEType: mimeType, Filename: header.Filename}, t)
	if err != nil {
		s.fail(w, r, applog.OpScan, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
