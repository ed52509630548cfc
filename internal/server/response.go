package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thywilljoshua/doc-to-slides/internal/errs"
	"github.com/thywilljoshua/doc-to-slides/internal/render"
	"github.com/thywilljoshua/doc-to-slides/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a pipeline error to a status and a generic message. The
// cause is logged, never sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, errs.Message(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, msg = http.StatusNotFound, "Presentation not found"
	case errs.Is(err, errs.KindInvalid), errors.Is(err, render.ErrEmptyDeck):
		status = http.StatusBadRequest
	case errs.Is(err, errs.KindExtraction):
		status = http.StatusUnprocessableEntity
	case errs.Is(err, errs.KindSynthesis):
		status = http.StatusBadGateway
	}
	ev := s.log.Warn()
	if status >= 500 {
		ev = s.log.Error()
	}
	ev.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	writeJSON(w, status, errorBody{Error: msg})
}

func writePDF(w http.ResponseWriter, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="presentation.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
