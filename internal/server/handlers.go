package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thywilljoshua/doc-to-slides/internal/convert"
	"github.com/thywilljoshua/doc-to-slides/internal/errs"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/store"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

// readUpload pulls the multipart "file" field, capped at MaxUploadBytes.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (convert.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		return convert.Upload{}, errs.Invalid("read upload", err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return convert.Upload{}, errs.Invalid("read upload", fmt.Errorf("no file provided: %w", err))
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return convert.Upload{}, errs.Extraction("read upload", err)
	}
	return convert.Upload{
		Filename: hdr.Filename,
		MIMEType: hdr.Header.Get("Content-Type"),
		Data:     data,
		Template: style.TemplateID(r.FormValue("template")),
	}, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Invalid("decode body", err)
	}
	return nil
}

type extractResponse struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	MIMEType string `json:"mimeType"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	title, text, mt, err := s.svc.Extract(up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{Title: title, Text: text, MIMEType: mt})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Generate(r.Context(), up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type templateInfo struct {
	ID    style.TemplateID `json:"id"`
	Style style.Resolved   `json:"style"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	out := make([]templateInfo, 0, len(style.Templates()))
	for _, t := range style.Templates() {
		out = append(out, templateInfo{ID: t, Style: style.Defaults(t)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var o style.Override
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &o); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, r, err)
			return
		}
	}
	if err := o.Validate(); err != nil {
		s.writeError(w, r, errs.Invalid("resolve style", err))
		return
	}
	tpl := style.Parse(chi.URLParam(r, "template"))
	writeJSON(w, http.StatusOK, templateInfo{ID: tpl, Style: style.Resolve(tpl, &o)})
}

type exportRequest struct {
	Slides       []slides.Slide   `json:"slides"`
	Template     style.TemplateID `json:"template"`
	CustomStyles *style.Override  `json:"customStyles,omitempty"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	pdf, err := s.svc.Render(r.Context(), req.Slides, req.Template, req.CustomStyles)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePDF(w, pdf)
}

type createRequest struct {
	Title        string           `json:"title"`
	Template     style.TemplateID `json:"template"`
	CustomStyles *style.Override  `json:"customStyles,omitempty"`
	Slides       []slides.Slide   `json:"slides"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, r, errs.Invalid("create presentation", errors.New("title is required")))
		return
	}
	p := &store.Presentation{
		Title:        req.Title,
		Template:     req.Template,
		CustomStyles: req.CustomStyles,
		Slides:       req.Slides,
		OwnerID:      userID(r),
	}
	if _, err := s.svc.Save(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch store.Patch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Update(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportSaved(w http.ResponseWriter, r *http.Request) {
	pdf, err := s.svc.Export(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePDF(w, pdf)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.writeError(w, r, errs.Invalid("preview", err))
		return
	}
	img, err := s.svc.Preview(r.Context(), userID(r), chi.URLParam(r, "id"), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
