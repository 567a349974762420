// Package handler contains the HTTP handlers: the HTML form page and the
// JSON API. Handlers parse requests, call lookup.Service, and write
// responses; they hold no lookup logic of their own.
package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sakif/ghlookup/internal/apperror"
	"github.com/sakif/ghlookup/internal/card"
	"github.com/sakif/ghlookup/internal/lookup"
	"github.com/sakif/ghlookup/internal/model"
	"github.com/sakif/ghlookup/internal/session"
)

const pageTitle = "GitHub Lookup"

// PageHandler serves the lookup form and its result.
// Templates are parsed once at construction.
type PageHandler struct {
	templates *template.Template
	service   *lookup.Service
	logger    *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(templates *template.Template, service *lookup.Service, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		templates: templates,
		service:   service,
		logger:    logger,
	}
}

// modeOption is one <option> of the mode selector.
type modeOption struct {
	Value    string
	Label    string
	Selected bool
}

// pageData is everything index.html reads.
type pageData struct {
	Title      string
	Nickname   string
	Modes      []modeOption
	Loading    bool
	Error      string
	Validation string
	Card       card.Card
}

func newPageData(snap lookup.Snapshot) pageData {
	modes := make([]modeOption, 0, len(model.Modes))
	for _, m := range model.Modes {
		modes = append(modes, modeOption{
			Value:    m.String(),
			Label:    m.Label(),
			Selected: m == snap.Mode,
		})
	}
	return pageData{
		Title:    pageTitle,
		Nickname: snap.Nickname,
		Modes:    modes,
		Loading:  snap.Status == lookup.StatusLoading,
		Error:    snap.Error,
		Card:     card.For(snap.Result),
	}
}

// HandleIndex renders the form and the session's current outcome.
//
// HTTP: GET /
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		st = lookup.NewState()
	}
	h.render(w, http.StatusOK, newPageData(st.Snapshot()))
}

// HandleLookup applies the submitted form to the session state, runs one
// lookup, and redirects back to GET / so a reload does not resubmit.
//
// POST/REDIRECT/GET:
//
//	POST /lookup  → Submit (blocks on GitHub) → 303 See Other, Location: /
//	GET  /        → render whatever the session state now holds
//
// The result lives in the session, not in the POST response, so refreshing
// the page re-renders it without a second GitHub call. Validation errors
// are the exception: they render directly with 400, since nothing was
// fetched and there is no new state to redirect to.
//
// HTTP: POST /lookup (form fields: nickname, mode)
func (h *PageHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		h.logger.Error("lookup without session state")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderValidation(w, st, "invalid form submission")
		return
	}

	nickname := r.PostForm.Get("nickname")
	mode, err := model.ParseMode(r.PostForm.Get("mode"))
	if err != nil {
		// Keep what was typed so the re-rendered form is not blank.
		st.SetNickname(nickname)
		h.renderValidation(w, st, "mode must be user or repo")
		return
	}

	// Input and Begin go through one call: another tab of this session may
	// be submitting at the same moment.
	if _, err := h.service.Submit(r.Context(), st, nickname, mode); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderValidation(w, st, apperror.PublicMessage(err, "invalid input"))
			return
		}
		h.logger.Error("lookup submission failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) renderValidation(w http.ResponseWriter, st *lookup.State, msg string) {
	data := newPageData(st.Snapshot())
	data.Validation = msg
	h.render(w, http.StatusBadRequest, data)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		// The status line is already out; log and stop.
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
	}
}
