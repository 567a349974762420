package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/ghlookup/internal/apperror"
	"github.com/sakif/ghlookup/internal/lookup"
	"github.com/sakif/ghlookup/internal/model"
)

// maxRequestBytes bounds the JSON body of POST /api/lookup.
const maxRequestBytes = 4 << 10

// APIHandler exposes the lookup lifecycle as JSON.
type APIHandler struct {
	service *lookup.Service
	logger  *slog.Logger
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(service *lookup.Service, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		service: service,
		logger:  logger,
	}
}

// LookupRequest is the body of POST /api/lookup.
type LookupRequest struct {
	Nickname string     `json:"nickname"`
	Mode     model.Mode `json:"mode"`
}

// LookupResponse mirrors the final state of one submission.
type LookupResponse struct {
	Status lookup.Status `json:"status"`
	Mode   model.Mode    `json:"mode"`
	Result model.Record  `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// HandleLookup runs one stateless lookup. A failed fetch is still a 200: the
// outcome is carried in status/error exactly as the form would show it.
//
// HTTP: POST /api/lookup
func (h *APIHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid lookup request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "request body must be JSON with nickname and mode"))
		return
	}

	snap, err := h.service.Lookup(r.Context(), req.Mode, req.Nickname)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LookupResponse{
		Status: snap.Status,
		Mode:   snap.Mode,
		Result: snap.Result,
		Error:  snap.Error,
	})
}

// errTrailingData is returned when a JSON body holds more than one value.
var errTrailingData = errors.New("unexpected data after JSON object")

// decodeBody reads exactly one JSON value from the request body into dst.
//
// STRICT BODIES:
// json.Decoder stops after the first complete value, so on its own it would
// accept `{"nickname":"x"} junk`. A second Decode must hit io.EOF; anything
// else (more JSON, garbage, a stray brace) rejects the request.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// HandleHealth reports liveness.
//
// HTTP: GET /healthz
func (h *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
