package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ocasazza/graphlayouts/pkg/buildinfo"
	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/graphio"
	"github.com/ocasazza/graphlayouts/pkg/layout"
	"github.com/ocasazza/graphlayouts/pkg/pipeline"
	"github.com/ocasazza/graphlayouts/pkg/store"
)

// =============================================================================
// Wire Types
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type listGraphsResponse struct {
	Graphs []string `json:"graphs"`
	Total  int      `json:"total"`
}

type graphResponse struct {
	Graph *graph.Graph `json:"graph"`
}

type saveGraphRequest struct {
	ID    string       `json:"id"`
	Graph *graph.Graph `json:"graph"`
}

type saveGraphResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type applyLayoutRequest struct {
	GraphID   string           `json:"graph_id"`
	Algorithm layout.Algorithm `json:"algorithm"`
}

type applyLayoutResponse struct {
	Graph  *graph.Graph  `json:"graph"`
	Result layout.Result `json:"result"`
}

type uploadRequest struct {
	ID       string `json:"id"`
	FileType string `json:"file_type"`
	Content  string `json:"content"`
}

type uploadResponse struct {
	ID      string `json:"id"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, storeErr(err, ""))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, listGraphsResponse{Graphs: ids, Total: len(ids)})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, storeErr(err, id))
		return
	}
	writeJSON(w, http.StatusOK, graphResponse{Graph: g})
}

func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	var req saveGraphRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Graph == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request is missing a graph"))
		return
	}
	id, err := s.resolveID(req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Graph.Validate(); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}
	if err := s.store.Save(r.Context(), id, req.Graph); err != nil {
		s.writeError(w, r, storeErr(err, id))
		return
	}
	writeJSON(w, http.StatusOK, saveGraphResponse{
		ID:      id,
		Message: fmt.Sprintf("Graph '%s' saved successfully", id),
	})
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, storeErr(err, id))
		return
	}
	writeJSON(w, http.StatusOK, saveGraphResponse{
		ID:      id,
		Message: fmt.Sprintf("Graph '%s' deleted successfully", id),
	})
}

// handleApplyLayout loads a stored graph, runs the requested layout on it,
// persists the positioned graph, and returns both the graph and the run
// summary. An empty algorithm selection falls back to default fcose.
func (s *Server) handleApplyLayout(w http.ResponseWriter, r *http.Request) {
	var req applyLayoutRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.GraphID == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "graph_id is required"))
		return
	}

	g, err := s.store.Get(r.Context(), req.GraphID)
	if err != nil {
		s.writeError(w, r, storeErr(err, req.GraphID))
		return
	}

	res, err := s.runner.Compute(r.Context(), g, pipeline.Options{Algorithm: req.Algorithm})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.Save(r.Context(), req.GraphID, g); err != nil {
		s.writeError(w, r, storeErr(err, req.GraphID))
		return
	}
	writeJSON(w, http.StatusOK, applyLayoutResponse{Graph: g, Result: res})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Content == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "file content is required"))
		return
	}
	format, err := graphio.ParseFormat(req.FileType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.resolveID(req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := graphio.Import(strings.NewReader(req.Content), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), id, g); err != nil {
		s.writeError(w, r, storeErr(err, id))
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		ID:      id,
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
		Message: fmt.Sprintf("Graph '%s' uploaded and parsed successfully", id),
	})
}

// =============================================================================
// Helpers
// =============================================================================

// resolveID validates a caller-supplied id or generates one when absent.
func (s *Server) resolveID(id string) (string, error) {
	if id == "" {
		return uuid.NewString(), nil
	}
	if err := errors.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

// decodeJSON decodes a size-limited request body, translating oversized
// and malformed payloads into coded errors.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", maxErr.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// storeErr maps storage failures onto coded errors.
func storeErr(err error, id string) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.Wrap(errors.ErrCodeGraphNotFound, err, "graph '%s' not found", id)
	}
	return errors.Wrap(errors.ErrCodeStore, err, "storage failure")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := httpStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(code)})
}

// httpStatus maps error codes onto HTTP status codes. Malformed requests
// are 400, semantically invalid graphs and options are 422, and anything
// unrecognized is a 500.
func httpStatus(code errors.Code) int {
	switch code {
	case errors.ErrCodeGraphNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidAlgorithm,
		errors.ErrCodeInvalidID, errors.ErrCodeInvalidPath, errors.ErrCodeCancelled:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidGraph, errors.ErrCodeMissingPosition:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
