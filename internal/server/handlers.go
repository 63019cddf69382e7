package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/protouml/protouml/pkg/errors"
	"github.com/protouml/protouml/pkg/observability"
	"github.com/protouml/protouml/pkg/plantuml"
	"github.com/protouml/protouml/pkg/schema"
	"github.com/protouml/protouml/pkg/store"
	"github.com/protouml/protouml/pkg/uml"
)

// maxSourceBytes bounds the accepted proto source size.
const maxSourceBytes = 1 << 20

// generateRequest is the body for POST /v1/diagrams and POST /v1/shares.
type generateRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// diagramResponse describes a generated diagram.
type diagramResponse struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text"`
	Token    string `json:"token"`
	Encoding string `json:"encoding"`
	URL      string `json:"url"`
	Entities int    `json:"entities,omitempty"`
	Edges    int    `json:"edges,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// handleGenerate turns protobuf source into PlantUML text and a render
// token without persisting anything.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	resp, _, err := s.generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateShare generates a diagram and persists it under a fresh ID.
func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	resp, res, err := s.generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp.ID = uuid.NewString()
	record := &store.Diagram{
		ID:        resp.ID,
		Name:      req.Name,
		Text:      resp.Text,
		Token:     res.Token,
		Encoding:  string(res.Encoding),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.deps.Store.Put(r.Context(), record); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "failed to store diagram"))
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleGetShare returns a previously persisted diagram.
func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.deps.Store.Get(r.Context(), id)
	if err == store.ErrNotFound {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "share not found"))
		return
	}
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "failed to load diagram"))
		return
	}

	res := plantuml.Result{Token: record.Token, Encoding: plantuml.Encoding(record.Encoding)}
	writeJSON(w, http.StatusOK, diagramResponse{
		ID:       record.ID,
		Name:     record.Name,
		Text:     record.Text,
		Token:    record.Token,
		Encoding: record.Encoding,
		URL:      s.renderURL(res),
	})
}

// generate runs the parse, emit, and encode pipeline for one request.
func (s *Server) generate(ctx context.Context, req generateRequest) (diagramResponse, plantuml.Result, error) {
	name := req.Name
	if name == "" {
		name = "schema.proto"
	}

	observability.Pipeline().OnGenerateStart(ctx, name)
	start := time.Now()

	file, err := schema.LoadSource(name, req.Source)
	if err != nil {
		observability.Pipeline().OnGenerateComplete(ctx, name, 0, 0, time.Since(start), err)
		return diagramResponse{}, plantuml.Result{}, err
	}

	diagram, err := uml.Generate(file, uml.Options{Layout: s.deps.Layout})
	if err != nil {
		observability.Pipeline().OnGenerateComplete(ctx, name, 0, 0, time.Since(start), err)
		return diagramResponse{}, plantuml.Result{}, err
	}
	observability.Pipeline().OnGenerateComplete(ctx, name, diagram.Entities, diagram.Edges, time.Since(start), nil)

	res, err := plantuml.Encode(diagram.Text)
	if err != nil {
		return diagramResponse{}, plantuml.Result{}, err
	}
	observability.Pipeline().OnEncodeComplete(ctx, string(res.Encoding), len(diagram.Text), len(res.Token))

	return diagramResponse{
		Name:     req.Name,
		Text:     diagram.Text,
		Token:    res.Token,
		Encoding: string(res.Encoding),
		URL:      s.renderURL(res),
		Entities: diagram.Entities,
		Edges:    diagram.Edges,
	}, res, nil
}

func (s *Server) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, bool) {
	var req generateRequest
	body := http.MaxBytesReader(w, r.Body, maxSourceBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return req, false
	}
	if req.Source == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "source is required"))
		return req, false
	}
	return req, true
}

func (s *Server) renderURL(res plantuml.Result) string {
	return plantuml.NewClient(s.deps.Endpoint).URL(res, s.deps.Format)
}

// writeError maps an error code to an HTTP status and writes the JSON
// error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSchema,
		errors.ErrCodeInvalidField, errors.ErrCodeInvalidFormat,
		errors.ErrCodeParse:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		s.deps.Logger.Error("request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", RequestID(r.Context()),
		)
	}

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
