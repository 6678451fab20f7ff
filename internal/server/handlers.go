package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/flow"
	"github.com/opmtools/opdflow/pkg/io"
	"github.com/opmtools/opdflow/pkg/observability"
)

type processView struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Band   int     `json:"band"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type edgeView struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type analyzeResponse struct {
	AnalysisID  string          `json:"analysis_id"`
	Diagram     string          `json:"diagram,omitempty"`
	DiagramHash string          `json:"diagram_hash"`
	Bands       [][]processView `json:"bands"`
	Edges       []edgeView      `json:"edges"`
}

type processesResponse struct {
	Processes []processView `json:"processes"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	d, ok := s.readDiagram(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Analyze(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := analyzeResponse{
		AnalysisID:  uuid.NewString(),
		Diagram:     d.Name,
		DiagramHash: res.DiagramHash,
		Bands:       make([][]processView, 0, res.Stats.BandCount),
		Edges:       make([]edgeView, 0, res.Stats.EdgeCount),
	}
	for i, members := range flow.Bands(res.Graph) {
		views := make([]processView, len(members))
		for j, p := range members {
			views[j] = view(p, i)
		}
		resp.Bands = append(resp.Bands, views)
	}
	for _, e := range res.Graph.DAG().Edges() {
		resp.Edges = append(resp.Edges, edgeView{From: e.From, To: e.To})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInitial(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	ps, err := flow.InitialProcesses(g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeProcesses(w, r, g, ps)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	ps, err := flow.NextProcessesByID(g, r.URL.Query().Get("process"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeProcesses(w, r, g, ps)
}

func (s *Server) readDiagram(w http.ResponseWriter, r *http.Request) (*diagram.Diagram, bool) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	d, err := io.ReadDiagram(body, io.FormatJSON)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.Wrap(errors.ErrCodeInvalidInput, tooLarge, "diagram exceeds %d bytes", tooLarge.Limit)
		}
		s.writeError(w, r, err)
		return nil, false
	}
	return d, true
}

func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (*flow.Graph, bool) {
	d, ok := s.readDiagram(w, r)
	if !ok {
		return nil, false
	}
	res, err := s.runner.Analyze(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return res.Graph, true
}

func (s *Server) writeProcesses(w http.ResponseWriter, r *http.Request, g *flow.Graph, ps []diagram.Process) {
	resp := processesResponse{Processes: make([]processView, 0, len(ps))}
	for _, p := range ps {
		band, err := flow.LevelOf(g, &p)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Processes = append(resp.Processes, view(p, band))
	}
	writeJSON(w, http.StatusOK, resp)
}

func view(p diagram.Process, band int) processView {
	return processView{
		ID:     p.ID,
		Name:   p.Name,
		Band:   band,
		X:      p.Bounds.X,
		Y:      p.Bounds.Y,
		Width:  p.Bounds.Width,
		Height: p.Bounds.Height,
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		route = rctx.RoutePattern()
	}
	observability.HTTP().OnError(r.Context(), r.Method, route, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "route", route, "err", err)
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: errors.UserMessage(err)}})
}

// statusFor maps coded errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidArgument, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
