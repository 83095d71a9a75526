package server

import (
	"biotsavart/maths"
	"biotsavart/shape"
	"biotsavart/solver"
	"biotsavart/solver/debug"
	"biotsavart/store"
	"biotsavart/types"
	"biotsavart/utils"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WireRequest 导线定义：给出 shape 时按形状生成，否则使用顶点坐标
type WireRequest struct {
	Name    string         `json:"name,omitempty"`
	Shape   string         `json:"shape,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	X       []float64      `json:"x,omitempty"`
	Y       []float64      `json:"y,omitempty"`
	Z       []float64      `json:"z,omitempty"`
	Current maths.Phasor   `json:"current"`
	Turns   int            `json:"turns,omitempty"` // 缺省为1
	Refine  float64        `json:"refine,omitempty"`
}

// PointsRequest 观测点坐标
type PointsRequest struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`
}

type SolveRequest struct {
	Wire   WireRequest   `json:"wire"`
	Points PointsRequest `json:"points"`
}

type SolveResponse struct {
	ID         string        `json:"id,omitempty"`
	Fields     []maths.Field `json:"fields"`
	Magnitude  []float64     `json:"magnitude"`
	Degenerate []int         `json:"degenerate,omitempty"`
}

type ShapeInfo struct {
	Name   string       `json:"name"`
	Params []ShapeParam `json:"params"`
}

type ShapeParam struct {
	Name    string  `json:"name"`
	Default float64 `json:"default"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// wire 由请求构建导线
func (req WireRequest) wire() (*types.Wire, error) {
	n := req.Turns
	if n == 0 {
		n = 1
	}
	var w *types.Wire
	if req.Shape != "" {
		sc, ok := types.GetShape(req.Shape)
		if !ok {
			return nil, errors.New("unknown shape: " + req.Shape)
		}
		var err error
		if w, err = shape.Build(req.Shape, utils.FromMap(sc.ValueName(), req.Params), req.Current, n); err != nil {
			return nil, err
		}
	} else {
		w = &types.Wire{X: req.X, Y: req.Y, Z: req.Z, Current: req.Current, N: n}
	}
	if req.Name != "" {
		w.Name = req.Name
	}
	if req.Refine > 0 {
		return shape.Refine(w, req.Refine)
	}
	return w, nil
}

// checkWorkload 求解前限制计算规模
func checkWorkload(wire *types.Wire, points *types.Points) error {
	if wire.Len() > types.MaxVertices || points.Len() > types.MaxVertices {
		return fmt.Errorf("顶点数或观测点数超过上限 %s", humanize.Comma(int64(types.MaxVertices)))
	}
	if n := int64(max(wire.Len()-1, 0)) * int64(points.Len()); n > MaxEvaluations {
		return fmt.Errorf("计算量 %s 超过上限 %s", humanize.Comma(n), humanize.Comma(MaxEvaluations))
	}
	return nil
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	wire, err := req.Wire.wire()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	points := &types.Points{X: req.Points.X, Y: req.Points.Y, Z: req.Points.Z}
	if err := checkWorkload(wire, points); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record := &debug.Record{}
	opts := append([]solver.Option{}, s.opts...)
	opts = append(opts,
		solver.WithDebug(record),
		solver.WithLogger(s.logger.With("request_id", middleware.GetReqID(r.Context()))),
	)
	sv := solver.New(opts...)
	if _, err := sv.Solve(wire, points); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := SolveResponse{
		Fields:     record.Fields,
		Magnitude:  record.Magnitude,
		Degenerate: record.DegenerateList,
	}
	if s.store != nil {
		run := store.NewRun(record, sv.Mu0)
		if err := s.store.SaveRun(r.Context(), run); err != nil {
			s.logger.Error("save run failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.ID = run.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShapes(w http.ResponseWriter, _ *http.Request) {
	names := shape.Names()
	out := make([]ShapeInfo, 0, len(names))
	for _, name := range names {
		sc, _ := types.GetShape(name)
		info := ShapeInfo{Name: name}
		def := sc.ValueInit()
		for i, p := range sc.ValueName() {
			info.Params = append(info.Params, ShapeParam{Name: p, Default: def[i]})
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.Runs(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	c := &debug.Charts{Record: *run.Record(), Axis: r.URL.Query().Get("axis")}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Handler(w, r)
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	run, err := s.store.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	return run, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
