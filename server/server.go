// Package server 通过 HTTP 提供磁场求解服务
package server

import (
	"biotsavart/solver"
	"biotsavart/store"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	MaxBodyBytes   = 8 << 20 // 请求体上限
	MaxEvaluations = 1 << 26 // 单次求解的线段×观测点上限
)

type Server struct {
	Router *chi.Mux
	Addr   string
	logger *slog.Logger
	store  *store.DB
	opts   []solver.Option
}

// New 创建服务，db 为 nil 时不保存求解记录
func New(addr string, logger *slog.Logger, db *store.DB, opts ...solver.Option) *Server {
	s := &Server{
		Router: chi.NewRouter(),
		Addr:   addr,
		logger: logger,
		store:  db,
		opts:   opts,
	}

	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(30 * time.Second))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/shapes", s.handleShapes)
	r.Post("/solve", s.handleSolve)
	r.Route("/runs", func(r chi.Router) {
		r.Use(s.requireStore)
		r.Get("/", s.handleRuns)
		r.Get("/{id}", s.handleRun)
		r.Delete("/{id}", s.handleDeleteRun)
		r.Get("/{id}/chart", s.handleChart)
	})
	return s
}

func (s *Server) Start() error {
	s.logger.Info("starting server", slog.String("addr", s.Addr), slog.Bool("store", s.store != nil))
	return http.ListenAndServe(s.Addr, s.Router)
}

// requireStore 未配置数据库时拒绝访问记录
func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "store not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}
