// Package httpapi отдаёт журнал сортировщика по HTTP: записи, статистику, состояние и снимки.
// Только чтение; писать в журнал может только конвейер.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	app "egg-grader/internal/application"
	"egg-grader/internal/domain/entity"
	"egg-grader/internal/logger"
)

// StatusProvider отдаёт снимок состояния конвейера.
type StatusProvider interface {
	State() entity.PipelineState
}

// Server HTTP-сервер отчётов.
type Server struct {
	reports  *app.ReportService
	status   StatusProvider
	hub      *Hub
	imageDir string
	logger   *logger.Logger
	router   *mux.Router
}

// NewServer собирает маршруты.
func NewServer(reports *app.ReportService, status StatusProvider, hub *Hub, imageDir string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{
		reports:  reports,
		status:   status,
		hub:      hub,
		imageDir: imageDir,
		logger:   log,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/eggs", s.handleEggs).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	if s.status != nil {
		s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	}
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}
	if s.imageDir != "" {
		s.router.PathPrefix("/images/").Handler(
			http.StripPrefix("/images/", http.FileServer(http.Dir(s.imageDir))),
		).Methods(http.MethodGet)
	}
}

// Handler возвращает обработчик с открытым CORS для панелей и мобильного клиента.
func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(s.router)
}

// ListenAndServe обслуживает addr до отмены ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warning("HTTP shutdown: %v", err)
		}
	}()

	s.logger.Info("HTTP report server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Egg API is running! Visit /eggs to view data."})
}

func (s *Server) handleEggs(w http.ResponseWriter, r *http.Request) {
	records, err := s.reports.Records(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, app.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Failed to read result log: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read result log")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]entity.EggRecord{"eggs": records})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Stats(r.Context())
	if err != nil {
		s.logger.Error("Failed to compute stats: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read result log")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status.State())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
