// Package web exposes the accounting engine and the monitor over HTTP.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Emil-Stampfly-He/rest-reminder/internal/logbook"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/monitor"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/notify"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/plot"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/procwatch"
	"github.com/Emil-Stampfly-He/rest-reminder/internal/stats"
)

//go:embed index.html
var indexPage []byte

// Server wires the accounting queries, the plotter and the monitor into
// an HTTP transport. The accounting endpoints are safe for any number of
// concurrent callers; the rest endpoint starts a single background
// monitor tied to the server's lifetime.
type Server struct {
	hooks  monitor.Hooks
	logger *slog.Logger
}

// NewServer builds a Server. hooks may be nil.
func NewServer(hooks monitor.Hooks, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{hooks: hooks, logger: logger}
}

// Router builds the chi route table. Monitors started through POST /rest
// are cancelled when ctx is.
func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Post("/count", s.handleCount)
	r.Post("/count-single-day", s.handleCountSingleDay)
	r.Post("/count-precise", s.handleCountPrecise)
	r.Post("/plot", s.handlePlot)
	r.Post("/rest", s.handleRest(ctx))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexPage)
	})
	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(ctx),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

type countRequest struct {
	LogPath  string `json:"log_path"`
	Start    string `json:"start"`
	End      string `json:"end"`
	StartDay string `json:"start_day"`
	EndDay   string `json:"end_day"`
	Day      string `json:"day"`
}

type countResponse struct {
	Seconds int64   `json:"seconds"`
	Minutes float64 `json:"minutes"`
	Hours   float64 `json:"hours"`
}

type restRequest struct {
	LogPath string   `json:"log_path"`
	Time    uint64   `json:"time"`
	AppList []string `json:"app_list"`
}

type plotRequest struct {
	LogPath  string `json:"log_path"`
	PlotPath string `json:"plot_path"`
	StartDay string `json:"start_day"`
	EndDay   string `json:"end_day"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	startDay, err := logbook.ParseLocalDay(req.StartDay)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	endDay, err := logbook.ParseLocalDay(req.EndDay)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	seconds, err := stats.DayRange(req.LogPath, startDay, endDay)
	s.respond(w, seconds, err)
}

func (s *Server) handleCountSingleDay(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := logbook.ParseLocalDay(req.Day)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	seconds, err := stats.SingleDay(req.LogPath, day)
	s.respond(w, seconds, err)
}

func (s *Server) handleCountPrecise(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := logbook.ParseLocalDateTime(req.Start)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := logbook.ParseLocalDateTime(req.End)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	seconds, err := stats.PreciseRange(req.LogPath, start, end)
	s.respond(w, seconds, err)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	var req plotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	startDay, err := logbook.ParseLocalDay(req.StartDay)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	endDay, err := logbook.ParseLocalDay(req.EndDay)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := plot.Render(req.LogPath, req.PlotPath, startDay, endDay); err != nil {
		s.respond(w, 0, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"plot_path": req.PlotPath})
}

// handleRest starts a monitor in the background and returns immediately.
// The original transport blocked the request for the monitor's whole
// lifetime; here the monitor is tied to serverCtx instead.
func (s *Server) handleRest(serverCtx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req restRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Time == 0 || len(req.AppList) == 0 || req.LogPath == "" {
			Error(w, http.StatusBadRequest, "log_path, time and app_list are required")
			return
		}

		m := monitor.New(
			procwatch.NewSystemSource(),
			notify.NewPopup(),
			s.hooks,
			req.LogPath,
			time.Duration(req.Time)*time.Second,
			req.AppList,
			monitor.WithLogger(s.logger),
		)
		go func() {
			if err := m.Run(serverCtx); err != nil {
				s.logger.Error("monitor stopped with error", "error", err)
			}
		}()

		JSON(w, http.StatusAccepted, map[string]string{"status": "monitoring started"})
	}
}

func (s *Server) respond(w http.ResponseWriter, seconds int64, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, stats.ErrEndBeforeStart) || errors.Is(err, stats.ErrEndDayBeforeStartDay) {
			status = http.StatusBadRequest
		}
		Error(w, status, err.Error())
		return
	}
	JSON(w, http.StatusOK, countResponse{
		Seconds: seconds,
		Minutes: float64(seconds) / 60.0,
		Hours:   float64(seconds) / 3600.0,
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
