package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/shiftsync/timeclock-backend/internal/config"
)

func NewRouter(
	appCfg config.AppConfig,
	logger *slog.Logger,
	employeeHandler EmployeeHandler,
	shiftHandler ShiftHandler,
	timeHandler TimeHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "pong"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/employees", employeeHandler.List)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", shiftHandler.List)
			r.Get("/staged", shiftHandler.ListStaged)
			r.Post("/promote", shiftHandler.Promote)

			r.Route("/import", func(r chi.Router) {
				r.Post("/", shiftHandler.Import)
				r.Post("/all", shiftHandler.ImportAll)
			})
		})

		r.Route("/time", func(r chi.Router) {
			r.Get("/readable", timeHandler.Readable)
			r.Get("/epoch", timeHandler.Epoch)
		})
	})
	return r
}

// NewLogger returns the JSON logger shared by the request logger and slog.Default
func NewLogger(appCfg config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(appCfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(appCfg.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock-backend"),
		slog.String("env", appCfg.Env),
	)
}
