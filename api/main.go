package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/oncogenie/oncogenie/backend/internal/analysis"
	"github.com/oncogenie/oncogenie/backend/internal/config"
	"github.com/oncogenie/oncogenie/backend/internal/logger"
	"github.com/oncogenie/oncogenie/backend/internal/models"
	"github.com/oncogenie/oncogenie/backend/internal/pubmed"
	"github.com/oncogenie/oncogenie/backend/internal/synthesis"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	literature := pubmed.New(pubmed.Options{
		BaseURL:     cfg.PubMedBaseURL,
		MaxQueries:  cfg.PubMedMaxQueries,
		IDsPerQuery: cfg.PubMedIDsPerQuery,
		MaxResults:  cfg.PubMedMaxResults,
		Timeout:     cfg.PubMedTimeout,
		RateLimit:   rate.Limit(cfg.PubMedRate),
		Burst:       cfg.PubMedBurst,
	}, log)

	model, err := synthesis.NewGeminiModel(context.Background(), cfg.GeminiModel, cfg.GeminiTimeout)
	if err != nil {
		log.Error("init gemini client", slog.Any("err", err))
		os.Exit(1)
	}

	svc := analysis.NewService(literature, synthesis.New(model, log), log)
	srv := &server{log: log, cfg: cfg, analysis: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", srv.handleHealth)
	r.Post("/analyze", srv.handleAnalyze)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type analyzer interface {
	Analyze(ctx context.Context, profile models.HealthProfile) (*models.AnalysisResult, error)
}

type server struct {
	log      *slog.Logger
	cfg      *config.API
	analysis analyzer
}

type analyzeRequest struct {
	UserData *models.HealthProfile `json:"userData"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid input: " + err.Error()})
		return
	}
	if req.UserData == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid input: userData is required."})
		return
	}

	result, err := s.analysis.Analyze(ctx, *req.UserData)
	if err != nil {
		status, msg := mapError(err)
		s.log.Warn("analysis failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Int("status", status),
			slog.Any("err", err),
		)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// mapError translates the pipeline's error taxonomy into user-facing
// statuses and short, non-technical messages.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrInvalidProfile):
		return http.StatusBadRequest, "Invalid input: please check the submitted health profile."
	case errors.Is(err, analysis.ErrNoAbstractsFound):
		return http.StatusNotFound, "We couldn't find relevant research for this profile."
	case errors.Is(err, analysis.ErrLiteratureUnavailable):
		return http.StatusBadGateway, "The research literature service is unavailable right now. Please try again later."
	case errors.Is(err, analysis.ErrInferenceUnavailable):
		return http.StatusGatewayTimeout, "The analysis service is unavailable right now. Please try again later."
	case errors.Is(err, analysis.ErrMalformedModelOutput):
		return http.StatusInternalServerError, "The analysis failed. Please retry."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please retry."
	}
}

// cors allows the browser frontend to call the API directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
