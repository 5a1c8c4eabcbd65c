package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"symptom-checker/internal/embedding"
	"symptom-checker/internal/knowledge"
	"symptom-checker/internal/report"
	"symptom-checker/internal/triage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 1. Knowledge documents
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	kb, kw := knowledge.Load(dataDir, logger)
	logger.Info("knowledge base loaded",
		zap.Int("causes", len(kb.Causes)),
		zap.Int("emergency_symptoms", len(kb.EmergencySymptoms)))

	// 2. Session store: Postgres when configured, in-memory otherwise.
	repo := triage.NewMemoryRepository()
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = db.PingContext(ctx)
			cancel()
		}
		if err != nil {
			logger.Warn("could not connect to database, sessions will be in-memory", zap.Error(err))
		} else {
			m, err := migrate.New("file://migrations", dbURL)
			if err != nil {
				logger.Warn("migration init failed", zap.Error(err))
			} else if err := m.Up(); err != nil && err != migrate.ErrNoChange {
				logger.Warn("migration up failed", zap.Error(err))
			}
			repo = triage.NewPostgresRepository(db)
			logger.Info("connected to database")
		}
	}

	// 3. Services
	provider := embedding.NewOpenAIProvider()
	svc := triage.NewService(repo, provider, kb, kw, logger)
	reportSvc := report.NewService(kb)
	handler := triage.NewHandler(svc, reportSvc)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for the web frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		triage.RegisterRoutes(r, handler)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
