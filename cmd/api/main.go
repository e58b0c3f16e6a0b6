package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/consulting-factory/internal/application"
	"github.com/bryanwahyu/consulting-factory/internal/application/analyze"
	"github.com/bryanwahyu/consulting-factory/internal/application/insights"
	planapp "github.com/bryanwahyu/consulting-factory/internal/application/plan"
	"github.com/bryanwahyu/consulting-factory/internal/application/qa"
	"github.com/bryanwahyu/consulting-factory/internal/application/runs"
	"github.com/bryanwahyu/consulting-factory/internal/application/slides"
	"github.com/bryanwahyu/consulting-factory/internal/config"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/answers"
	"github.com/bryanwahyu/consulting-factory/internal/domain/runerrors"
	aiclient "github.com/bryanwahyu/consulting-factory/internal/infra/ai/openai"
	"github.com/bryanwahyu/consulting-factory/internal/infra/charts"
	"github.com/bryanwahyu/consulting-factory/internal/infra/dataset/csvdir"
	mysqlp "github.com/bryanwahyu/consulting-factory/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/consulting-factory/internal/infra/db/postgres"
	"github.com/bryanwahyu/consulting-factory/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/consulting-factory/internal/infra/storage"
	"github.com/bryanwahyu/consulting-factory/internal/middleware"
)

// Slide outlines read better with a slightly looser temperature than the
// analytical calls.
const slidesTemperature = 0.4

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql default, postgres optional)
	var db *sql.DB
	var runRepo analysis.Repository
	var answerRepo answers.Repository
	var errRepo runerrors.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		runRepo = postgresp.NewRunRepository(db)
		answerRepo = postgresp.NewAnswerRepository(db)
		errRepo = postgresp.NewRunErrorRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		runRepo = mysqlp.NewRunRepository(db)
		answerRepo = mysqlp.NewAnswerRepository(db)
		errRepo = mysqlp.NewRunErrorRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init model client + pipeline
	client := aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	pipeline := &runs.Pipeline{
		Loader:      csvdir.NewLoader(),
		Planner:     planapp.NewService(client, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens),
		Engine:      analyze.NewEngine(client, cfg.Pipeline.MaxRounds, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens),
		Insights:    insights.NewService(client, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens),
		Slides:      slides.NewService(client, slidesTemperature, cfg.OpenAI.MaxTokens),
		Renderer:    charts.NewRenderer(),
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Offline:     cfg.Pipeline.Offline,
	}

	// init service
	svc := &runs.Service{
		Repo:       runRepo,
		Artifacts:  store,
		Pipeline:   pipeline,
		QA:         qa.NewService(client, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens, cfg.Pipeline.Offline),
		ErrRepo:    errRepo,
		Answers:    answerRepo,
		Clock:      application.SystemClock{},
		ReportsDir: cfg.Pipeline.ReportsDir,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Mount("/", httpserver.NewRouter(svc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
