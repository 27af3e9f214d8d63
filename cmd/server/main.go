package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/smarthr/portal/internal/ai"
	"github.com/smarthr/portal/internal/config"
	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/httpserver"
	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/middleware"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/search"
	"github.com/smarthr/portal/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "portal")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var producer events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	var jobIndex search.JobIndex
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg)
		if err != nil {
			logger.Warn("elasticsearch unavailable, job search disabled", "error", err)
		} else {
			jobIndex = &search.ESJobIndex{ES: es, Index: cfg.ESJobIndex}
		}
	}

	r := &repo.GormRepo{DB: db}

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		Events:        producer,
	}
	companySvc := &service.CompanyService{Repo: r, Events: producer}
	departmentSvc := &service.DepartmentService{Repo: r, Events: producer}
	jobSvc := &service.JobService{Repo: r, Events: producer, Index: jobIndex}
	applicationSvc := &service.ApplicationService{Repo: r, Events: producer}
	interviewSvc := &service.InterviewService{Repo: r, Events: producer, AI: ai.NewClient(cfg.AIServiceURL)}
	predictedSvc := &service.PredictedService{Repo: r, Events: producer}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Svc: authSvc},
		Company:     &httpserver.CompanyHTTP{Svc: companySvc},
		Department:  &httpserver.DepartmentHTTP{Svc: departmentSvc},
		Job:         &httpserver.JobHTTP{Svc: jobSvc},
		Application: &httpserver.ApplicationHTTP{Svc: applicationSvc, UploadDir: cfg.UploadDir},
		Interview:   &httpserver.InterviewHTTP{Svc: interviewSvc, UploadDir: cfg.UploadDir},
		Predicted:   &httpserver.PredictedHTTP{Svc: predictedSvc},
		JWTSecret:   cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("portal listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = producer.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("portal stopped")
}
