package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vkhromov/retail_orders/internal/config"
	"github.com/vkhromov/retail_orders/internal/es"
	"github.com/vkhromov/retail_orders/internal/handlers"
	"github.com/vkhromov/retail_orders/internal/logging"
	"github.com/vkhromov/retail_orders/internal/mail"
	"github.com/vkhromov/retail_orders/internal/mykafka"
	"github.com/vkhromov/retail_orders/internal/notify"
	"github.com/vkhromov/retail_orders/internal/repo"
	httpserver "github.com/vkhromov/retail_orders/internal/transport/http"
)

const searchIndex = "listings"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	gormRepo := &repo.GormRepo{DB: db}

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	mailer, err := mail.NewSMTPMailer(
		configuration.SMTP_HOST,
		configuration.SMTP_PORT,
		configuration.SMTP_USER,
		configuration.SMTP_PASSWORD,
		configuration.EMAIL_HOST_USER,
	)
	if err != nil {
		log.Fatal(err)
	}

	notifier := &notify.Notifier{Repo: gormRepo, Mailer: mailer}

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{Repo: gormRepo, Producer: prod, Notifier: notifier, JWTSecret: jwtSecret},
		CatalogHandler: &handlers.CatalogHandler{Repo: gormRepo},
		PartnerHandler: &handlers.PartnerHandler{Repo: gormRepo, Index: searchIndex, JWTSecret: jwtSecret},
		OrderHandler:   &handlers.OrderHandler{Repo: gormRepo, Producer: prod, JWTSecret: jwtSecret},
		ContactHandler: &handlers.ContactHandler{Repo: gormRepo, JWTSecret: jwtSecret},
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.PartnerHandler.ES = esClient
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: searchIndex}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", configuration.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
