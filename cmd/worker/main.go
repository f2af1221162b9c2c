package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/vkhromov/retail_orders/internal/config"
	"github.com/vkhromov/retail_orders/internal/logging"
	"github.com/vkhromov/retail_orders/internal/mail"
	"github.com/vkhromov/retail_orders/internal/notify"
	"github.com/vkhromov/retail_orders/internal/repo"
	"github.com/vkhromov/retail_orders/internal/worker"
)

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

	w := &worker.Worker{
		Brokers: []string{configuration.KAFKA_ADDRESS},
		GroupID: "notifications",
		Topics:  []string{notify.TopicUserEvents, notify.TopicOrderEvents},
		Notifier: &notify.Notifier{
			Repo:   &repo.GormRepo{DB: db},
			Mailer: mailer,
		},
		Log: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logging.IntoContext(ctx, logger)

	logger.Info("notification worker started", "brokers", configuration.KAFKA_ADDRESS)
	if err := w.Run(ctx); err != nil {
		log.Fatalf("worker error: %v", err)
	}
	logger.Info("notification worker stopped")
}
