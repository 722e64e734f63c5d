package main

import (
	"context"
	"log"

	"event-reservations/config"
	"event-reservations/internal/database"
	"event-reservations/internal/handler"
	"event-reservations/internal/payment"
	"event-reservations/internal/queue"
	"event-reservations/internal/repository"
	"event-reservations/internal/service"
	"event-reservations/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	notifyQueue, err := queue.NewRedisStreamNotificationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize notification queue: %v", err)
	}

	locks := service.NewEventLocks()
	ledger := service.NewLedgerService(eventRepo, ticketRepo)
	checkout := payment.NewHTTPClient(&cfg.Checkout)
	reservations := service.NewReservationService(
		eventRepo, ticketRepo, ledger, locks, checkout, notifyQueue, &cfg.Checkout)
	admin := service.NewAdminService(eventRepo, ticketRepo, ledger, locks)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifyWorker := worker.NewNotificationWorker(notifyQueue, worker.LogDispatcher{})
	if err := notifyWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	sweeper := worker.NewHoldSweeper(reservations, cfg.HoldTTL, cfg.SweepInterval)
	sweeper.Start(ctx)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.NewReservationHandler(reservations, ledger).RegisterRoutes(router)
	handler.NewPaymentHandler(reservations).RegisterRoutes(router)
	handler.NewAdminHandler(admin, cfg.Admin.APIKey).RegisterRoutes(router)

	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
