package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/receipts"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatalf("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &receipts.Service{Redis: rdb}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ReceiptsGroup, checkout.TopicOrderPlaced, cfg.ReceiptsWorkers)
	log.Printf("receipts consumer started: group=%s topic=%s workers=%d", cfg.ReceiptsGroup, checkout.TopicOrderPlaced, cfg.ReceiptsWorkers)
	if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
		log.Printf("consumer exit: %v", err)
	}

	tctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if t, err := svc.Tally(tctx); err == nil {
		log.Printf("receipts: %d orders recorded, %d products sold", t.Orders, len(t.Units))
	}
}
