package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/blob"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Blob store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	defer closeStore()

	// Catalog
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	log.Printf("catalog loaded: %d products", cat.Len())

	// Kafka producer (optional)
	var events checkout.EventSink
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicOrderPlaced, 1024)
		prod.Start(ctx)
		events = prod
	} else {
		log.Printf("KAFKA_BROKERS empty: order events disabled")
	}

	c := cart.New()
	h := &httpx.Handler{
		Catalog:  catalog.NewPaginator(cat, cfg.PageSize),
		Cart:     c,
		Auth:     auth.NewService(store),
		Checkout: checkout.NewService(c, events, cfg.ServiceName),
	}
	router := httpx.NewRouter()
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("HTTP listening at %s (blob backend %s)", cfg.HTTPAddr, cfg.BlobBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(sctx)
		if prod != nil {
			prod.Close()
			prod.WaitClosed()
		}
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("exit: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (blob.Store, func(), error) {
	switch cfg.BlobBackend {
	case config.BackendRedis:
		rdb := redisx.New(cfg.RedisAddr)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisx.NewStore(rdb), func() { _ = rdb.Close() }, nil
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		bs := &postgres.BlobStore{DB: db}
		if err := bs.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return bs, db.Close, nil
	case config.BackendMemory:
		return blob.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown BLOB_BACKEND %q", cfg.BlobBackend)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
