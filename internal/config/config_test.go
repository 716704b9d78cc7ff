package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "SERVICE_NAME", "BLOB_BACKEND", "KAFKA_BROKERS", "CATALOG_PATH", "PAGE_SIZE", "RECEIPTS_WORKERS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, BackendRedis, cfg.BlobBackend)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 4, cfg.ReceiptsWorkers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BLOB_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("RECEIPTS_WORKERS", "zero")

	cfg := Load()
	assert.Equal(t, BackendPostgres, cfg.BlobBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 4, cfg.ReceiptsWorkers)
}

func TestGetIntRejectsNonPositive(t *testing.T) {
	t.Setenv("PAGE_SIZE", "-3")
	assert.Equal(t, 10, getInt("PAGE_SIZE", 10))
}
