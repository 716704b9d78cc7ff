// Package receipts keeps a running sales ledger from OrderPlaced events.
package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

const dedupScope = "receipts"

type Service struct {
	Redis *redis.Client
}

type Tally struct {
	Orders int64           `json:"orders"`
	Units  map[int64]int64 `json:"units"`
}

// HandleOrderPlaced is installed as the consumer handler.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	if typ, ok := kafkax.HeaderValue(m, kafkax.HeaderEventType); ok && typ != checkout.EventOrderPlaced {
		return nil
	}
	var env checkout.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType != checkout.EventOrderPlaced {
		return nil
	}

	p, err := kafkax.UnwrapPayload[checkout.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	// first writer of the dedup key wins; redeliveries are acknowledged without effect
	dkey := fmt.Sprintf(redisx.KeyDedup, dedupScope, env.EventID)
	fresh, err := s.Redis.SetNX(ctx, dkey, "1", redisx.TTLDedup).Result()
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, it := range p.Items {
			pipe.HIncrBy(ctx, redisx.KeySoldUnits, strconv.FormatInt(it.ProductID, 10), int64(it.Qty))
		}
		pipe.Incr(ctx, redisx.KeyOrdersTotal)
		return nil
	})
	if err != nil {
		// let the redelivery try again
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	log.Printf("receipts: recorded order %s (%d lines)", p.OrderID, len(p.Items))
	return nil
}

func (s *Service) Tally(ctx context.Context) (Tally, error) {
	t := Tally{Units: map[int64]int64{}}
	n, err := s.Redis.Get(ctx, redisx.KeyOrdersTotal).Int64()
	if err != nil && err != redis.Nil {
		return t, err
	}
	t.Orders = n

	units, err := s.Redis.HGetAll(ctx, redisx.KeySoldUnits).Result()
	if err != nil {
		return t, err
	}
	for k, v := range units {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		q, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		t.Units[id] = q
	}
	return t, nil
}
