package kafka

import (
	"context"
	"github.com/segmentio/kafka-go"
	"log"
	"sync"
	"time"
)

type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start drains the inbox until Close is called, then flushes and closes the writer.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := p.w.WriteMessages(wctx, m); err != nil {
				log.Printf("kafka: write topic=%s key=%s: %v", p.w.Topic, m.Key, err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			log.Printf("kafka: close writer: %v", err)
		}
	}()
}

// Publish queues a message without blocking. It reports false when the
// inbox is full or the producer is closed; the message is dropped.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Printf("kafka: producer closed, dropping topic=%s key=%s", p.w.Topic, key)
		return false
	}
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
		return true
	default:
		log.Printf("kafka: inbox full, dropping topic=%s key=%s", p.w.Topic, key)
		return false
	}
}

// Close stops accepting messages; the Start goroutine flushes what is queued.
// Later Publish calls are dropped. Close is idempotent.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

// WaitClosed blocks until the writer is flushed and closed.
func (p *Producer) WaitClosed() { <-p.closeCh }
