package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Message is one received queue entry. Receipt is the redelivery handle:
// deleting it acknowledges the message, leaving it triggers redelivery.
type Message struct {
	Body    string
	Receipt string
}

// Queue carries ingestion jobs from the upload API to the ingest worker.
// No retry logic lives here; redelivery is entirely the broker's concern.
type Queue interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, max int32, wait time.Duration) ([]Message, error)
	Delete(ctx context.Context, receipt string) error
}

type Config struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Factory func(args interface{}) (Queue, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg Config) (Queue, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("queue.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported queue type: %s", cfg.Type)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("queue config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode queue config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode queue config: %w", err)
	}
	return nil
}
