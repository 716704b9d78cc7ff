package blob

import (
	"context"
	"sync"
)

type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: map[string]string{}}
}

func (s *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, Wrap("get", key, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return Wrap("set", key, err)
	}
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return Wrap("remove", key, err)
	}
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
