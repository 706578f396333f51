package services

import (
	"context"
	"sync"
	"time"

	"github.com/fathima-sithara/visa-service/internal/events"
)

type storeStub struct {
	mu        sync.Mutex
	uploadFn  func(ctx context.Context, key, contentType string, data []byte) (string, error)
	presignFn func(ctx context.Context, key string, ttl time.Duration) (string, error)
	keys      []string
}

func (s *storeStub) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	if s.uploadFn != nil {
		return s.uploadFn(ctx, key, contentType, data)
	}
	return "", nil
}

func (s *storeStub) PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.presignFn != nil {
		return s.presignFn(ctx, key, ttl)
	}
	return "https://signed.example/" + key, nil
}

type publisherStub struct {
	mu   sync.Mutex
	evts []events.ApplicationEvent
	err  error
}

func (p *publisherStub) Publish(_ context.Context, evt events.ApplicationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evts = append(p.evts, evt)
	return p.err
}

func (p *publisherStub) Close() error { return nil }

func (p *publisherStub) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.evts))
	for i, e := range p.evts {
		out[i] = e.Type
	}
	return out
}
