package notification

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type service struct {
	hub    *sse.Hub
	config Config

	queue   chan notification.Event
	wg      sync.WaitGroup
	stopCh  chan struct{}
	stopped atomic.Bool
}

// NewNotificationService creates the event relay and starts its background workers
func NewNotificationService(hub *sse.Hub, cfg Config) notification.Service {
	// Set defaults
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)

	return s
}

// worker relays queued events to SSE subscribers
func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.queue:
			s.relay(event)
		case <-s.stopCh:
			// Drain what is already queued
			for {
				select {
				case event := <-s.queue:
					s.relay(event)
				default:
					slog.Debug("Notification worker stopped", "worker", id)
					return
				}
			}
		}
	}
}

func (s *service) relay(event notification.Event) {
	s.hub.Broadcast(sse.Event{
		ID:    event.ID,
		Event: string(event.Name),
		Data:  event,
	})
}

// Publish queues an event for asynchronous broadcast
func (s *service) Publish(ctx context.Context, name notification.EventName, payload map[string]interface{}) error {
	if s.stopped.Load() {
		return notification.ErrServiceStopped
	}

	event := notification.Event{
		ID:         uuid.New().String(),
		Name:       name,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}

	select {
	case s.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return notification.ErrQueueFull
	}
}

// Subscribe registers an SSE client and returns its event stream
func (s *service) Subscribe(ctx context.Context, clientID string) (<-chan notification.Event, func()) {
	ch, cleanup := s.hub.Subscribe(clientID)
	slog.Debug("SSE client subscribed", "client_id", clientID, "subscribers", s.hub.TotalSubscribers())

	out := make(chan notification.Event, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if e, ok := event.Data.(notification.Event); ok {
					select {
					case out <- e:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop stops the workers after flushing queued events
func (s *service) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("Notification service stopped")
}
