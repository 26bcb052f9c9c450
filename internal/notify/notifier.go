package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"login-service/internal/domain"
)

// Event types understood by the notification service.
const (
	EventRegistration = "USER_REGISTRATION"
	EventLogin        = "USER_LOGIN"
)

// Event is the payload delivered to the notification service.
type Event struct {
	ID        string `json:"id"`
	EventType string `json:"eventType"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Timestamp int64  `json:"timestamp"`
}

// Sink accepts events for out-of-band delivery. Enqueue never blocks and
// never surfaces delivery errors to the caller.
type Sink interface {
	Enqueue(eventType string, user domain.Profile)
}

// NewEvent builds a delivery payload for a user-scoped event.
func NewEvent(eventType string, user domain.Profile) Event {
	return Event{
		ID:        uuid.NewString(),
		EventType: eventType,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Config controls the dispatcher's queue and delivery behaviour.
type Config struct {
	// URL is the notification service endpoint events are POSTed to.
	URL string
	// QueueSize bounds the number of undelivered events held in memory.
	QueueSize int
	// Workers is the number of concurrent delivery goroutines.
	Workers int
	// RequestTimeout bounds a single delivery attempt.
	RequestTimeout time.Duration
	Logger         *logrus.Logger
}

// Dispatcher delivers events to the notification service asynchronously.
// Delivery is fire-and-forget: failures are logged at warn and swallowed so
// they can never affect the flow that produced the event.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Dispatcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		queue:  make(chan Event, cfg.QueueSize),
	}
}

// Start launches the delivery workers.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.cfg.Logger.Infof("notification dispatcher started, endpoint: %s", d.cfg.URL)
}

// Shutdown stops accepting events and waits for in-flight deliveries.
func (d *Dispatcher) Shutdown() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
	d.cfg.Logger.Info("notification dispatcher stopped")
}

// Enqueue hands an event to the delivery workers without blocking. When the
// queue is full the event is dropped and logged.
func (d *Dispatcher) Enqueue(eventType string, user domain.Profile) {
	event := NewEvent(eventType, user)
	select {
	case d.queue <- event:
	default:
		d.cfg.Logger.Warnf("notification queue full, dropping %s event for %s", event.EventType, event.Username)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for event := range d.queue {
		if err := d.deliver(event); err != nil {
			d.cfg.Logger.Warnf("deliver %s notification for %s: %v", event.EventType, event.Username, err)
		}
	}
}

func (d *Dispatcher) deliver(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned %s", resp.Status)
	}
	return nil
}

// Noop is a Sink that discards all events. Used when no notification URL is
// configured and in tests.
type Noop struct{}

func (Noop) Enqueue(string, domain.Profile) {}
