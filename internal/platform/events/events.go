// Package events is the in-process notification bus. Handlers run
// synchronously on the publisher's goroutine; a panicking handler is logged
// and skipped so publishers never depend on their subscribers.
package events

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Type string

const (
	ProgressChanged   Type = "progress.changed"
	AchievementEarned Type = "achievement.earned"
	SessionStarted    Type = "session.started"
	SessionActivity   Type = "session.activity"
	SessionEnded      Type = "session.ended"
	StoreDegraded     Type = "store.degraded"
)

type Event struct {
	Type    Type
	At      time.Time
	Payload any
}

type ProgressPayload struct {
	ChapterID       string
	SectionID       string
	PercentComplete float64
	Reset           bool
}

type AchievementPayload struct {
	ID      string
	Title   string
	Message string
	Icon    string
}

type SessionPayload struct {
	SessionID string
	Kind      string
	SubjectID string
	Title     string
	Minutes   int
	Reason    string
}

type DegradedPayload struct {
	Backend string
	Reason  string
}

type Handler func(Event)

// Publisher is what producers depend on.
type Publisher interface {
	Publish(Event)
}

type Subscriber interface {
	Subscribe(t Type, h Handler) func()
}

type Bus struct {
	mu       sync.RWMutex
	handlers map[Type]map[int]Handler
	nextID   int
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{handlers: map[Type]map[int]Handler{}, logger: logger}
}

// Subscribe registers h for t and returns a func that removes it.
func (b *Bus) Subscribe(t Type, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.handlers[t] == nil {
		b.handlers[t] = map[int]Handler{}
	}
	b.handlers[t][id] = h
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers[t], id)
			b.mu.Unlock()
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.handlers[e.Type]))
	for id := range b.handlers[e.Type] {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.handlers[e.Type][id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(e, h)
	}
}

func (b *Bus) dispatch(e Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", zap.String("event", string(e.Type)), zap.Any("panic", r))
		}
	}()
	h(e)
}
