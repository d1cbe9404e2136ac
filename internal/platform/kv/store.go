package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"studydesk/internal/platform/clock"
	apperrors "studydesk/internal/platform/errors"
	"studydesk/internal/platform/events"
)

// Op tells Update what to do with the value after fn returns.
type Op int

const (
	Keep Op = iota
	Put
	Delete
)

// Store is a namespaced JSON store over a Backend. Every successful write is
// mirrored in memory; when the backend fails the store switches to the
// mirror for the rest of the process and reports it once.
type Store struct {
	backend   Backend
	mirror    *MemoryBackend
	namespace string
	logger    *zap.Logger
	publisher events.Publisher
	clock     clock.Clock

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	degraded error
}

type Option func(*Store)

func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func New(backend Backend, namespace string, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		mirror:    NewMemoryBackend(),
		namespace: namespace,
		logger:    zap.NewNop(),
		clock:     clock.SystemClock{},
		locks:     map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Degraded reports the failure that moved the store onto its memory mirror.
func (s *Store) Degraded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Store) BackendName() string {
	return s.backend.Name()
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Get decodes the value under key into dest. Missing and malformed values
// both report false.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	unlock := s.lock(key)
	defer unlock()
	return s.get(ctx, key, dest)
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	unlock := s.lock(key)
	defer unlock()
	return s.set(ctx, key, value)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	unlock := s.lock(key)
	defer unlock()
	return s.remove(ctx, key)
}

// Update runs a read-modify-write of key while holding the key's lock. fn
// receives the current value (zero when absent) and edits it in place.
func Update[T any](ctx context.Context, s *Store, key string, fn func(cur *T, exists bool) (Op, error)) error {
	unlock := s.lock(key)
	defer unlock()

	var cur T
	exists, err := s.get(ctx, key, &cur)
	if err != nil {
		return err
	}
	op, err := fn(&cur, exists)
	if err != nil {
		return err
	}
	switch op {
	case Put:
		return s.set(ctx, key, cur)
	case Delete:
		if !exists {
			return nil
		}
		return s.remove(ctx, key)
	default:
		return nil
	}
}

// Load is Get with a typed result.
func Load[T any](ctx context.Context, s *Store, key string) (T, bool, error) {
	var v T
	ok, err := s.Get(ctx, key, &v)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

func (s *Store) get(ctx context.Context, key string, dest any) (bool, error) {
	full := s.qualify(key)
	raw, ok, err := s.active().Load(ctx, full)
	if err != nil {
		if cerr := canceled(ctx, err); cerr != nil {
			return false, cerr
		}
		s.degrade(err)
		raw, ok, err = s.mirror.Load(ctx, full)
		if err != nil {
			return false, err
		}
	} else if ok {
		_ = s.mirror.Save(ctx, full, raw)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("ignoring malformed stored value",
			zap.String("key", full),
			zap.Error(fmt.Errorf("%w: %v", apperrors.ErrMalformedData, err)))
		return false, nil
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	full := s.qualify(key)
	if s.Degraded() == nil {
		if err := s.backend.Save(ctx, full, raw); err != nil {
			if cerr := canceled(ctx, err); cerr != nil {
				return cerr
			}
			s.degrade(err)
		}
	}
	return s.mirror.Save(ctx, full, raw)
}

func (s *Store) remove(ctx context.Context, key string) error {
	full := s.qualify(key)
	if s.Degraded() == nil {
		if err := s.backend.Delete(ctx, full); err != nil {
			if cerr := canceled(ctx, err); cerr != nil {
				return cerr
			}
			s.degrade(err)
		}
	}
	return s.mirror.Delete(ctx, full)
}

// canceled reports a failure caused by the caller's context rather than the
// backend; those never degrade the store.
func canceled(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (s *Store) active() Backend {
	if s.Degraded() != nil {
		return s.mirror
	}
	return s.backend
}

// MarkDegraded switches to the memory mirror without a backend call having
// failed first, e.g. when the backend could not be opened at all.
func (s *Store) MarkDegraded(cause error) {
	s.degrade(cause)
}

// degrade publishes while the caller still holds a key lock; StoreDegraded
// handlers must not call back into the store.
func (s *Store) degrade(cause error) {
	s.mu.Lock()
	if s.degraded != nil {
		s.mu.Unlock()
		return
	}
	s.degraded = fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, cause)
	s.mu.Unlock()

	s.logger.Warn("storage unavailable, keeping state in memory for this run",
		zap.String("backend", s.backend.Name()), zap.Error(cause))
	if s.publisher != nil {
		s.publisher.Publish(events.Event{
			Type:    events.StoreDegraded,
			At:      s.clock.Now(),
			Payload: events.DegradedPayload{Backend: s.backend.Name(), Reason: cause.Error()},
		})
	}
}

func (s *Store) qualify(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *Store) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// IsUnavailable reports whether err came from a failed backend.
func IsUnavailable(err error) bool {
	return errors.Is(err, apperrors.ErrStorageUnavailable)
}
