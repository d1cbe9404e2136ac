package kv_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studydesk/internal/platform/events"
	"studydesk/internal/platform/kv"
)

type flakyBackend struct {
	*kv.MemoryBackend
	mu   sync.Mutex
	fail bool
}

func newFlaky() *flakyBackend {
	return &flakyBackend{MemoryBackend: kv.NewMemoryBackend()}
}

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *flakyBackend) broken() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail
}

func (f *flakyBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if f.broken() {
		return nil, false, errors.New("quota exceeded")
	}
	return f.MemoryBackend.Load(ctx, key)
}

func (f *flakyBackend) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.broken() {
		return errors.New("quota exceeded")
	}
	return f.MemoryBackend.Save(ctx, key, value)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

type blob struct {
	Count int `json:"count"`
}

func TestStoreNamespacesKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	store := kv.New(backend, "term1")

	require.NoError(t, store.Set(ctx, "progress", blob{Count: 2}))

	raw, ok, err := backend.Load(ctx, "term1:progress")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"count":2}`, string(raw))

	got, ok, err := kv.Load[blob](ctx, store, "progress")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.Count)
}

func TestStoreTreatsMalformedValueAsAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, "ns:progress", []byte("{not json")))
	store := kv.New(backend, "ns")

	var b blob
	ok, err := store.Get(ctx, "progress", &b)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, store.Degraded())
}

func TestStoreDegradesOnceAndKeepsServing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := newFlaky()
	rec := &recorder{}
	store := kv.New(backend, "ns", kv.WithPublisher(rec))

	require.NoError(t, store.Set(ctx, "a", blob{Count: 1}))
	backend.setFail(true)

	require.NoError(t, store.Set(ctx, "b", blob{Count: 2}))
	require.NoError(t, store.Set(ctx, "c", blob{Count: 3}))

	a, ok, err := kv.Load[blob](ctx, store, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, a.Count)

	c, ok, err := kv.Load[blob](ctx, store, "c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, c.Count)

	require.Error(t, store.Degraded())
	assert.True(t, kv.IsUnavailable(store.Degraded()))
	require.Len(t, rec.events, 1)
	assert.Equal(t, events.StoreDegraded, rec.events[0].Type)

	// recovery of the backend does not switch back mid-run
	backend.setFail(false)
	require.NoError(t, store.Set(ctx, "d", blob{Count: 4}))
	_, ok, err = backend.Load(ctx, "ns:d")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateIsAtomicPerKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.New(kv.NewMemoryBackend(), "ns")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := kv.Update(ctx, store, "counter", func(cur *blob, _ bool) (kv.Op, error) {
				cur.Count++
				return kv.Put, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, ok, err := kv.Load[blob](ctx, store, "counter")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 50, got.Count)
}

func TestUpdateOps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.New(kv.NewMemoryBackend(), "ns")
	require.NoError(t, store.Set(ctx, "k", blob{Count: 7}))

	err := kv.Update(ctx, store, "k", func(cur *blob, exists bool) (kv.Op, error) {
		require.True(t, exists)
		cur.Count = 100
		return kv.Keep, nil
	})
	require.NoError(t, err)
	got, _, _ := kv.Load[blob](ctx, store, "k")
	assert.Equal(t, 7, got.Count)

	boom := errors.New("boom")
	err = kv.Update(ctx, store, "k", func(*blob, bool) (kv.Op, error) { return kv.Put, boom })
	require.ErrorIs(t, err, boom)

	require.NoError(t, kv.Update(ctx, store, "k", func(*blob, bool) (kv.Op, error) { return kv.Delete, nil }))
	_, ok, err := kv.Load[blob](ctx, store, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Update(ctx, store, "never", func(_ *blob, exists bool) (kv.Op, error) {
		assert.False(t, exists)
		return kv.Delete, nil
	}))
}

func TestCanceledContextDoesNotDegrade(t *testing.T) {
	t.Parallel()
	backend := newFlaky()
	rec := &recorder{}
	store := kv.New(backend, "ns", kv.WithPublisher(rec))
	require.NoError(t, store.Set(context.Background(), "a", blob{Count: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b blob
	_, err := store.Get(ctx, "a", &b)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Set(ctx, "a", blob{Count: 2}), context.Canceled)

	assert.NoError(t, store.Degraded())
	assert.Empty(t, rec.events)

	got, ok, err := kv.Load[blob](context.Background(), store, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got.Count)
}
