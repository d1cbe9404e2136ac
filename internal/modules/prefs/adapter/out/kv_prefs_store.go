package out

import (
	"context"

	"studydesk/internal/modules/prefs/domain"
	prefsout "studydesk/internal/modules/prefs/port/out"
	"studydesk/internal/platform/kv"
)

const (
	breakKey   = "prefs:break"
	focusKey   = "prefs:focus"
	readingKey = "prefs:reading"
	remindKey  = "prefs:reminders"
)

type KVPrefsStore struct {
	store *kv.Store
}

func NewKVPrefsStore(store *kv.Store) prefsout.Store {
	return &KVPrefsStore{store: store}
}

func (s *KVPrefsStore) Break(ctx context.Context) (domain.Break, bool, error) {
	return kv.Load[domain.Break](ctx, s.store, breakKey)
}

func (s *KVPrefsStore) SaveBreak(ctx context.Context, b domain.Break) error {
	return s.store.Set(ctx, breakKey, b)
}

func (s *KVPrefsStore) Focus(ctx context.Context) (domain.Focus, bool, error) {
	return kv.Load[domain.Focus](ctx, s.store, focusKey)
}

func (s *KVPrefsStore) SaveFocus(ctx context.Context, f domain.Focus) error {
	return s.store.Set(ctx, focusKey, f)
}

func (s *KVPrefsStore) Reading(ctx context.Context) (domain.Reading, bool, error) {
	return kv.Load[domain.Reading](ctx, s.store, readingKey)
}

func (s *KVPrefsStore) SaveReading(ctx context.Context, r domain.Reading) error {
	return s.store.Set(ctx, readingKey, r)
}

func (s *KVPrefsStore) Dismissals(ctx context.Context) (domain.Dismissals, error) {
	d, _, err := kv.Load[domain.Dismissals](ctx, s.store, remindKey)
	return d, err
}

func (s *KVPrefsStore) UpdateDismissals(ctx context.Context, fn func(domain.Dismissals) domain.Dismissals) error {
	return kv.Update(ctx, s.store, remindKey, func(cur *domain.Dismissals, _ bool) (kv.Op, error) {
		next := fn(*cur)
		if len(next) == 0 {
			return kv.Delete, nil
		}
		*cur = next
		return kv.Put, nil
	})
}

func (s *KVPrefsStore) Reset(ctx context.Context) error {
	for _, key := range []string{breakKey, focusKey, readingKey, remindKey} {
		if err := s.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
