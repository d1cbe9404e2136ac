package out

import (
	"context"

	"studydesk/internal/modules/session/domain"
	sessionout "studydesk/internal/modules/session/port/out"
	"studydesk/internal/platform/kv"
)

const (
	historyKey = "study-history"
	daysKey    = "study-days"
)

type KVHistoryStore struct {
	store *kv.Store
}

func NewKVHistoryStore(store *kv.Store) sessionout.HistoryStore {
	return &KVHistoryStore{store: store}
}

func (s *KVHistoryStore) Load(ctx context.Context) (domain.History, error) {
	h, _, err := kv.Load[domain.History](ctx, s.store, historyKey)
	return h, err
}

func (s *KVHistoryStore) Update(ctx context.Context, fn func(domain.History) domain.History) error {
	return kv.Update(ctx, s.store, historyKey, func(cur *domain.History, _ bool) (kv.Op, error) {
		*cur = fn(*cur)
		return kv.Put, nil
	})
}

func (s *KVHistoryStore) Days(ctx context.Context) (domain.StudyDays, error) {
	d, _, err := kv.Load[domain.StudyDays](ctx, s.store, daysKey)
	return d, err
}

func (s *KVHistoryStore) MarkDay(ctx context.Context, date string) error {
	return kv.Update(ctx, s.store, daysKey, func(cur *domain.StudyDays, _ bool) (kv.Op, error) {
		*cur = cur.Mark(date)
		return kv.Put, nil
	})
}
