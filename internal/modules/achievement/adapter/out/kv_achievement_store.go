package out

import (
	"context"

	"studydesk/internal/modules/achievement/domain"
	achievementout "studydesk/internal/modules/achievement/port/out"
	"studydesk/internal/platform/kv"
)

const (
	earnedKey  = "achievements:earned"
	historyKey = "achievements:history"
)

type KVAchievementStore struct {
	store *kv.Store
}

func NewKVAchievementStore(store *kv.Store) achievementout.Store {
	return &KVAchievementStore{store: store}
}

func (s *KVAchievementStore) Earned(ctx context.Context) (domain.Earned, error) {
	e, ok, err := kv.Load[domain.Earned](ctx, s.store, earnedKey)
	if err != nil {
		return nil, err
	}
	if !ok || e == nil {
		return domain.Earned{}, nil
	}
	return e, nil
}

func (s *KVAchievementStore) History(ctx context.Context) (domain.History, error) {
	h, _, err := kv.Load[domain.History](ctx, s.store, historyKey)
	return h, err
}

// Record claims the id in the earned set first; only the caller that claims
// it appends to history.
func (s *KVAchievementStore) Record(ctx context.Context, a domain.Achievement, historyCap int) (bool, error) {
	claimed := false
	err := kv.Update(ctx, s.store, earnedKey, func(cur *domain.Earned, _ bool) (kv.Op, error) {
		if *cur == nil {
			*cur = domain.Earned{}
		}
		if cur.Has(a.ID) {
			return kv.Keep, nil
		}
		(*cur)[a.ID] = a.EarnedAt
		claimed = true
		return kv.Put, nil
	})
	if err != nil || !claimed {
		return false, err
	}
	err = kv.Update(ctx, s.store, historyKey, func(cur *domain.History, _ bool) (kv.Op, error) {
		*cur = cur.Append(a, historyCap)
		return kv.Put, nil
	})
	return true, err
}
