package out

import (
	"context"

	"studydesk/internal/modules/tasks/domain"
	tasksout "studydesk/internal/modules/tasks/port/out"
	"studydesk/internal/platform/kv"
)

const tasksKey = "tasks"

type KVTaskStore struct {
	store *kv.Store
}

func NewKVTaskStore(store *kv.Store) tasksout.Store {
	return &KVTaskStore{store: store}
}

func (s *KVTaskStore) Load(ctx context.Context) (domain.List, error) {
	l, _, err := kv.Load[domain.List](ctx, s.store, tasksKey)
	return l, err
}

func (s *KVTaskStore) Update(ctx context.Context, fn func(domain.List) (domain.List, error)) error {
	return kv.Update(ctx, s.store, tasksKey, func(cur *domain.List, _ bool) (kv.Op, error) {
		next, err := fn(*cur)
		if err != nil {
			return kv.Keep, err
		}
		if len(next) == 0 {
			return kv.Delete, nil
		}
		*cur = next
		return kv.Put, nil
	})
}
