package out

import (
	"context"

	"studydesk/internal/modules/progress/domain"
	progressout "studydesk/internal/modules/progress/port/out"
	"studydesk/internal/platform/kv"
)

const ledgerKey = "progress"

type KVLedgerStore struct {
	store *kv.Store
}

func NewKVLedgerStore(store *kv.Store) progressout.LedgerStore {
	return &KVLedgerStore{store: store}
}

func (s *KVLedgerStore) Load(ctx context.Context) (domain.Ledger, error) {
	l, ok, err := kv.Load[domain.Ledger](ctx, s.store, ledgerKey)
	if err != nil {
		return nil, err
	}
	if !ok || l == nil {
		return domain.Ledger{}, nil
	}
	l.Recompute()
	return l, nil
}

func (s *KVLedgerStore) Update(ctx context.Context, fn func(domain.Ledger) (bool, error)) error {
	return kv.Update(ctx, s.store, ledgerKey, func(cur *domain.Ledger, _ bool) (kv.Op, error) {
		if *cur == nil {
			*cur = domain.Ledger{}
		}
		cur.Recompute()
		write, err := fn(*cur)
		if err != nil || !write {
			return kv.Keep, err
		}
		return kv.Put, nil
	})
}

func (s *KVLedgerStore) Clear(ctx context.Context) error {
	return s.store.Remove(ctx, ledgerKey)
}
