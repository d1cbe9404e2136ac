package out

import (
	"context"

	"studydesk/internal/modules/session/domain"
	sessionout "studydesk/internal/modules/session/port/out"
	"studydesk/internal/platform/kv"
)

const sessionKey = "session"

type KVSessionStore struct {
	store *kv.Store
}

func NewKVSessionStore(store *kv.Store) sessionout.SessionStore {
	return &KVSessionStore{store: store}
}

func (s *KVSessionStore) Load(ctx context.Context) (domain.StudySession, bool, error) {
	sess, ok, err := kv.Load[domain.StudySession](ctx, s.store, sessionKey)
	if err != nil || !ok || sess.SessionID == "" {
		return domain.StudySession{}, false, err
	}
	return sess, true, nil
}

func (s *KVSessionStore) Mutate(ctx context.Context, fn func(cur *domain.StudySession, found bool) (sessionout.Decision, error)) error {
	return kv.Update(ctx, s.store, sessionKey, func(cur *domain.StudySession, exists bool) (kv.Op, error) {
		decision, err := fn(cur, exists && cur.SessionID != "")
		if err != nil {
			return kv.Keep, err
		}
		switch decision {
		case sessionout.Save:
			return kv.Put, nil
		case sessionout.Remove:
			return kv.Delete, nil
		default:
			return kv.Keep, nil
		}
	})
}
