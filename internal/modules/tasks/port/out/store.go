package out

import (
	"context"

	"studydesk/internal/modules/tasks/domain"
)

// Store persists the whole task list. Update is an atomic read-modify-write;
// an error from fn leaves the stored list untouched.
type Store interface {
	Load(ctx context.Context) (domain.List, error)
	Update(ctx context.Context, fn func(domain.List) (domain.List, error)) error
}
