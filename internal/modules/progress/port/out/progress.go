package out

import (
	"context"

	"studydesk/internal/modules/progress/domain"
)

// LedgerStore persists the ledger document. Update holds the document lock
// for the whole read-modify-write; fn reports whether to write the result.
type LedgerStore interface {
	Load(ctx context.Context) (domain.Ledger, error)
	Update(ctx context.Context, fn func(domain.Ledger) (bool, error)) error
	Clear(ctx context.Context) error
}

// ChapterOrder lists known chapter ids in curriculum order.
type ChapterOrder interface {
	ChapterOrder(ctx context.Context) ([]string, error)
}
