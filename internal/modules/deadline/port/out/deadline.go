package out

import (
	"context"

	"studydesk/internal/modules/deadline/domain"
)

// CatalogSource supplies the read-only course and assignment table.
type CatalogSource interface {
	Load(ctx context.Context) (domain.Catalog, error)
}
