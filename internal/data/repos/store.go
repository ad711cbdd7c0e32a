package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/query"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateDomainID = errors.New("domain id already exists")
)

// Store is the per-collection entity store. Results of Find are ordered by
// domain id ascending. A limit <= 0 returns every record after skip.
type Store[D domain.Document] interface {
	FindByStorageID(ctx context.Context, id uuid.UUID) (D, error)
	Find(ctx context.Context, pred query.Predicate, skip, limit int) ([]D, error)
	Count(ctx context.Context, pred query.Predicate) (int64, error)
	// Insert assigns a storage id when doc has none.
	Insert(ctx context.Context, doc D) (D, error)
	// UpdateByStorageID overwrites every mutable column. The stored domain id
	// and creation time are kept.
	UpdateByStorageID(ctx context.Context, id uuid.UUID, doc D) (D, error)
	// DeleteByStorageID returns the removed record.
	DeleteByStorageID(ctx context.Context, id uuid.UUID) (D, error)
}

// FindByDomainIDs loads every record whose domain id is in ids. Missing ids
// are simply absent from the result.
func FindByDomainIDs[D domain.Document](ctx context.Context, s Store[D], ids []int64) ([]D, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.Find(ctx, query.Predicate{}.And(query.DomainIDIn(ids)), 0, 0)
}
