package repos

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
)

// memoryStore keeps clones of every record so callers never share state
// with the store.
type memoryStore[D domain.Document] struct {
	mu        sync.RWMutex
	log       *logger.Logger
	byStorage map[uuid.UUID]D
	byDomain  map[int64]uuid.UUID
}

func newMemoryStore[D domain.Document](log *logger.Logger) *memoryStore[D] {
	return &memoryStore[D]{
		log:       log,
		byStorage: map[uuid.UUID]D{},
		byDomain:  map[int64]uuid.UUID{},
	}
}

func cloneDoc[D domain.Document](d D) D {
	return d.CloneDocument().(D)
}

func (s *memoryStore[D]) FindByStorageID(ctx context.Context, id uuid.UUID) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.byStorage[id]
	if !ok {
		return zero, ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (s *memoryStore[D]) Find(ctx context.Context, pred query.Predicate, skip, limit int) ([]D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]D, 0)
	for _, doc := range s.byStorage {
		if pred.Matches(doc) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].GetDomainID() < matched[j].GetDomainID() })
	if skip > len(matched) {
		skip = len(matched)
	}
	if skip > 0 {
		matched = matched[skip:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]D, 0, len(matched))
	for _, doc := range matched {
		out = append(out, cloneDoc(doc))
	}
	return out, nil
}

func (s *memoryStore[D]) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, doc := range s.byStorage {
		if pred.Matches(doc) {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore[D]) Insert(ctx context.Context, doc D) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	stored := cloneDoc(doc)
	if stored.GetStorageID() == uuid.Nil {
		stored.SetStorageID(uuid.New())
	}
	stored.Prepare()
	now := time.Now().UTC()
	stored.SetTimestamps(now, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byDomain[stored.GetDomainID()]; taken {
		return zero, ErrDuplicateDomainID
	}
	if _, taken := s.byStorage[stored.GetStorageID()]; taken {
		return zero, ErrDuplicateDomainID
	}
	s.byStorage[stored.GetStorageID()] = stored
	s.byDomain[stored.GetDomainID()] = stored.GetStorageID()
	return cloneDoc(stored), nil
}

func (s *memoryStore[D]) UpdateByStorageID(ctx context.Context, id uuid.UUID, doc D) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byStorage[id]
	if !ok {
		return zero, ErrNotFound
	}
	stored := cloneDoc(doc)
	stored.SetStorageID(id)
	stored.SetDomainID(existing.GetDomainID())
	stored.Prepare()
	created, _ := existing.Timestamps()
	stored.SetTimestamps(created, time.Now().UTC())
	s.byStorage[id] = stored
	return cloneDoc(stored), nil
}

func (s *memoryStore[D]) DeleteByStorageID(ctx context.Context, id uuid.UUID) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byStorage[id]
	if !ok {
		return zero, ErrNotFound
	}
	delete(s.byStorage, id)
	delete(s.byDomain, existing.GetDomainID())
	return existing, nil
}
