package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
)

type gormStore[D domain.Document] struct {
	db     *gorm.DB
	log    *logger.Logger
	newDoc func() D
}

func newGormStore[D domain.Document](db *gorm.DB, log *logger.Logger, newDoc func() D) *gormStore[D] {
	return &gormStore[D]{db: db, log: log, newDoc: newDoc}
}

func (s *gormStore[D]) FindByStorageID(ctx context.Context, id uuid.UUID) (D, error) {
	var zero D
	var rows []D
	if err := s.db.WithContext(ctx).
		Where("storage_id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return rows[0], nil
}

func (s *gormStore[D]) Find(ctx context.Context, pred query.Predicate, skip, limit int) ([]D, error) {
	q := s.db.WithContext(ctx).
		Model(s.newDoc()).
		Scopes(pred.Scope).
		Order("domain_id ASC")
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []D
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormStore[D]) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).
		Model(s.newDoc()).
		Scopes(pred.Scope).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *gormStore[D]) Insert(ctx context.Context, doc D) (D, error) {
	if doc.GetStorageID() == uuid.Nil {
		doc.SetStorageID(uuid.New())
	}
	doc.Prepare()
	now := time.Now().UTC()
	doc.SetTimestamps(now, now)

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		var zero D
		return zero, translateError(err)
	}
	return doc, nil
}

func (s *gormStore[D]) UpdateByStorageID(ctx context.Context, id uuid.UUID, doc D) (D, error) {
	var zero D
	doc.SetStorageID(id)
	doc.Prepare()
	created, _ := doc.Timestamps()
	doc.SetTimestamps(created, time.Now().UTC())

	res := s.db.WithContext(ctx).
		Model(s.newDoc()).
		Where("storage_id = ?", id).
		Select("*").
		Omit("storage_id", "domain_id", "created_at").
		Updates(doc)
	if res.Error != nil {
		return zero, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return zero, ErrNotFound
	}
	return s.FindByStorageID(ctx, id)
}

func (s *gormStore[D]) DeleteByStorageID(ctx context.Context, id uuid.UUID) (D, error) {
	var zero D
	existing, err := s.FindByStorageID(ctx, id)
	if err != nil {
		return zero, err
	}
	res := s.db.WithContext(ctx).
		Where("storage_id = ?", id).
		Delete(s.newDoc())
	if res.Error != nil {
		return zero, res.Error
	}
	if res.RowsAffected == 0 {
		return zero, ErrNotFound
	}
	return existing, nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateDomainID
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateDomainID
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
		return ErrDuplicateDomainID
	}
	return err
}
