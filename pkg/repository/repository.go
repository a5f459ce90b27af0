package repository

import (
	"context"

	"cashback-ledger/pkg/db/option"

	"gorm.io/gorm"
)

// Repository is the generic ledger store used by every service. Lookups
// return (nil, nil) when no row matches so callers decide which error kind
// a missing record maps to.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	FindByID(ctx context.Context, id any, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	BatchCreate(ctx context.Context, resources []*T) error
	UpdateWhere(ctx context.Context, query *T, updates any, opts ...option.QueryOption) (int64, error)
	Delete(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
}

type store[T any] struct {
	db *gorm.DB
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	if tx == nil {
		return s
	}
	return &store[T]{db: tx}
}

func (s *store[T]) scoped(ctx context.Context, opts []option.QueryOption) *gorm.DB {
	db := s.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

func (s *store[T]) Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error) {
	out := make([]*T, 0)
	db := s.scoped(ctx, opts).Model(new(T))
	if query != nil {
		db = db.Where(query)
	}
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *store[T]) FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error) {
	var out T
	db := s.scoped(ctx, opts)
	if query != nil {
		db = db.Where(query)
	}
	res := db.Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (s *store[T]) FindByID(ctx context.Context, id any, opts ...option.QueryOption) (*T, error) {
	var out T
	res := s.scoped(ctx, opts).Where("id = ?", id).Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (s *store[T]) Create(ctx context.Context, resource *T) error {
	return s.db.WithContext(ctx).Create(resource).Error
}

func (s *store[T]) BatchCreate(ctx context.Context, resources []*T) error {
	if len(resources) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(resources, 100).Error
}

// UpdateWhere applies updates to every row matching query and returns the
// number of rows touched. Guarded updates (e.g. balance = ?) report zero
// when the guard fails.
func (s *store[T]) UpdateWhere(ctx context.Context, query *T, updates any, opts ...option.QueryOption) (int64, error) {
	db := s.scoped(ctx, opts).Model(new(T))
	if query != nil {
		db = db.Where(query)
	}
	res := db.Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *store[T]) Delete(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error) {
	db := s.scoped(ctx, opts)
	if query != nil {
		db = db.Where(query)
	}
	res := db.Delete(new(T))
	return res.RowsAffected, res.Error
}

// Transaction runs fn inside a storage transaction. A nil return commits,
// an error or a panic rolls back.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
