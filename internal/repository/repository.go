package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/room911/access-api/internal/apperrors"
	"github.com/room911/access-api/internal/models"
	"gorm.io/gorm"
)

// Scope narrows a query. Scopes are explicit values threaded through calls;
// a repository keeps no query state between operations.
type Scope func(*gorm.DB) *gorm.DB

// Where builds an exact-condition scope.
func Where(cond string, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(cond, args...)
	}
}

// ListQuery represents common pagination parameters
type ListQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		SortBy:  "created_at",
		SortDir: "desc",
	}
}

// Page is one page of records plus pagination metadata.
type Page[T any] struct {
	Records    []T   `json:"records"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
}

// Repository gives every record type uniform retrieval, filtering,
// pagination, and audited mutation. Instances are transient: construct one
// per unit of work from the transaction handle the response wrapper opened,
// and bind the acting user with WithUser before any mutating call.
type Repository[T models.Record] struct {
	db      *gorm.DB
	user    *models.User
	factory func() T
}

// New creates a repository over db for the record type produced by factory.
func New[T models.Record](db *gorm.DB, factory func() T) *Repository[T] {
	return &Repository[T]{db: db, factory: factory}
}

// WithUser returns a copy bound to the acting user recorded in audit columns.
func (r *Repository[T]) WithUser(user *models.User) *Repository[T] {
	return &Repository[T]{db: r.db, user: user, factory: r.factory}
}

func (r *Repository[T]) query(ctx context.Context, scopes ...Scope) *gorm.DB {
	db := r.db.WithContext(ctx).Model(r.factory())
	for _, s := range scopes {
		db = s(db)
	}
	return db
}

// All returns every record of the type, unfiltered.
func (r *Repository[T]) All(ctx context.Context, scopes ...Scope) ([]T, error) {
	var records []T
	if err := r.query(ctx, scopes...).Find(&records).Error; err != nil {
		return nil, apperrors.Query("all", err)
	}
	return records, nil
}

// AllActive returns records whose active attribute is true. Record types
// without such an attribute yield an empty result.
func (r *Repository[T]) AllActive(ctx context.Context) ([]T, error) {
	a, ok := any(r.factory()).(models.Activatable)
	if !ok {
		return []T{}, nil
	}
	return r.All(ctx, Where(a.ActiveField()+" = ?", true))
}

// Find probes for a record by id; absence is not an error.
func (r *Repository[T]) Find(ctx context.Context, id uint) (T, bool, error) {
	var zero T
	rec := r.factory()
	err := r.db.WithContext(ctx).First(rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, apperrors.Query("find", err)
	}
	return rec, true, nil
}

// FindAndGet returns the record or fails with ErrNotFound. Use it when the
// caller expects the record to exist.
func (r *Repository[T]) FindAndGet(ctx context.Context, id uint) (T, error) {
	rec, found, err := r.Find(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	if !found {
		var zero T
		return zero, fmt.Errorf("%w: id %d", apperrors.ErrNotFound, id)
	}
	return rec, nil
}

// FindBy returns the first record matching an exact column value.
func (r *Repository[T]) FindBy(ctx context.Context, column string, value any) (T, bool, error) {
	var zero T
	rec := r.factory()
	err := r.db.WithContext(ctx).Where(column+" = ?", value).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, apperrors.Query("find_by", err)
	}
	return rec, true, nil
}

// FilterByCreatedAt returns records created within [start, end]. A zero end
// collapses the range to [start, start].
func (r *Repository[T]) FilterByCreatedAt(ctx context.Context, start, end time.Time) ([]T, error) {
	if end.IsZero() {
		end = start
	}
	return r.All(ctx, Where("created_at BETWEEN ? AND ?", start, end))
}

// FilterByColumn returns records matching an exact column value.
func (r *Repository[T]) FilterByColumn(ctx context.Context, column string, value any) ([]T, error) {
	return r.All(ctx, Where(column+" = ?", value))
}

// OrderByColumn returns all records ordered by field; direction defaults to
// ascending.
func (r *Repository[T]) OrderByColumn(ctx context.Context, field, direction string) ([]T, error) {
	var records []T
	if err := r.query(ctx).Order(field + " " + sortDirection(direction, "asc")).Find(&records).Error; err != nil {
		return nil, apperrors.Query("order_by_column", err)
	}
	return records, nil
}

// Paginate is the universal listing primitive: concrete Search operations
// compose scopes and delegate here.
func (r *Repository[T]) Paginate(ctx context.Context, q *ListQuery, scopes ...Scope) (*Page[T], error) {
	if q == nil {
		q = NewListQuery()
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}

	db := r.query(ctx, scopes...)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, apperrors.Query("paginate", err)
	}

	var records []T
	err := db.Order(q.SortBy + " " + sortDirection(q.SortDir, "desc")).
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Query("paginate", err)
	}

	return &Page[T]{
		Records:    records,
		Total:      total,
		TotalPages: (total + int64(q.PerPage) - 1) / int64(q.PerPage),
		Page:       q.Page,
		PerPage:    q.PerPage,
	}, nil
}

// Store assigns every field present in data onto a new record, stamps
// created-by with the acting user, and persists. Unknown fields fail with
// InvalidField before any write.
func (r *Repository[T]) Store(ctx context.Context, data map[string]any) (T, error) {
	var zero T
	if r.user == nil {
		return zero, apperrors.ErrActingUserRequired
	}

	rec := r.factory()
	for field, value := range data {
		if err := rec.Assign(field, value); err != nil {
			return zero, err
		}
	}

	rec.AuditRef().CreatedByID = &r.user.ID
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return zero, apperrors.Query("store", err)
	}
	return rec, nil
}

// Update assigns every field present in data onto record, stamps updated-by,
// and persists. Fields absent from data are unchanged.
func (r *Repository[T]) Update(ctx context.Context, record T, data map[string]any) (T, error) {
	var zero T
	if r.user == nil {
		return zero, apperrors.ErrActingUserRequired
	}

	for field, value := range data {
		if err := record.Assign(field, value); err != nil {
			return zero, err
		}
	}

	record.AuditRef().UpdatedByID = &r.user.ID
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return zero, apperrors.Query("update", err)
	}
	return record, nil
}

// Delete stamps deleted-by and soft-deletes the record.
func (r *Repository[T]) Delete(ctx context.Context, record T) error {
	if r.user == nil {
		return apperrors.ErrActingUserRequired
	}

	if err := r.db.WithContext(ctx).Model(record).UpdateColumn("uw_deleted", r.user.ID).Error; err != nil {
		return apperrors.Query("delete", err)
	}
	if err := r.db.WithContext(ctx).Delete(record).Error; err != nil {
		return apperrors.Query("delete", err)
	}
	return nil
}

// IsDuplicate reports whether err is a uniqueness violation from the store.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func sortDirection(dir, fallback string) string {
	switch strings.ToLower(dir) {
	case "asc":
		return "ASC"
	case "desc":
		return "DESC"
	default:
		if fallback == "desc" {
			return "DESC"
		}
		return "ASC"
	}
}
