package relation

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository persists relation edges.
type Repository interface {
	Add(ctx context.Context, kind Kind, subjectID, objectID int64) (*Edge, error)
	Remove(ctx context.Context, kind Kind, subjectID, objectID int64) error
	Exists(ctx context.Context, kind Kind, subjectID, objectID int64) (bool, error)
	ListObjectIDs(ctx context.Context, kind Kind, subjectID int64) ([]int64, error)
	CountByObject(ctx context.Context, kind Kind, objectID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Add inserts the edge and relies on the unique index to reject duplicates.
// No prior existence check: a SELECT-then-INSERT would race with a concurrent
// add for the same pair.
func (r *repository) Add(ctx context.Context, kind Kind, subjectID, objectID int64) (*Edge, error) {
	edge := &Edge{
		Kind:      kind,
		SubjectID: subjectID,
		ObjectID:  objectID,
	}
	err := r.db.WithContext(ctx).Create(edge).Error
	if err != nil {
		if isDuplicateError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return edge, nil
}

func (r *repository) Remove(ctx context.Context, kind Kind, subjectID, objectID int64) error {
	result := r.db.WithContext(ctx).
		Where("kind = ? AND subject_id = ? AND object_id = ?", kind, subjectID, objectID).
		Delete(&Edge{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEdgeNotFound
	}
	return nil
}

func (r *repository) Exists(ctx context.Context, kind Kind, subjectID, objectID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Edge{}).
		Where("kind = ? AND subject_id = ? AND object_id = ?", kind, subjectID, objectID).
		Count(&count).Error
	return count > 0, err
}

// ListObjectIDs returns the subject's objects in insertion order, which keeps
// downstream iteration deterministic.
func (r *repository) ListObjectIDs(ctx context.Context, kind Kind, subjectID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&Edge{}).
		Where("kind = ? AND subject_id = ?", kind, subjectID).
		Order("id").
		Pluck("object_id", &ids).Error
	return ids, err
}

func (r *repository) CountByObject(ctx context.Context, kind Kind, objectID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Edge{}).
		Where("kind = ? AND object_id = ?", kind, objectID).
		Count(&count).Error
	return count, err
}

// isDuplicateError recognizes unique-constraint violations. TranslateError on
// the gorm config covers the common cases; the pgconn code and the message
// match are backstops for driver errors that bypass translation (the pure-Go
// sqlite driver reports "UNIQUE constraint failed" untranslated).
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
