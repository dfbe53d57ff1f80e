// Package catalog manages the standalone entities: products, suppliers,
// warehouses and staff.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wms-backend/internal/apperr"
	"wms-backend/internal/audit"
	"wms-backend/internal/models"
	"wms-backend/internal/query"

	"gorm.io/gorm"
)

// Reference is a column in another table that points at an entity.
type Reference struct {
	Table  string
	Column string
	Label  string
}

// Entity describes how a catalog table is addressed, searched and
// referenced.
type Entity[T any] struct {
	Name          string // "Product", used in error messages
	AuditType     string // "product"
	IDColumn      string
	SearchColumns []string
	References    []Reference
	ID            func(*T) uint
	Label         func(*T) string
}

type Repository[T any] struct {
	db     *gorm.DB
	entity Entity[T]
}

func NewRepository[T any](db *gorm.DB, entity Entity[T]) *Repository[T] {
	return &Repository[T]{db: db, entity: entity}
}

func (r *Repository[T]) Entity() Entity[T] {
	return r.entity
}

func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", r.entity.Name, err)
		}
		return audit.Write(tx, audit.Entry{
			EntityType:  r.entity.AuditType,
			EntityID:    r.entity.ID(rec),
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s created: %s", r.entity.Name, r.entity.Label(rec)),
			After:       rec,
		})
	})
}

func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *Repository[T]) List(ctx context.Context, f query.Filter) ([]T, error) {
	out := make([]T, 0)
	err := r.db.WithContext(ctx).
		Scopes(query.Search(f.Q, r.entity.SearchColumns...), query.Paginate(f.Page)).
		Order(r.entity.IDColumn + " DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.entity.Name, err)
	}
	return out, nil
}

// Update applies changes (column -> value) and returns the stored record.
// An empty change set returns the record untouched.
func (r *Repository[T]) Update(ctx context.Context, id uint, changes map[string]interface{}) (*T, error) {
	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.find(tx, id)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			updated = rec
			return nil
		}

		before, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to snapshot %s: %w", r.entity.Name, err)
		}
		if err := tx.Model(rec).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update %s: %w", r.entity.Name, err)
		}
		if updated, err = r.find(tx, id); err != nil {
			return err
		}

		return audit.Write(tx, audit.Entry{
			EntityType:  r.entity.AuditType,
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("%s updated: %s", r.entity.Name, r.entity.Label(updated)),
			Before:      json.RawMessage(before),
			After:       updated,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the record unless another table still references it.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.find(tx, id)
		if err != nil {
			return err
		}

		for _, ref := range r.entity.References {
			var count int64
			if err := tx.Table(ref.Table).Where(ref.Column+" = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check references to %s: %w", r.entity.Name, err)
			}
			if count > 0 {
				return apperr.Reference("cannot delete: %s is referenced by %s", r.entity.Name, ref.Label)
			}
		}

		if err := tx.Delete(rec).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperr.Reference("cannot delete: %s is still referenced", r.entity.Name)
			}
			return fmt.Errorf("failed to delete %s: %w", r.entity.Name, err)
		}

		return audit.Write(tx, audit.Entry{
			EntityType:  r.entity.AuditType,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("%s deleted: %s", r.entity.Name, r.entity.Label(rec)),
			Before:      rec,
		})
	})
}

func (r *Repository[T]) find(db *gorm.DB, id uint) (*T, error) {
	rec := new(T)
	if err := db.Where(r.entity.IDColumn+" = ?", id).First(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(r.entity.Name)
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.entity.Name, err)
	}
	return rec, nil
}
