// Package orders manages the header/line aggregates: inbound orders and
// requisitions. A header and its lines are always written and read together.
package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"wms-backend/internal/apperr"
	"wms-backend/internal/audit"
	"wms-backend/internal/database"
	"wms-backend/internal/models"
	"wms-backend/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// linesField is the association name of the line list on every header.
const linesField = "Details"

// Line is the kind-independent view of a detail line.
type Line struct {
	ProductID   uint
	WarehouseID uint
	Quantity    int
	Product     *models.Product
	Warehouse   *models.Warehouse
}

// Ref is a row that must exist for a header to be stored.
type Ref struct {
	Name   string
	Model  interface{}
	Column string
	ID     uint
}

// Kind describes one header/line pair.
type Kind[H any, L any] struct {
	Name          string // "Order", used in error messages
	AuditType     string
	IDColumn      string
	OwnerColumn   string // line column holding the header id
	DateColumn    string
	DateParam     string // query parameter filtering on DateColumn
	QuantityField string
	SearchExprs   []string
	Expand        []string // preloads added when expand is requested

	HeaderID       func(*H) uint
	SetHeaderID    func(*H, uint)
	Lines          func(*H) []L
	SetLines       func(*H, []L)
	BindLine       func(*L, uint)
	LineFields     func(*L) Line
	ValidateHeader func(*H) error
	HeaderRefs     func(*H) []Ref
	UpdateValues   func(*H) map[string]interface{}

	// Export layout: header columns repeated on every line row.
	SheetName     string
	ExportColumns []string
	ExportRow     func(*H) []interface{}
}

type Manager[H any, L any] struct {
	db   *gorm.DB
	kind Kind[H, L]
}

func NewManager[H any, L any](db *gorm.DB, kind Kind[H, L]) *Manager[H, L] {
	return &Manager[H, L]{db: db, kind: kind}
}

func (m *Manager[H, L]) Kind() Kind[H, L] {
	return m.kind
}

// Create stores h and its lines in one transaction. The header id is
// always assigned by storage.
func (m *Manager[H, L]) Create(ctx context.Context, h *H) (*H, error) {
	if err := m.validate(h); err != nil {
		return nil, err
	}
	lines := m.kind.Lines(h)

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := m.checkRefs(tx, h); err != nil {
			return err
		}

		m.kind.SetHeaderID(h, 0)
		if err := tx.Omit(clause.Associations).Create(h).Error; err != nil {
			return m.writeError("create", err)
		}
		id := m.kind.HeaderID(h)

		if err := m.insertLines(tx, id, lines); err != nil {
			return err
		}
		m.kind.SetLines(h, nonNil(lines))

		return audit.Write(tx, audit.Entry{
			EntityType:  m.kind.AuditType,
			EntityID:    id,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s %d created with %d lines", m.kind.Name, id, len(lines)),
			After:       h,
		})
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Get returns the header with its lines ordered by product id.
func (m *Manager[H, L]) Get(ctx context.Context, id uint, expand bool) (*H, error) {
	var h *H
	err := m.read(ctx, func(tx *gorm.DB) error {
		var err error
		h, err = m.find(tx, id, expand)
		return err
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// List filters and pages headers (newest first) before loading their
// lines.
func (m *Manager[H, L]) List(ctx context.Context, f query.Filter) ([]H, error) {
	out := make([]H, 0)
	err := m.read(ctx, func(tx *gorm.DB) error {
		return m.preload(tx, f.Expand).
			Scopes(
				query.OnDate(m.kind.DateColumn, f.Date),
				query.Search(f.Q, m.kind.SearchExprs...),
				query.Paginate(f.Page),
			).
			Order(m.kind.IDColumn + " DESC").
			Find(&out).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", m.kind.Name, err)
	}
	for i := range out {
		m.kind.SetLines(&out[i], nonNil(m.kind.Lines(&out[i])))
	}
	return out, nil
}

// Update overwrites the header fields of id and replaces its whole line
// set with the lines of h.
func (m *Manager[H, L]) Update(ctx context.Context, id uint, h *H) (*H, error) {
	if err := m.validate(h); err != nil {
		return nil, err
	}
	lines := m.kind.Lines(h)

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := m.find(tx, id, false)
		if err != nil {
			return err
		}
		before, err := json.Marshal(existing)
		if err != nil {
			return fmt.Errorf("failed to snapshot %s: %w", m.kind.Name, err)
		}

		if err := m.checkRefs(tx, h); err != nil {
			return err
		}

		err = tx.Model(new(H)).
			Where(m.kind.IDColumn+" = ?", id).
			Updates(m.kind.UpdateValues(h)).Error
		if err != nil {
			return m.writeError("update", err)
		}

		if err := tx.Where(m.kind.OwnerColumn+" = ?", id).Delete(new(L)).Error; err != nil {
			return m.writeError("update", err)
		}
		if err := m.insertLines(tx, id, lines); err != nil {
			return err
		}

		m.kind.SetHeaderID(h, id)
		m.kind.SetLines(h, nonNil(lines))

		return audit.Write(tx, audit.Entry{
			EntityType:  m.kind.AuditType,
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("%s %d updated with %d lines", m.kind.Name, id, len(lines)),
			Before:      json.RawMessage(before),
			After:       h,
		})
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes the header and all of its lines.
func (m *Manager[H, L]) Delete(ctx context.Context, id uint) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := m.find(tx, id, false)
		if err != nil {
			return err
		}

		if err := tx.Where(m.kind.OwnerColumn+" = ?", id).Delete(new(L)).Error; err != nil {
			return m.writeError("delete", err)
		}
		if err := tx.Where(m.kind.IDColumn+" = ?", id).Delete(new(H)).Error; err != nil {
			return m.writeError("delete", err)
		}

		return audit.Write(tx, audit.Entry{
			EntityType:  m.kind.AuditType,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("%s %d deleted", m.kind.Name, id),
			Before:      existing,
		})
	})
}

// validate runs before any storage access.
func (m *Manager[H, L]) validate(h *H) error {
	if err := m.kind.ValidateHeader(h); err != nil {
		return err
	}

	lines := m.kind.Lines(h)
	seen := make(map[uint]bool, len(lines))
	for i := range lines {
		l := m.kind.LineFields(&lines[i])
		prefix := fmt.Sprintf("details[%d].", i)

		if l.ProductID == 0 {
			return apperr.Invalid(prefix+"ProductID", "must be greater than 0")
		}
		if l.WarehouseID == 0 {
			return apperr.Invalid(prefix+"WarehouseID", "must be greater than 0")
		}
		if l.Quantity <= 0 {
			return apperr.Invalid(prefix+m.kind.QuantityField, "must be greater than 0")
		}
		if seen[l.ProductID] {
			return apperr.Invalid(prefix+"ProductID", "duplicate product %d in details", l.ProductID)
		}
		seen[l.ProductID] = true
	}
	return nil
}

func (m *Manager[H, L]) checkRefs(tx *gorm.DB, h *H) error {
	refs := m.kind.HeaderRefs(h)
	lines := m.kind.Lines(h)
	for i := range lines {
		l := m.kind.LineFields(&lines[i])
		refs = append(refs,
			Ref{Name: "Product", Model: &models.Product{}, Column: "product_id", ID: l.ProductID},
			Ref{Name: "Warehouse", Model: &models.Warehouse{}, Column: "warehouse_id", ID: l.WarehouseID},
		)
	}

	checked := make(map[string]bool, len(refs))
	for _, ref := range refs {
		key := fmt.Sprintf("%s/%d", ref.Name, ref.ID)
		if checked[key] {
			continue
		}
		checked[key] = true

		var count int64
		if err := tx.Model(ref.Model).Where(ref.Column+" = ?", ref.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s %d: %w", ref.Name, ref.ID, err)
		}
		if count == 0 {
			return apperr.Reference("%s %d does not exist", ref.Name, ref.ID)
		}
	}
	return nil
}

func (m *Manager[H, L]) insertLines(tx *gorm.DB, id uint, lines []L) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		m.kind.BindLine(&lines[i], id)
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return m.writeError("store lines of", err)
	}
	return nil
}

func (m *Manager[H, L]) find(tx *gorm.DB, id uint, expand bool) (*H, error) {
	h := new(H)
	if err := m.preload(tx, expand).Where(m.kind.IDColumn+" = ?", id).First(h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(m.kind.Name)
		}
		return nil, fmt.Errorf("failed to get %s %d: %w", m.kind.Name, id, err)
	}
	m.kind.SetLines(h, nonNil(m.kind.Lines(h)))
	return h, nil
}

func (m *Manager[H, L]) preload(tx *gorm.DB, expand bool) *gorm.DB {
	q := tx.Preload(linesField, func(db *gorm.DB) *gorm.DB {
		return db.Order("product_id")
	})
	if expand {
		for _, p := range m.kind.Expand {
			q = q.Preload(p)
		}
	}
	return q
}

// read runs fn in one transaction; on PostgreSQL the snapshot is
// repeatable read so a header and its lines agree.
func (m *Manager[H, L]) read(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if database.IsPostgres(m.db) {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}
	return m.db.WithContext(ctx).Transaction(fn, opts...)
}

func (m *Manager[H, L]) writeError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Reference("%s references a missing row", m.kind.Name)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Invalid("details", "duplicate product in details")
	}
	return fmt.Errorf("failed to %s %s: %w", op, m.kind.Name, err)
}

func nonNil[L any](lines []L) []L {
	if lines == nil {
		return []L{}
	}
	return lines
}
