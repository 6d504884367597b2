// Package records is the dynamic CRUD engine. Every business endpoint funnels
// its reads and writes through here: table names are checked against the
// schema registry, column names against the table's whitelist, and values are
// always bound as parameters.
package records

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"backoffice/internal/schema"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// protectedFields are never accepted from a client payload. updated_at is
// handled separately: it is always server-set on every write.
var protectedFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"created_by": true,
	"updated_at": true,
}

// Change describes a committed mutation, consumed by the audit trail and the
// websocket broadcaster.
type Change struct {
	Table  string
	Action string // create, update, delete
	ID     int64
}

type Store struct {
	db       *gorm.DB
	registry *schema.Registry
	log      *zap.Logger
	onChange func(ctx context.Context, ch Change)
}

func NewStore(db *gorm.DB, registry *schema.Registry, log *zap.Logger) *Store {
	return &Store{db: db, registry: registry, log: log}
}

// SetChangeHook registers a callback fired after every successful mutation.
func (s *Store) SetChangeHook(fn func(ctx context.Context, ch Change)) {
	s.onChange = fn
}

func (s *Store) table(name string) (*schema.Table, error) {
	t, ok := s.registry.Table(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotAllowed, name)
	}
	return t, nil
}

// sanitize validates payload keys against the table whitelist, drops
// protected and non-writable columns and normalizes empty strings to NULL so
// a cleared dropdown never trips a foreign key constraint.
func sanitize(t *schema.Table, fields map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if protectedFields[key] {
			continue
		}
		column, ok := t.Column(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotAllowed, key)
		}
		if !column.Writable {
			continue
		}
		if str, isString := value.(string); isString && str == "" {
			value = nil
		}
		out[column.Name] = value
	}
	return out, nil
}

// List returns every row of a whitelisted table. There is no SQL-level
// pagination; grids paginate client-side.
func (s *Store) List(ctx context.Context, table, orderBy string) ([]map[string]interface{}, error) {
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	order := "id asc"
	if orderBy != "" {
		if order, err = t.OrderExpr(orderBy); err != nil {
			return nil, err
		}
	}

	var rows []map[string]interface{}
	if err := s.db.WithContext(ctx).Table(t.Name).Order(order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name, err)
	}
	return rows, nil
}

// Get returns a single row by id.
func (s *Store) Get(ctx context.Context, table string, id int64) (map[string]interface{}, error) {
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := s.db.WithContext(ctx).Table(t.Name).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get %s: %w", t.Name, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Create inserts a row built from the sanitized payload and returns the new
// id. created_at/updated_at are server-set.
func (s *Store) Create(ctx context.Context, table string, fields map[string]interface{}) (int64, error) {
	t, err := s.table(table)
	if err != nil {
		return 0, err
	}
	values, err := sanitize(t, fields)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, ErrEmptyPayload
	}

	now := time.Now().UTC()
	values["created_at"] = now
	values["updated_at"] = now

	columns := make([]string, 0, len(values))
	for name := range values {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	args := make([]interface{}, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	for _, name := range columns {
		args = append(args, values[name])
		placeholders = append(placeholders, "?")
	}

	// Identifiers come from the registry or are the fixed timestamp columns;
	// values are bound.
	query := "INSERT INTO " + t.Name +
		" (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ") RETURNING id"

	var created struct{ ID int64 }
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&created).Error; err != nil {
		return 0, fmt.Errorf("create %s: %w", t.Name, err)
	}

	s.notify(ctx, Change{Table: t.Name, Action: "create", ID: created.ID})
	return created.ID, nil
}

// Update writes the supplied columns of one row; omitted columns are left
// untouched, which is what the grid's save-on-cell-edit relies on.
func (s *Store) Update(ctx context.Context, table string, id int64, fields map[string]interface{}) error {
	t, err := s.table(table)
	if err != nil {
		return err
	}
	values, err := sanitize(t, fields)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return ErrEmptyPayload
	}
	values["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).Table(t.Name).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("update %s: %w", t.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.notify(ctx, Change{Table: t.Name, Action: "update", ID: id})
	return nil
}

// Delete hard-deletes one row. A foreign key violation is surfaced as
// ErrRowInUse so the handler can answer "in use" instead of a generic 500.
func (s *Store) Delete(ctx context.Context, table string, id int64) error {
	t, err := s.table(table)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Exec("DELETE FROM "+t.Name+" WHERE id = ?", id)
	if result.Error != nil {
		if IsForeignKeyViolation(result.Error) {
			return fmt.Errorf("%w: %s id=%d", ErrRowInUse, t.Name, id)
		}
		return fmt.Errorf("delete %s: %w", t.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.notify(ctx, Change{Table: t.Name, Action: "delete", ID: id})
	return nil
}

func (s *Store) notify(ctx context.Context, ch Change) {
	if s.onChange != nil {
		s.onChange(ctx, ch)
	}
}
