// Package repository implements the relational side of the catalog: a
// generic CRUD engine over gorm, parameterized by entity type, plus the
// per-entity repositories for menus, submenus and dishes.
//
// Reads are always ordered by id and eagerly preload the configured child
// collections. Writes run in their own transaction (a savepoint when the
// repository is bound to an outer transaction), so a rejected write leaves
// the session usable.
package repository

import (
	"context"

	"github.com/dailyyoga/menuhub/db"
	"github.com/dailyyoga/menuhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filters are equality conditions keyed by column name
type Filters map[string]any

// Config describes one entity type to the engine
type Config struct {
	// NotFound is the message of ErrNotFound for this type
	NotFound string
	// AlreadyExists is the message of ErrAlreadyExists for this type
	AlreadyExists string
	// ParentNotFound is reported when the parent row of a new object is missing
	ParentNotFound string
	// Preloads lists the associations loaded with every read
	Preloads []string
	// Hooks implements any subset of the hook interfaces for the type
	Hooks any
}

// Repository is the generic CRUD engine
type Repository[T model.Entity] struct {
	db  *gorm.DB
	cfg Config
}

// New creates a repository for T on db
func New[T model.Entity](db *gorm.DB, cfg Config) *Repository[T] {
	return &Repository[T]{db: db, cfg: cfg}
}

// WithDB returns a copy of the repository bound to db, typically a transaction
func (r *Repository[T]) WithDB(db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db, cfg: r.cfg}
}

func (r *Repository[T]) query(ctx context.Context, filters Filters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(T))
	for _, assoc := range r.cfg.Preloads {
		q = q.Preload(assoc, func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id")
		})
	}
	if len(filters) > 0 {
		q = q.Where(map[string]any(filters))
	}
	return q.Order("id")
}

// GetByAttributes returns the first object matching filters. On a miss it
// returns nil, or ErrNotFound when exception is set.
func (r *Repository[T]) GetByAttributes(ctx context.Context, filters Filters, exception bool) (*T, error) {
	var found []T
	if err := r.query(ctx, filters).Limit(1).Find(&found).Error; err != nil {
		return nil, ErrQuery("select", err)
	}
	if len(found) == 0 {
		if exception {
			return nil, NotFound(r.cfg.NotFound)
		}
		return nil, nil
	}
	return &found[0], nil
}

// GetAllByAttributes returns every object matching filters. On a miss it
// returns nil, or ErrNotFound when exception is set.
func (r *Repository[T]) GetAllByAttributes(ctx context.Context, filters Filters, exception bool) ([]T, error) {
	var found []T
	if err := r.query(ctx, filters).Find(&found).Error; err != nil {
		return nil, ErrQuery("select", err)
	}
	if len(found) == 0 {
		if exception {
			return nil, NotFound(r.cfg.NotFound)
		}
		return nil, nil
	}
	return found, nil
}

// Get returns the object with id, or nil when there is none
func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	return r.GetByAttributes(ctx, Filters{"id": id}, false)
}

// GetOr404 returns the object with id or ErrNotFound
func (r *Repository[T]) GetOr404(ctx context.Context, id uint) (*T, error) {
	return r.GetByAttributes(ctx, Filters{"id": id}, true)
}

// GetAll returns every object ordered by id
func (r *Repository[T]) GetAll(ctx context.Context, exception bool) ([]T, error) {
	return r.GetAllByAttributes(ctx, nil, exception)
}

// Create builds a new object from payload and persists it. A non-nil
// parentID is attached by the PerformCreate hook.
func (r *Repository[T]) Create(ctx context.Context, payload model.Payload[T], parentID *uint) (*T, error) {
	obj := new(T)
	payload.Fill(obj)
	if parentID != nil {
		h, ok := r.cfg.Hooks.(CreatePerformer[T])
		if !ok {
			return nil, NotImplemented("PerformCreate")
		}
		if err := h.PerformCreate(obj, *parentID); err != nil {
			return nil, err
		}
	}
	if err := r.save(ctx, obj); err != nil {
		return nil, err
	}
	// reload so the returned object carries its (empty) child collections
	return r.GetOr404(ctx, (*obj).GetID())
}

// Update applies the provided fields of payload to the object with id
func (r *Repository[T]) Update(ctx context.Context, id uint, payload model.Payload[T], opts ...Option) (*T, error) {
	o := collect(opts)
	obj, err := r.GetOr404(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.checkPermission(ctx, obj, o.user); err != nil {
		return nil, err
	}

	changes := payload.Changes()
	v, ok := r.cfg.Hooks.(UpdateValidator[T])
	if !ok {
		return nil, NotImplemented("IsUpdateAllowed")
	}
	if err := v.IsUpdateAllowed(ctx, obj, changes); err != nil {
		return nil, err
	}

	if o.performUpdate {
		p, ok := r.cfg.Hooks.(UpdatePerformer[T])
		if !ok {
			return nil, NotImplemented("PerformUpdate")
		}
		if obj, err = p.PerformUpdate(obj, changes); err != nil {
			return nil, err
		}
	} else {
		payload.Fill(obj)
	}

	if err := r.save(ctx, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Delete removes the object with id; the schema cascades the delete to its
// descendants. The returned object is detached but keeps the child
// collections loaded before the delete.
func (r *Repository[T]) Delete(ctx context.Context, id uint, opts ...Option) (*T, error) {
	o := collect(opts)
	obj, err := r.GetOr404(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.checkPermission(ctx, obj, o.user); err != nil {
		return nil, err
	}
	v, ok := r.cfg.Hooks.(DeleteValidator[T])
	if !ok {
		return nil, NotImplemented("IsDeleteAllowed")
	}
	if err := v.IsDeleteAllowed(ctx, obj); err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Delete(obj).Error
	})
	if err != nil {
		return nil, ErrQuery("delete", err)
	}
	return obj, nil
}

// DeleteAll removes every row of T and, through the cascade, their
// descendants
func (r *Repository[T]) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(new(T))
	if res.Error != nil {
		return 0, ErrQuery("delete all", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *Repository[T]) checkPermission(ctx context.Context, obj *T, user any) error {
	if user == nil {
		return nil
	}
	h, ok := r.cfg.Hooks.(PermissionChecker[T])
	if !ok {
		return NotImplemented("HasPermission")
	}
	return h.HasPermission(ctx, obj, user)
}

// save writes obj in its own transaction and maps constraint violations
func (r *Repository[T]) save(ctx context.Context, obj *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(obj).Error
	})
	switch {
	case err == nil:
		return nil
	case db.IsDuplicateKey(err):
		return AlreadyExists(r.cfg.AlreadyExists)
	case db.IsForeignKeyViolation(err):
		return NotFound(r.cfg.ParentNotFound)
	default:
		return ErrQuery("save", err)
	}
}
