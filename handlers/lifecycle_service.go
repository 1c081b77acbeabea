package handlers

import (
	"log"

	"gorm.io/gorm"
	"p9e.in/servicedesk/models"
)

// InUseCheck reports why a record cannot leave the store: a non-empty
// reason means dependents still reference it.
type InUseCheck func(db *gorm.DB, id string) (string, error)

// Lifecycle implements the four-state soft-delete machine shared by every
// entity: Active → Trashed → (Restored → Active | Purged). gorm's DeletedAt
// supplies the default-scope exclusion; trash listings flip to the
// complementary scope.
type Lifecycle[T any] struct {
	db     *gorm.DB
	entity string

	// inUse, when set, refuses ForceDelete while dependents exist.
	inUse InUseCheck
	// guardTrash additionally refuses plain Trash under the same check
	// (service statuses, roles and permissions cannot be deleted at all
	// while referenced).
	guardTrash bool
}

// NewLifecycle builds the lifecycle manager for one entity type.
func NewLifecycle[T any](db *gorm.DB, entity string) *Lifecycle[T] {
	return &Lifecycle[T]{db: db, entity: entity}
}

// WithInUseGuard wires a dependents check. guardTrash extends the refusal
// to the plain delete transition.
func (l *Lifecycle[T]) WithInUseGuard(check InUseCheck, guardTrash bool) *Lifecycle[T] {
	l.inUse = check
	l.guardTrash = guardTrash
	return l
}

// Trash moves Active → Trashed. Repeating it on an already-trashed record
// is a no-op success; an unknown id is a NotFoundError.
func (l *Lifecycle[T]) Trash(id string) error {
	if l.guardTrash && l.inUse != nil {
		reason, err := l.inUse(l.db, id)
		if err != nil {
			return err
		}
		if reason != "" {
			return models.NewConflictError("cannot delete %s: %s", l.entity, reason)
		}
	}

	res := l.db.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := l.db.Unscoped().Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &models.NotFoundError{Entity: l.entity, ID: id}
		}
		// Already trashed: re-applying the delete timestamp is harmless.
		return nil
	}
	log.Printf("🗑  trashed %s %s", l.entity, id)
	return nil
}

// Restore moves Trashed → Active, clearing the deletion timestamp. The
// record comes back observably identical to the moment before Trash.
func (l *Lifecycle[T]) Restore(id string) error {
	res := l.db.Unscoped().Model(new(T)).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: l.entity, ID: id}
	}
	log.Printf("♻️  restored %s %s", l.entity, id)
	return nil
}

// ForceDelete moves Trashed → Purged: the row is permanently removed and
// Restore on the same id will report NotFoundError from then on.
func (l *Lifecycle[T]) ForceDelete(id string) error {
	if l.inUse != nil {
		reason, err := l.inUse(l.db, id)
		if err != nil {
			return err
		}
		if reason != "" {
			return models.NewConflictError("cannot delete %s: %s", l.entity, reason)
		}
	}

	res := l.db.Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: l.entity, ID: id}
	}
	log.Printf("🔥 purged %s %s", l.entity, id)
	return nil
}

// List pages through Active records, newest first, with the entity's
// free-text search OR-combined over searchCols.
func (l *Lifecycle[T]) List(p models.ListParams, searchCols []string, preloads ...string) ([]T, int64, error) {
	return l.list(l.db.Model(new(T)), p, searchCols, preloads...)
}

// ListTrash pages through Trashed records only.
func (l *Lifecycle[T]) ListTrash(p models.ListParams, searchCols []string, preloads ...string) ([]T, int64, error) {
	q := l.db.Unscoped().Model(new(T)).Where("deleted_at IS NOT NULL")
	return l.list(q, p, searchCols, preloads...)
}

func (l *Lifecycle[T]) list(q *gorm.DB, p models.ListParams, searchCols []string, preloads ...string) ([]T, int64, error) {
	// Reusable session: Count and Find each start from the same conditions.
	q = p.ApplySearch(q, searchCols...).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, preload := range preloads {
		q = q.Preload(preload)
	}

	var rows []T
	if err := q.Order("created_at DESC").
		Limit(p.PageSize).
		Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Get loads one Active record by id with the given preloads.
func (l *Lifecycle[T]) Get(id string, preloads ...string) (*T, error) {
	q := l.db
	for _, preload := range preloads {
		q = q.Preload(preload)
	}
	var row T
	if err := q.First(&row, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &models.NotFoundError{Entity: l.entity, ID: id}
		}
		return nil, err
	}
	return &row, nil
}
