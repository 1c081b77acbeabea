package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm/clause"
	"p9e.in/servicedesk/middleware"
	"p9e.in/servicedesk/models"
)

// actorID parses the acting user's id out of the JWT claims; uuid.Nil when
// the request carries no usable identity.
func actorID(r *http.Request) uuid.UUID {
	id, _ := uuid.Parse(middleware.GetUserID(r))
	return id
}

// Resource adapts one entity's Lifecycle onto the uniform HTTP surface:
// index, trash listing, show, create, update and the three lifecycle
// transitions. Entities with extra rules (job cards, users, todos) keep
// dedicated handlers and reuse the pieces they need.
type Resource[T any] struct {
	life            *Lifecycle[T]
	resource        string
	defaultPageSize int
	searchCols      []string
	listPreloads    []string
	getPreloads     []string

	// beforeSave validates and normalizes the decoded payload. isCreate
	// distinguishes first writes from overlay updates.
	beforeSave func(r *http.Request, item *T, isCreate bool) error
}

func NewResource[T any](life *Lifecycle[T], resource string, defaultPageSize int, searchCols []string) *Resource[T] {
	return &Resource[T]{
		life:            life,
		resource:        resource,
		defaultPageSize: defaultPageSize,
		searchCols:      searchCols,
	}
}

func (res *Resource[T]) WithPreloads(list, get []string) *Resource[T] {
	res.listPreloads = list
	res.getPreloads = get
	return res
}

func (res *Resource[T]) WithBeforeSave(fn func(r *http.Request, item *T, isCreate bool) error) *Resource[T] {
	res.beforeSave = fn
	return res
}

func (res *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	params := models.ParseListParams(r, res.defaultPageSize)
	rows, total, err := res.life.List(params, res.searchCols, res.listPreloads...)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse{
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		Data:     rows,
		Can:      middleware.CapabilityMap(r, res.resource),
	})
}

func (res *Resource[T]) ListTrash(w http.ResponseWriter, r *http.Request) {
	params := models.ParseListParams(r, res.defaultPageSize)
	rows, total, err := res.life.ListTrash(params, res.searchCols, res.listPreloads...)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse{
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		Data:     rows,
		Can:      middleware.CapabilityMap(r, res.resource),
	})
}

func (res *Resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, err := res.life.Get(id, res.getPreloads...)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	if res.beforeSave != nil {
		if err := res.beforeSave(r, &item, true); err != nil {
			respondError(w, err)
			return
		}
	}
	if err := res.life.db.Omit(clause.Associations).Create(&item).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(w, models.NewConflictError("%s already exists", res.resource))
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": res.resource + " created",
		"data":    item,
	})
}

// primaryKey reads the record's ID field. Every lifecycle-managed model
// keys on a comparable ID, uuid or numeric.
func primaryKey[T any](item *T) interface{} {
	return reflect.ValueOf(item).Elem().FieldByName("ID").Interface()
}

// Update fetches the live record and overlays the request body onto it, so
// omitted fields keep their stored values.
func (res *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, err := res.life.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}
	pathKey := primaryKey(item)
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	// A body-supplied "id" must not re-aim the Save at another row.
	if primaryKey(item) != pathKey {
		respondError(w, models.NewValidationError("id", "does not match the request path"))
		return
	}
	if res.beforeSave != nil {
		if err := res.beforeSave(r, item, false); err != nil {
			respondError(w, err)
			return
		}
	}
	if err := res.life.db.Omit(clause.Associations).Save(item).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(w, models.NewConflictError("%s already exists", res.resource))
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": res.resource + " updated",
		"data":    item,
	})
}

func (res *Resource[T]) Trash(w http.ResponseWriter, r *http.Request) {
	if err := res.life.Trash(mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": res.resource + " moved to trash"})
}

func (res *Resource[T]) Restore(w http.ResponseWriter, r *http.Request) {
	if err := res.life.Restore(mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": res.resource + " restored"})
}

func (res *Resource[T]) ForceDelete(w http.ResponseWriter, r *http.Request) {
	if err := res.life.ForceDelete(mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": res.resource + " permanently deleted"})
}
