package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/servicedesk/middleware"
	"p9e.in/servicedesk/models"
)

// TodoHandler is the personal task list. Every route is scoped to the
// acting user: you only ever see and move your own todos. New todos enter
// at the top; the position column is resequenced after every lifecycle
// transition so it stays dense.
type TodoHandler struct {
	db      *gorm.DB
	service *TodoService
	life    *Lifecycle[models.Todo]
}

func NewTodoHandler(db *gorm.DB) *TodoHandler {
	return &TodoHandler{
		db:      db,
		service: NewTodoService(db),
		life:    NewLifecycle[models.Todo](db, "todo"),
	}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	params := models.ParseListParams(r, 25)
	q := params.ApplySearch(
		h.db.Model(&models.Todo{}).Where("owner_id = ?", actorID(r)),
		"title").Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(w, err)
		return
	}
	var todos []models.Todo
	if err := q.Preload("Assignee").
		Order("position ASC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&todos).Error; err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse{
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		Data:     todos,
		Can:      middleware.CapabilityMap(r, "todo"),
	})
}

func (h *TodoHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	params := models.ParseListParams(r, 25)
	q := params.ApplySearch(
		h.db.Unscoped().Model(&models.Todo{}).
			Where("owner_id = ? AND deleted_at IS NOT NULL", actorID(r)),
		"title").Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(w, err)
		return
	}
	var todos []models.Todo
	if err := q.Order("deleted_at DESC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&todos).Error; err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse{
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		Data:     todos,
		Can:      middleware.CapabilityMap(r, "todo"),
	})
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in InsertAtTopInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	todo, err := h.service.InsertAtTop(actorID(r), in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "todo created", "data": todo})
}

// Update edits a todo's fields. Position is owned by the reorder endpoint
// and never moves here.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	todo, err := h.ownTodo(r)
	if err != nil {
		respondError(w, err)
		return
	}
	prevID, prevPosition := todo.ID, todo.Position
	if err := json.NewDecoder(r.Body).Decode(todo); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	todo.ID = prevID
	todo.Position = prevPosition
	todo.OwnerID = actorID(r)
	if todo.Title == "" {
		respondError(w, models.NewValidationError("title", "required"))
		return
	}
	if !todo.Visibility.Valid() {
		respondError(w, models.NewValidationError("visibility", fmt.Sprintf("unknown visibility %q", todo.Visibility)))
		return
	}
	if !todo.Priority.Valid() {
		respondError(w, models.NewValidationError("priority", fmt.Sprintf("unknown priority %q", todo.Priority)))
		return
	}
	if err := h.db.Save(todo).Error; err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "todo updated", "data": todo})
}

func (h *TodoHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, models.NewValidationError("body", "invalid JSON"))
		return
	}
	if err := h.service.Reorder(actorID(r), body.IDs); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "todos reordered"})
}

func (h *TodoHandler) Trash(w http.ResponseWriter, r *http.Request) {
	owner := actorID(r)
	todo, err := h.ownTodo(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.life.Trash(todo.ID.String()); err != nil {
		respondError(w, err)
		return
	}
	if err := h.service.Compact(owner); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "todo moved to trash"})
}

func (h *TodoHandler) Restore(w http.ResponseWriter, r *http.Request) {
	owner := actorID(r)
	id, err := h.ownTrashedTodoID(r, owner)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.life.Restore(id); err != nil {
		respondError(w, err)
		return
	}
	// Restored todos rejoin at the bottom of the active list.
	var max struct{ Max int }
	if err := h.db.Model(&models.Todo{}).
		Select("COALESCE(MAX(position), -1) AS max").
		Where("owner_id = ? AND id <> ?", owner, id).
		Scan(&max).Error; err != nil {
		respondError(w, err)
		return
	}
	if err := h.db.Model(&models.Todo{}).
		Where("id = ?", id).
		UpdateColumn("position", max.Max+1).Error; err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "todo restored"})
}

func (h *TodoHandler) ForceDelete(w http.ResponseWriter, r *http.Request) {
	owner := actorID(r)
	id, err := h.ownTrashedTodoID(r, owner)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.life.ForceDelete(id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "todo permanently deleted"})
}

// ownTodo loads an active todo and verifies ownership. A foreign todo reads
// as not found rather than forbidden: the list never showed it.
func (h *TodoHandler) ownTodo(r *http.Request) (*models.Todo, error) {
	id := mux.Vars(r)["id"]
	var todo models.Todo
	if err := h.db.First(&todo, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &models.NotFoundError{Entity: "todo", ID: id}
		}
		return nil, err
	}
	if todo.OwnerID != actorID(r) {
		return nil, &models.NotFoundError{Entity: "todo", ID: id}
	}
	return &todo, nil
}

func (h *TodoHandler) ownTrashedTodoID(r *http.Request, owner uuid.UUID) (string, error) {
	id := mux.Vars(r)["id"]
	var count int64
	if err := h.db.Unscoped().Model(&models.Todo{}).
		Where("id = ? AND owner_id = ?", id, owner).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", &models.NotFoundError{Entity: "todo", ID: id}
	}
	return id, nil
}
